// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/reqx/fault"
)

// A State is the position of a call within its per-call state machine.
//
// Every call moves Idle → Validating → AwaitingConnection →
// AwaitingResponse and finishes in exactly one terminal state. All
// terminal states trigger the same per-call resource release path, and
// no state is ever revisited: there is exactly one attempt per call.
type State int

const (
	// Idle is the state before execution begins.
	Idle State = iota
	// Validating is the state while the descriptor is being checked.
	Validating
	// AwaitingConnection is the state while a pooled connection is
	// being checked out or a new connection opened.
	AwaitingConnection
	// AwaitingResponse is the state after the request has been written
	// while response headers and body are awaited.
	AwaitingResponse
	// Succeeded is the terminal state for 2xx and 3xx responses.
	Succeeded
	// ClientError is the terminal state for 4xx responses.
	ClientError
	// ServerError is the terminal state for 5xx responses.
	ServerError
	// ConnectionFailed is the terminal state for transport failures.
	ConnectionFailed
	// TimedOut is the terminal state when the deadline elapsed or the
	// call was cancelled.
	TimedOut
	// Invalid is the terminal state when the descriptor failed
	// validation or the session configuration was rejected. The
	// network is never touched on the way to this state.
	Invalid
	// stateSentinel provides the total number of states typed as a
	// State.
	stateSentinel
)

var stateNames = []string{
	"Idle",
	"Validating",
	"AwaitingConnection",
	"AwaitingResponse",
	"Succeeded",
	"ClientError",
	"ServerError",
	"ConnectionFailed",
	"TimedOut",
	"Invalid",
}

// Terminal reports whether the state ends the call.
func (s State) Terminal() bool {
	return s >= Succeeded && s < stateSentinel
}

// String returns the name of the state.
func (s State) String() string {
	if s < 0 || s >= stateSentinel {
		return "State(?)"
	}
	return stateNames[s]
}

// An Execution represents the state of a single call as it progresses
// through the request handler.
//
// When a call starts, an Execution is created for it and then updated
// as the call progresses: when the outgoing HTTP request is built, when
// the response arrives, and when the outcome is decided. Event handlers
// observe the Execution at each plug-in point.
//
// Event handlers may set values on an Execution using its SetValue
// method and read them back using the Value method. However, they
// should treat the structure's exported field values as immutable and
// leave them unmodified, as the execution state is vital to the correct
// functioning of the call logic. The one sanctioned exception is making
// reasonable changes to the outgoing http.Request before it is sent,
// for example to support an OAuth or AWS signing use case.
type Execution struct {
	// Descriptor specifies the call being executed. It is never nil.
	Descriptor *Descriptor

	// State is the call's current position in the per-call state
	// machine. After the call ends it holds the terminal state.
	State State

	// Start is the start time of the call. It is assigned a non-zero
	// value when execution starts, and this value remains constant
	// thereafter.
	Start time.Time

	// End is the end time of the call. It contains the zero value
	// until the call ends, when it is set to the current time.
	End time.Time

	// Request specifies the lower-level HTTP request built from the
	// descriptor, or nil before it is built.
	Request *http.Request

	// Response specifies the HTTP response received, if any. It is nil
	// if the call ended before response headers arrived. The response
	// body stream is drained and closed by the request handler; read
	// the buffered bytes from Body instead.
	Response *http.Response

	// Err is the fault the call ended with, or nil on success or while
	// the call is still in flight. Whenever Err is non-nil, it has the
	// type *fault.Error.
	Err error

	// Body is the complete buffered response body. It is nil if the
	// call ended before the body was fully read: a partially read body
	// is discarded, never surfaced.
	Body []byte

	// data contains arbitrary user data. The reqx library will not
	// touch this field. Event handlers interact with it via the Value
	// and SetValue methods.
	data context.Context
}

// StatusCode returns the status code of the HTTP response, or 0 if no
// response was received.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the HTTP response headers, or the nil header if no
// response was received.
//
// Note that a nil return value is always safe for read-only
// operations, since http.Header is a map type.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the call.
//
// If the call has not yet started, the duration is zero. If the call
// has Ended, the duration returned is equal to End minus Start.
// Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the call has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the call has ended. Once it returns true,
// there will be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// representing a timeout or cancellation.
func (e *Execution) Timeout() bool {
	kind, ok := fault.KindOf(e.Err)
	return ok && kind == fault.Timeout
}

// Result converts a successfully ended execution into a Result. It
// returns nil if the call did not end in the Succeeded state.
func (e *Execution) Result() *Result {
	if e.State != Succeeded || e.Response == nil {
		return nil
	}
	return &Result{
		Status: e.Response.StatusCode,
		Reason: ReasonPhrase(e.Response),
		Header: e.Response.Header,
		Body:   e.Body,
	}
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely it:
//
// • it may not be nil;
//
// • it must be comparable;
//
// • it should not be of type string or any other built-in type to avoid
// collisions between different event handlers putting data into the
// same execution.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
