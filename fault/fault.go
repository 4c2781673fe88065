// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fault

import (
	"context"
	"errors"
	"fmt"
	"syscall"
)

// A Kind is the failure class of an Error. Callers should branch on
// Kind rather than on error text.
type Kind int

const (
	// Validation indicates a malformed request descriptor. Validation
	// failures are caller bugs: the request never reached the network
	// and retrying the identical call cannot succeed.
	Validation Kind = iota
	// Client indicates an HTTP response with a 4xx status code. The
	// Error carries the status code, reason phrase and response body.
	Client
	// Server indicates an HTTP response with a 5xx status code. The
	// Error carries the status code, reason phrase and response body.
	// A caller-side policy may choose to retry these; reqx itself
	// never does.
	Server
	// Connection indicates a transport-level failure: DNS resolution,
	// connection refused, connection reset, TLS handshake failure, or
	// a broken body read after response headers were received. The
	// underlying cause is available via errors.Unwrap.
	Connection
	// Timeout indicates the call's deadline elapsed, or the call was
	// cancelled, before a complete response was obtained. Phase
	// reports whether the deadline expired while connecting or while
	// reading, when the transport makes that determinable.
	Timeout
	// Configuration indicates the session factory was given an
	// invalid configuration, or a configuration conflicting with the
	// live session.
	Configuration
	// kindSentinel provides the total number of kinds typed as a Kind.
	kindSentinel
)

var kindNames = []string{
	"validation",
	"client error",
	"server error",
	"connection error",
	"timeout",
	"configuration",
}

// String returns the name of the failure kind.
func (k Kind) String() string {
	if k < 0 || k >= kindSentinel {
		return fmt.Sprintf("fault.Kind(%d)", int(k))
	}
	return kindNames[k]
}

// A Phase localizes a timeout within the request lifecycle.
type Phase int

const (
	// PhaseNone means the timeout phase is unknown or the error is
	// not a timeout.
	PhaseNone Phase = iota
	// PhaseConnect means the deadline expired before a connection to
	// the remote host was obtained.
	PhaseConnect
	// PhaseRead means the deadline expired after the connection was
	// obtained, while awaiting or reading the response.
	PhaseRead
)

var phaseNames = []string{"", "connect", "read"}

// String returns the name of the timeout phase, or the empty string
// for PhaseNone.
func (p Phase) String() string {
	if p < PhaseNone || p > PhaseRead {
		return fmt.Sprintf("fault.Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// An Error is a tagged request failure. It is the only error type the
// reqx request handler returns: raw transport errors are always
// translated into an Error before reaching the caller, with the
// original error retained as the wrapped cause.
type Error struct {
	// Kind is the failure class.
	Kind Kind
	// Status is the HTTP status code for Client and Server kinds, and
	// zero otherwise.
	Status int
	// Reason is a short human-readable description. For status faults
	// it is derived from the reason phrase of the response status line.
	Reason string
	// Body is the response body received alongside an error status
	// code. It is nil for non-status faults and may be empty for
	// status faults whose response had no body.
	Body []byte
	// Phase localizes a Timeout fault within the request lifecycle.
	// It is PhaseNone for all other kinds.
	Phase Phase

	cause error
}

// New returns an Error of the given kind with no underlying cause.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Wrap returns an Error of the given kind wrapping an underlying
// cause. The cause remains reachable through errors.Is and errors.As.
func Wrap(kind Kind, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("reqx: %s: %d %s", e.Kind, e.Status, e.Reason)
	case e.Kind == Timeout && e.Phase != PhaseNone:
		return fmt.Sprintf("reqx: %s (%s): %s", e.Kind, e.Phase, e.Reason)
	case e.cause != nil && e.Reason == "":
		return fmt.Sprintf("reqx: %s: %s", e.Kind, e.cause)
	default:
		return fmt.Sprintf("reqx: %s: %s", e.Kind, e.Reason)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Timeout reports whether the error represents a timeout. It lets an
// *Error satisfy the same informal interface the standard library
// net package uses to flag timeout errors.
func (e *Error) Timeout() bool {
	return e.Kind == Timeout
}

// KindOf returns the failure kind of err. The second return value is
// false if err is nil or is not (and does not wrap) a *fault.Error.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// FromStatus maps an HTTP status code, reason phrase and response body
// to a status fault. Codes in the 4xx range map to a Client fault and
// codes in the 5xx range to a Server fault; all other codes, including
// the whole 2xx and 3xx ranges, map to nil. The mapping performs no
// I/O.
//
// 401 and 403 responses carry distinguished reason text, since they
// usually indicate credential problems rather than malformed request
// data.
func FromStatus(status int, reason string, body []byte) *Error {
	switch {
	case status == 401:
		return &Error{Kind: Client, Status: status, Reason: "authentication failed: " + reason, Body: body}
	case status == 403:
		return &Error{Kind: Client, Status: status, Reason: "authorization failed: " + reason, Body: body}
	case 400 <= status && status < 500:
		return &Error{Kind: Client, Status: status, Reason: reason, Body: body}
	case 500 <= status && status < 600:
		return &Error{Kind: Server, Status: status, Reason: reason, Body: body}
	default:
		return nil
	}
}

// FromTransport translates an error returned by the underlying HTTP
// transport into a fault. The connected flag reports whether a
// connection to the remote host had been obtained when the error
// occurred; it determines the Phase of a Timeout fault.
//
// Timeouts are detected the same way the net package flags them: if
// err or any wrapped cause has a Timeout() method reporting true, or
// wraps context.DeadlineExceeded. Cancellation is folded into the
// Timeout kind, with context.Canceled retained as the wrapped cause so
// errors.Is still observes it. Everything else is a Connection fault.
//
// If err is already a *fault.Error it is returned unchanged.
func FromTransport(err error, connected bool) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}

	phase := PhaseConnect
	if connected {
		phase = PhaseRead
	}

	var ht hasTimeout
	if errors.As(err, &ht) && ht.Timeout() || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: Timeout, Reason: "deadline exceeded", Phase: phase, cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: Timeout, Reason: "cancelled", Phase: phase, cause: err}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return &Error{Kind: Connection, Reason: "connection reset", cause: err}
		} else if errno == syscall.ECONNREFUSED {
			return &Error{Kind: Connection, Reason: "connection refused", cause: err}
		}
	}

	return &Error{Kind: Connection, cause: err}
}

type hasTimeout interface {
	Timeout() bool
}
