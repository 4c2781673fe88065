// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptrace"
	"sync/atomic"
	"time"

	"github.com/gogama/reqx/fault"
	"github.com/gogama/reqx/request"
	"github.com/gogama/reqx/session"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package. The session
// Handle type implements HTTPDoer.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

var emptyHandlers = HandlerGroup{}

// A Handler executes single logical HTTP calls over a shared pooled
// session. Its zero value is a valid configuration.
//
// The zero value handler borrows its session from the process-wide
// session.Default factory with default configuration, and runs no
// event handlers.
//
// A Handler is safe for concurrent use by multiple goroutines: many
// Execute calls may be in flight at once, each independent except for
// contention on the shared connection pool's per-host slot limit. No
// ordering is guaranteed between concurrent calls.
//
// On top of the raw request/response exchange, Handler adds the
// following guarantees:
//
// • every call makes exactly one request attempt — no retries;
//
// • the response body is read and buffered in full into a []byte;
//
// • every failure is translated into a typed *fault.Error before
// reaching the caller — raw transport errors never escape;
//
// • per-call resources (timeout context, response body stream) are
// released on every exit path, while the shared session handle is
// never closed by the handler; and
//
// • user-provided event handlers are invoked at designated plug-in
// points within the call, allowing features like logging and metrics
// to be mixed in from outside libraries.
type Handler struct {
	// Factory names the session factory scope whose shared handle the
	// handler borrows per call.
	//
	// If Factory is nil, the process-wide session.Default factory is
	// used.
	Factory *session.Factory
	// Config is the session configuration passed to the factory on
	// each acquisition. The zero value means "the session as currently
	// configured". Like any conflicting configuration, a non-zero
	// Config differing from the factory's live session fails the call
	// with a Configuration fault.
	Config session.Config
	// Doer optionally overrides the transport mechanics. If non-nil,
	// it is used to send the request instead of a session handle, and
	// Factory is not consulted. Most callers leave it nil; it exists
	// so tests and adapters can intercept the exchange.
	Doer HTTPDoer
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during a call.
	//
	// If Handlers is nil, no custom event handlers will be run.
	Handlers *HandlerGroup
}

// Execute performs one logical HTTP call described by the descriptor
// and returns the structured result, or a typed fault.
//
// A call proceeds through a fixed state machine: the descriptor is
// validated; the shared session handle is acquired from the factory
// (no connection is opened yet — the pool assigns one lazily); the
// request is sent with the descriptor's timeout bounding the total
// round-trip time; and the outcome is mapped. A response with a 2xx or
// 3xx status code produces a Result with the body fully buffered. A
// 4xx or 5xx status fails with a Client or Server fault carrying the
// exact status code, reason phrase and body. A transport failure fails
// with a Connection fault wrapping the cause, and an elapsed deadline
// or cancelled context fails with a Timeout fault distinguishing the
// connect phase from the read phase when determinable.
//
// Any returned error is a *fault.Error. If the returned error is nil,
// the returned Result is non-nil and its Body is non-nil (although it
// may have zero length).
//
// Per-call resources are released on every exit path in reverse
// acquisition order. A partially read body (headers received, body
// read failed) is discarded and surfaced as a Connection fault, never
// as a partial success.
func (h *Handler) Execute(d *request.Descriptor) (*request.Result, error) {
	e := request.Execution{
		Descriptor: d,
	}

	handlers := h.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExecute, &e)
	e.Start = time.Now()

	res := h.execute(d, &e, handlers)

	e.End = time.Now()
	handlers.run(AfterExecute, &e)
	return res, e.Err
}

func (h *Handler) execute(d *request.Descriptor, e *request.Execution, handlers *HandlerGroup) *request.Result {
	e.State = request.Validating
	if d == nil {
		e.Err = fault.New(fault.Validation, "nil descriptor")
		e.State = request.Invalid
		return nil
	}
	if err := d.Validate(); err != nil {
		e.Err = err
		e.State = request.Invalid
		return nil
	}

	doer, timeout, err := h.sender(d)
	if err != nil {
		e.Err = err
		e.State = request.Invalid
		return nil
	}

	rel := &releaseStack{}
	defer rel.release()

	ctx, cancel := context.WithTimeout(d.Context(), timeout)
	rel.push(cancel)

	// GotConn marks the connect/read phase boundary for timeout
	// classification. The trace callback may run on a transport
	// goroutine.
	var connected atomic.Bool
	ctx = httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
		GotConn: func(httptrace.GotConnInfo) { connected.Store(true) },
	})

	e.Request = d.ToRequest(ctx)
	e.State = request.AwaitingConnection
	handlers.run(BeforeSend, e)

	resp, err := doer.Do(e.Request)
	if err != nil {
		fail(e, handlers, fault.FromTransport(err, connected.Load()))
		return nil
	}

	e.Response = resp
	e.State = request.AwaitingResponse
	rel.push(func() {
		_ = resp.Body.Close()
	})

	handlers.run(BeforeReadBody, e)
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// Partial data is discarded, not returned as partial success.
		fail(e, handlers, fault.FromTransport(err, true))
		return nil
	}
	e.Body = body

	if f := fault.FromStatus(resp.StatusCode, request.ReasonPhrase(resp), body); f != nil {
		fail(e, handlers, f)
		return nil
	}

	e.State = request.Succeeded
	return e.Result()
}

// sender resolves the transport seam and the effective round-trip
// bound for one call. The shared session handle is only borrowed; it
// is never closed here or anywhere else in the handler.
func (h *Handler) sender(d *request.Descriptor) (HTTPDoer, time.Duration, error) {
	timeout := d.Timeout

	if h.Doer != nil {
		if timeout == 0 {
			timeout = h.Config.DefaultTimeout
		}
		if timeout == 0 {
			timeout = request.DefaultTimeout
		}
		return h.Doer, timeout, nil
	}

	factory := h.Factory
	if factory == nil {
		factory = session.Default
	}
	hd, err := factory.Session(h.Config)
	if err != nil {
		return nil, 0, err
	}
	if timeout == 0 {
		timeout = hd.Config().DefaultTimeout
	}
	if timeout == 0 {
		timeout = request.DefaultTimeout
	}
	return hd, timeout, nil
}

func fail(e *request.Execution, handlers *HandlerGroup, f *fault.Error) {
	e.Err = f
	switch f.Kind {
	case fault.Timeout:
		e.State = request.TimedOut
		handlers.run(AfterTimeout, e)
	case fault.Client:
		e.State = request.ClientError
	case fault.Server:
		e.State = request.ServerError
	default:
		e.State = request.ConnectionFailed
	}
}
