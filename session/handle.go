// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package session

import (
	"crypto/tls"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gogama/reqx/fault"
)

// A Handle wraps one pooled-connection-capable client session: a tuned
// transport holding the connection pool, plus the configuration it was
// built from.
//
// A Handle is created by a Factory, shared by all concurrent request
// executions in the factory's scope, and destroyed only by an explicit
// Factory.Close. Request handlers borrow it per call and must never
// close it themselves.
//
// A Handle is safe for concurrent use by multiple goroutines.
type Handle struct {
	cfg       Config
	client    *http.Client
	transport *http.Transport
	closed    atomic.Bool
}

func newHandle(cfg Config) *Handle {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxConnsPerHost:     cfg.MaxPerHost,
		MaxIdleConns:        cfg.MaxConns,
		MaxIdleConnsPerHost: cfg.MaxPerHost,
		IdleConnTimeout:     cfg.IdleTimeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.TLSInsecure,
		},
	}

	return &Handle{
		cfg:       cfg,
		transport: transport,
		client: &http.Client{
			Transport: transport,
		},
	}
}

// Config returns the configuration the handle was built from.
func (h *Handle) Config() Config {
	return h.cfg
}

// Closed reports whether the handle has been torn down by its factory.
func (h *Handle) Closed() bool {
	return h.closed.Load()
}

// Do sends a single HTTP request over the pooled session, in the same
// manner as the GoLang standard library http.Client from the net/http
// package. The request's context bounds connection checkout, connect,
// write and read.
//
// Sending on a closed handle fails with a Connection fault; it never
// panics and never silently reopens the pool.
func (h *Handle) Do(r *http.Request) (*http.Response, error) {
	if h.closed.Load() {
		return nil, fault.New(fault.Connection, "session closed")
	}
	return h.client.Do(r)
}

// CloseIdleConnections closes connections sitting idle in the pool in
// a "keep-alive" state. It does not interrupt any connections
// currently in use.
func (h *Handle) CloseIdleConnections() {
	h.transport.CloseIdleConnections()
}

// close tears the handle down. It is idempotent and reserved to the
// owning factory: after close, Do fails and the handle is never handed
// out again.
func (h *Handle) close() {
	if h.closed.CompareAndSwap(false, true) {
		h.transport.CloseIdleConnections()
	}
}
