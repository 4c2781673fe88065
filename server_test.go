// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogama/reqx/fault"
	"github.com/gogama/reqx/request"
	"github.com/gogama/reqx/session"
)

// Tests in this file run real round trips against a local HTTP server.

var testServer *httptest.Server

func TestMain(m *testing.M) {
	testServer = httptest.NewServer(http.HandlerFunc(serveTest))
	code := m.Run()
	testServer.Close()
	os.Exit(code)
}

func serveTest(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/echo":
		w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	case r.URL.Path == "/notfound":
		w.WriteHeader(404)
		_, _ = w.Write([]byte(`{"error":"no such thing"}`))
	case r.URL.Path == "/unauthorized":
		w.WriteHeader(401)
	case r.URL.Path == "/slow":
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(200)
	case r.URL.Path == "/reset":
		hj, ok := w.(http.Hijacker)
		if !ok {
			panic("server does not support hijacking")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			panic(err)
		}
		if tcp, ok := conn.(*net.TCPConn); ok {
			_ = tcp.SetLinger(0)
		}
		_ = conn.Close()
	default:
		w.WriteHeader(200)
	}
}

func testFactory(t *testing.T) *session.Factory {
	f := session.NewFactory()
	t.Cleanup(func() {
		_ = f.Close()
	})
	return f
}

func TestServerHappyPath(t *testing.T) {
	h := &Handler{Factory: testFactory(t)}

	r, err := h.Post(testServer.URL+"/echo", "text/plain", "hello there")

	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 200, r.Status)
	assert.Equal(t, "OK", r.Reason)
	assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
	assert.Equal(t, []byte("hello there"), r.Body)
}

func TestServerEmptyBody(t *testing.T) {
	h := &Handler{Factory: testFactory(t)}

	r, err := h.Get(testServer.URL + "/")

	require.NoError(t, err)
	require.NotNil(t, r)
	require.NotNil(t, r.Body, "successful result always has a non-nil body")
	assert.Len(t, r.Body, 0)
}

func TestServerClientFault(t *testing.T) {
	h := &Handler{Factory: testFactory(t)}

	r, err := h.Get(testServer.URL + "/notfound")

	assert.Nil(t, r)
	var f *fault.Error
	require.True(t, errors.As(err, &f))
	assert.Equal(t, fault.Client, f.Kind)
	assert.Equal(t, 404, f.Status)
	assert.Equal(t, "Not Found", f.Reason)
	assert.Equal(t, []byte(`{"error":"no such thing"}`), f.Body)
}

func TestServerAuthenticationFault(t *testing.T) {
	h := &Handler{Factory: testFactory(t)}

	_, err := h.Get(testServer.URL + "/unauthorized")

	var f *fault.Error
	require.True(t, errors.As(err, &f))
	assert.Equal(t, fault.Client, f.Kind)
	assert.Equal(t, 401, f.Status)
	assert.Contains(t, f.Error(), "authentication failed")
}

func TestServerTimeout(t *testing.T) {
	h := &Handler{Factory: testFactory(t)}
	d, err := request.NewDescriptor("GET", testServer.URL+"/slow", nil)
	require.NoError(t, err)
	d.Timeout = 10 * time.Millisecond

	start := time.Now()
	r, err := h.Execute(d)
	elapsed := time.Since(start)

	assert.Nil(t, r)
	var f *fault.Error
	require.True(t, errors.As(err, &f))
	assert.Equal(t, fault.Timeout, f.Kind)
	assert.True(t, f.Timeout())
	assert.Less(t, elapsed, time.Second, "timed-out call must not hang")
}

func TestServerCancel(t *testing.T) {
	h := &Handler{Factory: testFactory(t)}
	ctx, cancel := context.WithCancel(context.Background())
	d, err := request.NewDescriptorWithContext(ctx, "GET", testServer.URL+"/slow", nil)
	require.NoError(t, err)
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	r, err := h.Execute(d)

	assert.Nil(t, r)
	var f *fault.Error
	require.True(t, errors.As(err, &f))
	assert.Equal(t, fault.Timeout, f.Kind)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestServerConnectionReset(t *testing.T) {
	h := &Handler{Factory: testFactory(t)}

	r, err := h.Get(testServer.URL + "/reset")

	assert.Nil(t, r)
	var f *fault.Error
	require.True(t, errors.As(err, &f))
	assert.Equal(t, fault.Connection, f.Kind)
}

func TestServerConnectionRefused(t *testing.T) {
	// Bind a listener, note its address, and close it so the port is
	// known to refuse connections.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	h := &Handler{Factory: testFactory(t)}
	r, err := h.Get("http://" + addr + "/")

	assert.Nil(t, r)
	var f *fault.Error
	require.True(t, errors.As(err, &f))
	assert.Equal(t, fault.Connection, f.Kind)
	assert.Contains(t, f.Error(), "connection refused")
}

func TestServerSessionReuse(t *testing.T) {
	f := testFactory(t)
	h := &Handler{Factory: f}

	for i := 0; i < 5; i++ {
		r, err := h.Get(testServer.URL + "/")
		require.NoError(t, err)
		require.NotNil(t, r)
	}

	h1, err := f.Session(session.Config{})
	require.NoError(t, err)
	h2, err := f.Session(session.Config{})
	require.NoError(t, err)
	assert.Same(t, h1, h2, "every call must share one pooled session")
}

func TestServerPerHostSlotContention(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	h := &Handler{
		Factory: testFactory(t),
		Config: session.Config{
			MaxConns:       1,
			MaxPerHost:     1,
			DefaultTimeout: time.Second,
			IdleTimeout:    time.Minute,
		},
	}

	// Occupy the single per-host slot with a slow call.
	holder := make(chan error, 1)
	go func() {
		_, err := h.Get(srv.URL + "/")
		holder <- err
	}()
	time.Sleep(50 * time.Millisecond)

	d, err := request.NewDescriptor("GET", srv.URL+"/", nil)
	require.NoError(t, err)
	d.Timeout = 100 * time.Millisecond

	start := time.Now()
	r, err := h.Execute(d)
	elapsed := time.Since(start)

	// The blocked checkout is bounded by the call's own deadline: it
	// surfaces a timeout fault instead of hanging until the slot frees.
	assert.Nil(t, r)
	var f *fault.Error
	require.True(t, errors.As(err, &f))
	assert.Equal(t, fault.Timeout, f.Kind)
	assert.Less(t, elapsed, 250*time.Millisecond, "blocked checkout must respect the call deadline")

	assert.NoError(t, <-holder)
}

func TestServerConcurrentCalls(t *testing.T) {
	h := &Handler{Factory: testFactory(t)}
	const n = 16
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := h.Get(testServer.URL + "/echo")
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		assert.NoError(t, <-errs)
	}
}

func TestServerDefaultHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	h := &Handler{Factory: testFactory(t)}
	_, err := h.Get(srv.URL + "/")

	require.NoError(t, err)
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(got.Get("User-Agent"), "reqx-client/"))
}

func TestServerQueryParams(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
	}))
	defer srv.Close()

	h := &Handler{Factory: testFactory(t)}
	d, err := request.NewDescriptor("GET", srv.URL+"/?a=1", nil)
	require.NoError(t, err)
	d.Query = map[string][]string{"b": {"2"}}

	_, err = h.Execute(d)

	require.NoError(t, err)
	assert.Equal(t, "a=1&b=2", query)
}
