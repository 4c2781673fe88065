// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"io"
	"net/http"
	urlpkg "net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogama/reqx/fault"
)

func TestNewDescriptor(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		d, err := NewDescriptor("", "https://example.com/a", nil)
		require.NoError(t, err)
		assert.Equal(t, "GET", d.Method)
		assert.Equal(t, "https://example.com/a", d.URL.String())
		assert.Equal(t, "example.com", d.Host)
		assert.Nil(t, d.Body)
		assert.Equal(t, time.Duration(0), d.Timeout)
		assert.Equal(t, "application/json", d.Header.Get("Accept"))
		assert.Equal(t, "application/json", d.Header.Get("Content-Type"))
		assert.Equal(t, "reqx-client/"+Version, d.Header.Get("User-Agent"))
	})
	t.Run("body", func(t *testing.T) {
		d, err := NewDescriptor("POST", "https://example.com", `{"a":1}`)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), d.Body)
	})
	t.Run("empty port removed", func(t *testing.T) {
		d, err := NewDescriptor("GET", "https://example.com:/x", nil)
		require.NoError(t, err)
		assert.Equal(t, "example.com", d.URL.Host)
	})
	t.Run("all methods", func(t *testing.T) {
		for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD"} {
			d, err := NewDescriptor(method, "https://example.com", nil)
			require.NoError(t, err, method)
			assert.Equal(t, method, d.Method)
		}
	})
}

func TestNewDescriptor_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		method string
		url    string
	}{
		{"unknown method", "FROBNICATE", "https://example.com"},
		{"lowercase method", "get", "https://example.com"},
		{"options not whitelisted", "OPTIONS", "https://example.com"},
		{"relative URL", "GET", "/users/1"},
		{"scheme only", "GET", "https://"},
		{"no scheme", "GET", "example.com/users"},
		{"garbage URL", "GET", ":::"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			d, err := NewDescriptor(testCase.method, testCase.url, nil)
			assert.Nil(t, d)
			require.Error(t, err)
			kind, ok := fault.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, fault.Validation, kind)
		})
	}
	t.Run("nil context", func(t *testing.T) {
		d, err := NewDescriptorWithContext(nil, "GET", "https://example.com", nil) //nolint:staticcheck
		assert.Nil(t, d)
		kind, ok := fault.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, fault.Validation, kind)
	})
}

func TestDescriptor_Validate(t *testing.T) {
	d, err := NewDescriptor("GET", "https://example.com", nil)
	require.NoError(t, err)
	assert.NoError(t, d.Validate())

	bad := *d
	bad.Method = "SNEAKY"
	assertValidationFault(t, bad.Validate())

	bad = *d
	bad.URL = &urlpkg.URL{Path: "/relative"}
	assertValidationFault(t, bad.Validate())

	bad = *d
	bad.URL = nil
	assertValidationFault(t, bad.Validate())

	bad = *d
	bad.Timeout = -time.Second
	assertValidationFault(t, bad.Validate())
}

func assertValidationFault(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	kind, ok := fault.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, fault.Validation, kind)
}

func TestDescriptor_Context(t *testing.T) {
	d := &Descriptor{}
	assert.Same(t, context.Background(), d.Context())
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	d2 := d.WithContext(ctx)
	assert.NotSame(t, d, d2)
	assert.Same(t, ctx, d2.Context())
	assert.Same(t, context.Background(), d.Context())
	assert.Panics(t, func() { d.WithContext(nil) }) //nolint:staticcheck
}

func TestDescriptor_ToRequest(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		d, err := NewDescriptor("POST", "https://example.com/x", "payload")
		require.NoError(t, err)
		r := d.ToRequest(context.Background())
		assert.Equal(t, "POST", r.Method)
		assert.Same(t, d.URL, r.URL)
		assert.Equal(t, d.Header, r.Header)
		assert.Equal(t, int64(len("payload")), r.ContentLength)
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), b)
		b2, err := r.GetBody()
		require.NoError(t, err)
		b, err = io.ReadAll(b2)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), b)
	})
	t.Run("no body", func(t *testing.T) {
		d, err := NewDescriptor("GET", "https://example.com", nil)
		require.NoError(t, err)
		r := d.ToRequest(context.Background())
		assert.Nil(t, r.Body)
		assert.Nil(t, r.GetBody)
	})
	t.Run("query merged", func(t *testing.T) {
		d, err := NewDescriptor("GET", "https://example.com/s?q=1", nil)
		require.NoError(t, err)
		d.Query = urlpkg.Values{"page": {"2"}, "sort": {"asc", "name"}}
		r := d.ToRequest(context.Background())
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("q"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, []string{"asc", "name"}, q["sort"])
		// The descriptor's own URL is untouched.
		assert.Equal(t, "q=1", d.URL.RawQuery)
	})
	t.Run("empty method means GET", func(t *testing.T) {
		d := &Descriptor{URL: mustParse(t, "https://example.com"), Header: http.Header{}}
		r := d.ToRequest(context.Background())
		assert.Equal(t, "GET", r.Method)
	})
}

func mustParse(t *testing.T, s string) *urlpkg.URL {
	t.Helper()
	u, err := urlpkg.Parse(s)
	require.NoError(t, err)
	return u
}

func TestDescriptor_AddCookie(t *testing.T) {
	d, err := NewDescriptor("GET", "https://example.com", nil)
	require.NoError(t, err)
	d.AddCookie(&http.Cookie{Name: "a", Value: "1"})
	assert.Equal(t, "a=1", d.Header.Get("Cookie"))
	d.AddCookie(&http.Cookie{Name: "b", Value: "2"})
	assert.Equal(t, "a=1; b=2", d.Header.Get("Cookie"))
}

func TestDescriptor_SetBasicAuth(t *testing.T) {
	d, err := NewDescriptor("GET", "https://example.com", nil)
	require.NoError(t, err)
	d.SetBasicAuth("user", "pass")
	assert.Equal(t, "Basic dXNlcjpwYXNz", d.Header.Get("Authorization"))
}
