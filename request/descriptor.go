// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	urlpkg "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gogama/reqx/fault"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

const (
	nilCtxMsg = "reqx/request: nil context"

	// Version is the library version advertised in the default
	// User-Agent header.
	Version = "0.1.0"

	// DefaultTimeout is the per-call timeout applied when a
	// Descriptor does not set one and the session carries no default.
	DefaultTimeout = 30 * time.Second
)

var validMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
	"HEAD":   true,
}

// A Descriptor is the validated, immutable specification of one
// logical HTTP call.
//
// The field structure mirrors the lower-level http.Request with
// server-only fields removed and the body simplified to a pre-buffered
// byte slice: a Descriptor describes exactly one transaction-oriented
// request/response exchange, never a stream.
//
// A Descriptor is validated when constructed by NewDescriptor and must
// be treated as immutable thereafter: it may be shared freely between
// goroutines and concurrent executions without synchronization. Like
// the http.Request structure, a Descriptor has a context which can be
// used to cancel its in-flight execution at any time.
type Descriptor struct {
	// Method specifies the HTTP method. It is one of GET, POST, PUT,
	// PATCH, DELETE, or HEAD. An empty string means GET.
	Method string

	// URL specifies the absolute URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent. Keys are
	// case-insensitive per HTTP semantics and duplicates merge into
	// one field. NewDescriptor seeds Accept, Content-Type and
	// User-Agent defaults which may be overwritten before first use.
	Header http.Header

	// Query contains query parameters merged into the URL's query
	// string when the request is built. May be nil.
	Query urlpkg.Values

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent, for example
	// on a GET or DELETE request.
	Body []byte

	// Timeout bounds the total round-trip time of the call: connection
	// checkout, connect, write, and read. Zero means use the session's
	// default timeout. Negative values fail validation.
	Timeout time.Duration

	// Host optionally overrides the Host header to send. If empty, the
	// value of URL.Host will be sent.
	Host string

	// ctx allows the in-flight execution to be cancelled. It should
	// only be modified by copying the whole Descriptor using
	// WithContext.
	ctx context.Context
}

// NewDescriptor wraps NewDescriptorWithContext using the background
// context.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering.
func NewDescriptor(method, url string, body interface{}) (*Descriptor, error) {
	return NewDescriptorWithContext(context.Background(), method, url, body)
}

// NewDescriptorWithContext returns a new validated Descriptor given a
// method, absolute URL, and optional body.
//
// The method must be one of GET, POST, PUT, PATCH, DELETE, or HEAD
// (empty means GET) and the URL must be absolute; anything else fails
// with a validation fault before any network I/O can occur.
//
// The new descriptor carries default Accept, Content-Type and
// User-Agent headers, which the caller may overwrite.
//
// Parameter body follows the same contract as in NewDescriptor.
func NewDescriptorWithContext(ctx context.Context, method, url string, body interface{}) (*Descriptor, error) {
	if ctx == nil {
		return nil, fault.New(fault.Validation, nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if !validMethods[method] {
		return nil, fault.New(fault.Validation, "invalid method "+strconv.Quote(method))
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, fault.Wrap(fault.Validation, "malformed URL", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fault.New(fault.Validation, "URL not absolute: "+strconv.Quote(url))
	}
	u.Host = removeEmptyPort(u.Host)
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Descriptor{
		ctx:    ctx,
		Method: method,
		URL:    u,
		Header: defaultHeader(),
		Body:   b,
		Host:   u.Host,
	}, nil
}

func defaultHeader() http.Header {
	return http.Header{
		"Accept":       []string{"application/json"},
		"Content-Type": []string{"application/json"},
		"User-Agent":   []string{"reqx-client/" + Version},
	}
}

// Validate re-checks the descriptor invariants NewDescriptorWithContext
// establishes: a whitelisted method, an absolute URL, and a
// non-negative timeout. The request handler calls it defensively
// before touching the network, so a descriptor constructed by hand
// with bad fields fails with a validation fault rather than producing
// a confusing transport error.
func (d *Descriptor) Validate() error {
	if d.Method != "" && !validMethods[d.Method] {
		return fault.New(fault.Validation, "invalid method "+strconv.Quote(d.Method))
	}
	if d.URL == nil || !d.URL.IsAbs() || d.URL.Host == "" {
		return fault.New(fault.Validation, "URL not absolute")
	}
	if d.Timeout < 0 {
		return fault.New(fault.Validation, "negative timeout")
	}
	return nil
}

// Context returns the descriptor's context. The context controls
// cancellation of the call. To change the context, use WithContext.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (d *Descriptor) Context() context.Context {
	if d.ctx != nil {
		return d.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of d with its context changed to
// ctx, which must be non-nil.
//
// The context controls the entire lifetime of the call: obtaining a
// connection, sending the request, and reading the response headers
// and body.
func (d *Descriptor) WithContext(ctx context.Context) *Descriptor {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	d2 := new(Descriptor)
	*d2 = *d
	d2.ctx = ctx
	return d2
}

// AddCookie adds a cookie to the request. Per RFC 6265 section 5.4,
// AddCookie does not attach more than one Cookie header field. That
// means all cookies, if any, are written into the same line,
// separated by semicolons.
//
// AddCookie only sanitizes c's name and value, and does not sanitize
// a Cookie header already present in the request.
func (d *Descriptor) AddCookie(c *http.Cookie) {
	c2 := &http.Cookie{Name: c.Name, Value: c.Value}
	s := c2.String()
	if h := d.Header.Get("Cookie"); h != "" {
		d.Header.Set("Cookie", h+"; "+s)
	} else {
		d.Header.Set("Cookie", s)
	}
}

// SetBasicAuth sets the descriptor's Authorization header to use HTTP
// Basic Authentication with the provided username and password.
//
// With HTTP Basic Authentication the provided username and password
// are not encrypted.
func (d *Descriptor) SetBasicAuth(username, password string) {
	d.Header.Set("Authorization", "Basic "+basicAuth(username, password))
}

// ToRequest creates the lower-level HTTP request corresponding to the
// descriptor. The context of the new request is set to ctx, which may
// not be nil. Query parameters, if any, are merged into the URL's
// existing query string.
func (d *Descriptor) ToRequest(ctx context.Context) *http.Request {
	r := template.WithContext(ctx)
	r.Method = d.Method
	if r.Method == "" {
		r.Method = "GET"
	}
	r.URL = d.mergedURL()
	r.Header = d.Header
	if len(d.Body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(d.Body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(d.Body)), nil
		}
		r.ContentLength = int64(len(d.Body))
	}
	r.Host = d.Host
	return r
}

func (d *Descriptor) mergedURL() *urlpkg.URL {
	if len(d.Query) == 0 {
		return d.URL
	}
	u := *d.URL
	q := u.Query()
	for k, vs := range d.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return &u
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
