// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"net/url"

	"github.com/gogama/reqx/request"
)

// Executor is the interface that wraps the basic Execute method.
//
// Execute performs one logical HTTP call described by a Descriptor and
// returns the structured result, or a typed fault. Handler implements
// the Executor interface, and any other Executor implementation must
// behave substantially the same as Handler.Execute.
type Executor interface {
	Execute(d *request.Descriptor) (*request.Result, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Get creates a descriptor to issue a GET to the specified URL,
// executes it, and returns the result (and error, if any). Handler
// implements the Getter interface.
//
// Any Executor can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(url string) (*request.Result, error)
}

// Header is the interface that wraps the basic Head method.
//
// Head creates a descriptor to issue a HEAD to the specified URL,
// executes it, and returns the result (and error, if any). Handler
// implements the Header interface.
//
// Any Executor can be used to emulate a Header via the Head function.
type Header interface {
	Head(url string) (*request.Result, error)
}

// Poster is the interface that wraps the basic Post method.
//
// Post creates a descriptor to issue a POST to the specified URL,
// executes it, and returns the result (and error, if any). Handler
// implements the Poster interface.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by request.NewDescriptor and request.BodyBytes,
// namely: string; []byte; io.Reader; and io.ReadCloser.
//
// Any Executor can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(url, contentType string, body interface{}) (*request.Result, error)
}

// FormPoster is the interface that wraps the basic PostForm method.
//
// PostForm creates a descriptor to issue a form POST to the specified
// URL, executes it, and returns the result (and error, if any).
// Handler implements the FormPoster interface.
//
// The descriptor body is set to the URL-encoded keys and values from
// data, and the content type is set to application/x-www-form-urlencoded.
//
// Any Executor can be used to emulate a FormPoster via the PostForm
// function.
type FormPoster interface {
	PostForm(url string, data url.Values) (*request.Result, error)
}

// Get uses the specified Executor to issue a GET to the specified URL.
//
// To make a descriptor with custom headers, use request.NewDescriptor
// and x.Execute.
func Get(x Executor, url string) (*request.Result, error) {
	d, err := request.NewDescriptor("GET", url, nil)
	if err != nil {
		return nil, err
	}
	return x.Execute(d)
}

// Head uses the specified Executor to issue a HEAD to the specified
// URL.
//
// To make a descriptor with custom headers, use request.NewDescriptor
// and x.Execute.
func Head(x Executor, url string) (*request.Result, error) {
	d, err := request.NewDescriptor("HEAD", url, nil)
	if err != nil {
		return nil, err
	}
	return x.Execute(d)
}

// Post uses the specified Executor to issue a POST to the specified
// URL.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by request.NewDescriptor and request.BodyBytes,
// namely: string; []byte; io.Reader; and io.ReadCloser.
//
// To make a descriptor with custom headers, use request.NewDescriptor
// and x.Execute.
func Post(x Executor, url, contentType string, body interface{}) (*request.Result, error) {
	b, err := request.BodyBytes(body)
	if err != nil {
		return nil, err
	}
	d, err := request.NewDescriptor("POST", url, b)
	if err != nil {
		return nil, err
	}
	d.Header.Set("Content-Type", contentType)
	return x.Execute(d)
}

// PostForm uses the specified Executor to issue a POST to the
// specified URL, with data's keys and values URL-encoded as the
// request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.NewDescriptor and x.Execute.
func PostForm(x Executor, url string, data url.Values) (*request.Result, error) {
	return Post(x, url, "application/x-www-form-urlencoded", data.Encode())
}

// Get issues a GET to the specified URL, using the same policies
// followed by Execute.
//
// To make a descriptor with custom headers, use request.NewDescriptor
// and Handler.Execute.
func (h *Handler) Get(url string) (*request.Result, error) {
	return Get(h, url)
}

// Head issues a HEAD to the specified URL, using the same policies
// followed by Execute.
//
// To make a descriptor with custom headers, use request.NewDescriptor
// and Handler.Execute.
func (h *Handler) Head(url string) (*request.Result, error) {
	return Head(h, url)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Execute.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by request.NewDescriptor and request.BodyBytes,
// namely: string; []byte; io.Reader; and io.ReadCloser.
//
// To make a descriptor with custom headers, use request.NewDescriptor
// and Handler.Execute.
func (h *Handler) Post(url, contentType string, body interface{}) (*request.Result, error) {
	return Post(h, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.NewDescriptor and Handler.Execute.
func (h *Handler) PostForm(url string, data url.Values) (*request.Result, error) {
	return PostForm(h, url, data)
}
