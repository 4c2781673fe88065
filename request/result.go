// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"strconv"
	"strings"
)

// A Result is the structured outcome of a successful call: a response
// whose status code was in the 2xx or 3xx range, with its body fully
// buffered. Error statuses never produce a Result; they surface as
// faults carrying the same status, reason and body.
//
// A Result is immutable after construction and safe to share between
// goroutines.
type Result struct {
	// Status is the HTTP status code.
	Status int
	// Reason is the reason phrase from the response status line, for
	// example "OK" or "Created".
	Reason string
	// Header contains the response header fields.
	Header http.Header
	// Body is the complete buffered response body. It is never nil on
	// a Result, but may have zero length.
	Body []byte
}

// ReasonPhrase extracts the reason phrase from a response status line.
// It falls back to the standard phrase for the status code when the
// server sent none.
func ReasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
