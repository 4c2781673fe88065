// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Descriptor (describes one HTTP
call), Result (the structured outcome of a successful call) and
Execution (the in-flight state of a call). These types are fundamental
to executing requests over a shared pooled session.

The first core type is Descriptor, which represents the validated,
immutable specification of a single HTTP call.

For those familiar with the Go standard HTTP library, net/http, a
Descriptor looks like a stripped-down http.Request structure with all
server-side fields removed, and the body fields replaced with a simple
[]byte, because Descriptor requires a pre-buffered request body.
Descriptor fields are named and typed consistently with http.Request
wherever possible.

Create a descriptor to make a request:

	d, err := request.NewDescriptor("GET", "https://example.com", nil)
	...
	r, err := handler.Execute(d)
	...

A descriptor may be assigned a context to allow the in-flight call to
be cancelled:

	d, err := request.NewDescriptorWithContext(ctx, "POST", "https://example.com/upload", body)
	...

The descriptor's Timeout field bounds the total round-trip time of the
call. A cancelled context and an expired timeout are both surfaced as
Timeout faults, releasing per-call resources identically.

NewDescriptor validates the method and URL at construction time, so a
malformed call fails before any network I/O. Validation failures are
*fault.Error values of kind fault.Validation, distinguishable from
network failures.

The other core types are Execution, the input type for event handlers
observing a call in flight, and Result, the output type of a
successful call. You will typically not allocate Execution instances
yourself, but will instead work with the ones handed out by the
request handler's execution logic.
*/
package request
