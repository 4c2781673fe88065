// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package reqx provides an HTTP request client for service-to-service
communication, built around a shared, lifecycle-managed connection pool
and a request handler with a typed error taxonomy and guaranteed
per-call resource cleanup.

Create a Handler to begin making requests.

	handler := &reqx.Handler{}
	r, err := handler.Get("https://www.example.com")
	...
	r, err := handler.Post("https://www.example.com/upload",
		"application/json", &buf)
	...
	r, err := handler.PostForm("http://example.com/form",
		url.Values{"key": {"Value"}, "id": {"123"}})

Every call borrows the shared session from a session.Factory, so many
requests reuse pooled TCP connections instead of paying per-request
connection setup cost. The zero value Handler uses the process-wide
session.Default factory; name a factory explicitly to scope the
session, and close the factory to tear the pool down:

	factory := session.NewFactory()
	defer factory.Close()
	handler := &reqx.Handler{
		Factory: factory,
		Config: session.Config{
			MaxConns:       50,
			MaxPerHost:     5,
			DefaultTimeout: 10 * time.Second,
			IdleTimeout:    time.Minute,
		},
	}

For full control over one call — method, headers, body, query
parameters, per-call timeout, cancellation context — build a
request.Descriptor and use Execute:

	d, err := request.NewDescriptorWithContext(ctx, "PUT",
		"https://api.example.com/users/1", payload)
	...
	d.Timeout = 5 * time.Second
	r, err := handler.Execute(d)

Execute makes exactly one request attempt and always returns either a
*request.Result (2xx/3xx, body fully buffered) or a *fault.Error whose
Kind distinguishes validation failures, 4xx client errors, 5xx server
errors, transport failures, timeouts and session configuration
problems:

	r, err := handler.Execute(d)
	if err != nil {
		switch kind, _ := fault.KindOf(err); kind {
		case fault.Client:
			... // caller-actionable, carries status, reason, body
		case fault.Timeout:
			... // deadline elapsed or call cancelled
		}
	}

To hook into the fine-grained details of the call lifecycle, install a
handler into the appropriate event chain:

	log := log.New(os.Stdout, "", log.LstdFlags)
	handlers := &reqx.HandlerGroup{}
	handlers.PushBack(reqx.BeforeSend, reqx.EventHandlerFunc(
		func(_ reqx.Event, e *request.Execution) {
			log.Printf("sending %s %s", e.Request.Method, e.Request.URL)
		}))
	handler := &reqx.Handler{
		Handlers: handlers,
	}

The metrics subpackage provides a ready-made event handler exporting
Prometheus counters and latency histograms.

Retry, backoff and circuit breaking are deliberately out of scope:
reqx issues a single HTTP/1.1-style request/response exchange per call
and reports the typed outcome, leaving retry policy to the caller.
*/
package reqx
