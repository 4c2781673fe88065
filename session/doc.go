// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package session manages the shared, lifecycle-managed HTTP session that
callers reuse across many requests instead of paying per-request
connection setup cost.

A Factory owns at most one live Handle at a time. The first Session
call lazily constructs the handle and its underlying connection pool;
concurrent first calls observe exactly one pool created and all receive
the same handle. Close tears the pool down and resets the factory so a
later Session call builds a fresh handle.

	f := session.NewFactory()
	h, err := f.Session(session.Config{})
	...
	defer f.Close()

Most programs use the process-wide Default factory through the
package-level Session and Close functions.

Configuration is loaded either programmatically through Config or from
a YAML file through Load:

	max_conns: 100
	max_per_host: 10
	default_timeout: 30s
	idle_timeout: 90s

Requesting a session with a configuration that conflicts with the live
handle fails with a fault of kind fault.Configuration; the new
configuration is never silently applied or silently ignored. A
zero-value Config always means "the session as currently configured".
*/
package session
