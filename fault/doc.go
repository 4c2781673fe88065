// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package fault defines the typed error taxonomy produced by request
// execution. Every failure surfaced by the reqx request handler is a
// *fault.Error tagged with a Kind, so callers can branch on the failure
// class (validation, client status, server status, connection, timeout,
// configuration) instead of string-matching transport errors.
//
// Package fault is extremely lightweight, as it depends only on the
// standard library packages "context", "errors", "fmt" and "syscall",
// so it doesn't bring any significant dependencies when imported as a
// standalone package. The status mapping functions perform no I/O and
// are safe to unit test in isolation.
package fault
