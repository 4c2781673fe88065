// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package session

import (
	"fmt"
	"sync"

	"github.com/gogama/reqx/fault"
)

// A Factory owns at most one live Handle and the connection pool
// beneath it. The zero value is a valid, cold factory.
//
// A Factory is safe for concurrent use by multiple goroutines: racing
// first calls to Session construct exactly one underlying pool, and
// all callers receive the same handle.
//
// Tests should construct independent Factory instances rather than
// sharing the process-wide Default, so state never leaks between test
// cases.
type Factory struct {
	mu     sync.Mutex
	handle *Handle

	// construct builds the handle; overridable in package tests to
	// observe construction counts. Nil means newHandle.
	construct func(Config) *Handle
}

// Default is the process-wide factory used by the package-level
// Session and Close functions, and by request handlers that do not
// name a factory of their own.
var Default = NewFactory()

// NewFactory returns a new, cold factory scope.
func NewFactory() *Factory {
	return &Factory{}
}

// Session returns the factory's live handle, lazily constructing it on
// first use.
//
// A zero-value cfg always means "the session as currently configured":
// it returns the live handle, or constructs one with DefaultConfig on
// a cold factory. A non-zero cfg is validated, and then either
// configures the new handle (cold factory) or must equal the live
// handle's configuration. A non-zero cfg that conflicts with the live
// handle fails with a fault of kind fault.Configuration — the
// conflicting configuration is neither applied nor silently ignored.
func (f *Factory) Session(cfg Config) (*Handle, error) {
	if !cfg.zero() {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.handle != nil && !f.handle.Closed() {
		if cfg.zero() || cfg == f.handle.cfg {
			return f.handle, nil
		}
		return nil, configConflict(f.handle.cfg, cfg)
	}

	if cfg.zero() {
		cfg = DefaultConfig()
	}
	f.handle = f.newHandle(cfg)
	return f.handle, nil
}

// Close tears down the live handle and its pooled connections and
// marks the factory uninitialized, so a subsequent Session call
// constructs a fresh handle.
//
// Close is idempotent and is a no-op on a cold factory. It never
// returns a non-nil error; the error return exists so scoped teardown
// can sit at the end of an error-checked defer chain.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.handle == nil {
		return nil
	}
	f.handle.close()
	f.handle = nil
	return nil
}

func configConflict(live, supplied Config) error {
	return fault.New(fault.Configuration, fmt.Sprintf(
		"config conflicts with live session (live %+v, supplied %+v)", live, supplied))
}

func (f *Factory) newHandle(cfg Config) *Handle {
	if f.construct != nil {
		return f.construct(cfg)
	}
	return newHandle(cfg)
}

// Session returns the live handle of the process-wide Default factory,
// following the same rules as Factory.Session.
func Session(cfg Config) (*Handle, error) {
	return Default.Session(cfg)
}

// Close tears down the process-wide Default factory, following the
// same rules as Factory.Close.
func Close() error {
	return Default.Close()
}
