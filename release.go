// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

// A releaseStack is an explicit ordered list of per-call release
// actions. Actions are pushed in acquisition order and run in reverse
// on every exit path leaving the call scope: normal return, error
// return, or cancellation. Correctness never depends on garbage
// collection finalizers.
//
// A releaseStack is used by one call on one goroutine and needs no
// synchronization. Only per-call resources (the timeout context, the
// response body stream) are pushed onto it; the shared session handle
// is never released through it.
type releaseStack struct {
	actions []func()
}

// push records a release action. Actions pushed later run earlier.
func (s *releaseStack) push(f func()) {
	s.actions = append(s.actions, f)
}

// release runs all recorded actions in reverse acquisition order.
// Calling release more than once is harmless: each action runs at most
// once.
func (s *releaseStack) release() {
	for i := len(s.actions) - 1; i >= 0; i-- {
		f := s.actions[i]
		s.actions[i] = nil
		if f != nil {
			f()
		}
	}
	s.actions = s.actions[:0]
}
