// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"github.com/gogama/reqx/request"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in a request Handler.
type HandlerGroup struct {
	handlers [][]EventHandler
}

// PushBack adds an event handler to the back of the event handler
// chain for a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h EventHandler) {
	if h == nil {
		panic("reqx: nil event handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]EventHandler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, e)
	}
}

func run(chain []EventHandler, evt Event, e *request.Execution) {
	for _, h := range chain {
		h.Handle(evt, e)
	}
}

// An EventHandler handles the occurrence of an event during a call.
type EventHandler interface {
	Handle(Event, *request.Execution)
}

// The EventHandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, EventHandlerFunc(f) is an EventHandler that calls f.
type EventHandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f EventHandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
