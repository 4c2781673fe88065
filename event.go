// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

// An Event identifies the event type when installing or running a
// Handler function. Install event handlers in a request Handler to
// extend it with custom functionality such as logging or metrics.
type Event int

const (
	// BeforeExecute identifies the event that occurs before a call
	// starts, before the descriptor is validated.
	//
	// When Handler fires BeforeExecute, the execution is non-nil but
	// the only field that has been set is the descriptor.
	BeforeExecute Event = iota
	// BeforeSend identifies the event that occurs after validation
	// and session acquisition, immediately before the HTTP request is
	// sent.
	//
	// When Handler fires BeforeSend, the execution's request field is
	// set to the HTTP request that WILL BE sent after all BeforeSend
	// handlers have finished.
	//
	// BeforeSend handlers may modify the execution's request, or some
	// of its fields, thus changing the HTTP request that will be sent.
	// However, they should clone request fields which have reference
	// types (URL and Header) before changing them to avoid side
	// effects, as these fields initially reference the same-named
	// fields in the descriptor.
	BeforeSend
	// BeforeReadBody identifies the event that occurs after the call
	// has resulted in an HTTP response (as opposed to an error) but
	// before the response body is read and buffered.
	//
	// Note that BeforeReadBody never fires if the call ended in a
	// transport error, but always fires if an HTTP response is
	// received, regardless of status code, and regardless of whether
	// there is a non-empty body in the response.
	BeforeReadBody
	// AfterTimeout identifies the event that occurs when a call fails
	// because its deadline elapsed or it was cancelled.
	//
	// When Handler fires AfterTimeout, the execution's error field is
	// set to the timeout fault and its state is TimedOut.
	AfterTimeout
	// AfterExecute identifies the event that occurs after the call
	// ends, regardless of outcome.
	//
	// When Handler fires AfterExecute, the execution is in its
	// terminal state and the end time is set.
	AfterExecute
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events typed as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecute",
	"BeforeSend",
	"BeforeReadBody",
	"AfterTimeout",
	"AfterExecute",
}

// Events returns a slice containing all events which can occur in a
// call executed by Handler, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecute,
		BeforeSend,
		BeforeReadBody,
		AfterTimeout,
		AfterExecute,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
