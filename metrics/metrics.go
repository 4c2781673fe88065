// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports Prometheus instrumentation for reqx calls.
// Install the handler it provides into a request Handler's event
// chains; the library core itself stays metrics-free.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gogama/reqx"
	"github.com/gogama/reqx/fault"
	"github.com/gogama/reqx/request"
)

// A Handler observes call events and maintains Prometheus metrics. It
// implements reqx.EventHandler and must be installed on the
// BeforeExecute, AfterTimeout and AfterExecute chains; Install does
// this.
//
// A Handler is safe for concurrent use by multiple goroutines.
type Handler struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
	timeouts prometheus.Counter
}

// NewHandler creates a metrics handler and registers its collectors
// with reg. Pass prometheus.DefaultRegisterer to use the default
// registry.
func NewHandler(reg prometheus.Registerer) *Handler {
	factory := promauto.With(reg)
	return &Handler{
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reqx",
				Name:      "calls_total",
				Help:      "Total number of calls by method, status code and outcome",
			},
			[]string{"method", "status", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "reqx",
				Name:      "call_duration_seconds",
				Help:      "Call round-trip latency histogram",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
			},
			[]string{"method", "outcome"},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "reqx",
				Name:      "calls_in_flight",
				Help:      "Current number of calls being executed",
			},
		),
		timeouts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "reqx",
				Name:      "timeouts_total",
				Help:      "Total number of calls ended by timeout or cancellation",
			},
		),
	}
}

// Install registers the handler on the event chains it needs and
// returns the group for further use.
func Install(g *reqx.HandlerGroup, h *Handler) *reqx.HandlerGroup {
	g.PushBack(reqx.BeforeExecute, h)
	g.PushBack(reqx.AfterTimeout, h)
	g.PushBack(reqx.AfterExecute, h)
	return g
}

// Handle implements reqx.EventHandler.
func (h *Handler) Handle(evt reqx.Event, e *request.Execution) {
	switch evt {
	case reqx.BeforeExecute:
		h.inFlight.Inc()
	case reqx.AfterTimeout:
		h.timeouts.Inc()
	case reqx.AfterExecute:
		h.inFlight.Dec()
		method := "GET"
		if e.Descriptor != nil && e.Descriptor.Method != "" {
			method = e.Descriptor.Method
		}
		outcome := outcomeLabel(e)
		h.calls.WithLabelValues(method, strconv.Itoa(e.StatusCode()), outcome).Inc()
		h.duration.WithLabelValues(method, outcome).Observe(e.Duration().Seconds())
	}
}

func outcomeLabel(e *request.Execution) string {
	if e.Err == nil {
		return "success"
	}
	if kind, ok := fault.KindOf(e.Err); ok {
		return kind.String()
	}
	return "error"
}
