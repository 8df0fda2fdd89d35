// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus instrumentation for the stream server
// on a package-private registry, so the default registry stays untouched.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stream outcome labels.
const (
	OutcomeCompleted    = "completed"
	OutcomeError        = "error"
	OutcomeDisconnected = "disconnected"
)

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	eventsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "taskstream_events_total", Help: "Number of stream events forwarded, by event kind"}, []string{"kind"})
	streamsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "taskstream_streams_total", Help: "Number of finished streams, by outcome"}, []string{"outcome"})
	activeStreams = factory.NewGauge(prometheus.GaugeOpts{
		Name: "taskstream_active_streams", Help: "Number of streams currently open"})
)

// EventForwarded counts one event forwarded to a client.
func EventForwarded(kind string) {
	eventsTotal.WithLabelValues(kind).Inc()
}

// StreamStarted marks a stream as open.
func StreamStarted() {
	activeStreams.Inc()
}

// StreamFinished marks a stream as closed with the given outcome.
func StreamFinished(outcome string) {
	activeStreams.Dec()
	streamsTotal.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler serving the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
