// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idobridge_events_published_total",
		Help: "Total number of journey response events published, by kind",
	}, []string{"kind"})

	EventsDeliveredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idobridge_events_delivered_total",
		Help: "Total number of journey response events handed to a listener, by kind",
	}, []string{"kind"})

	EventsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idobridge_events_dropped_total",
		Help: "Total number of journey response events dropped, by kind and reason",
	}, []string{"kind", "reason"}) // reason=no_listener|queue_closed

	ListenerPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "idobridge_listener_panics_total",
		Help: "Total number of recovered listener panics",
	})

	dispatchQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "idobridge_dispatch_queue_depth",
		Help: "Number of deliveries waiting on the serial dispatch queue",
	})
)

func normalize(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}

// RecordEventPublished counts an event entering the channel.
func RecordEventPublished(kind string) {
	EventsPublishedTotal.WithLabelValues(normalize(kind)).Inc()
}

// RecordEventDelivered counts an event reaching a listener.
func RecordEventDelivered(kind string) {
	EventsDeliveredTotal.WithLabelValues(normalize(kind)).Inc()
}

// RecordEventDropped counts an event that never reached a listener.
func RecordEventDropped(kind, reason string) {
	EventsDroppedTotal.WithLabelValues(normalize(kind), normalize(reason)).Inc()
}

// IncListenerPanic counts a recovered listener panic.
func IncListenerPanic() {
	ListenerPanicsTotal.Inc()
}

// SetDispatchQueueDepth publishes the current serial queue length.
func SetDispatchQueueDepth(n int) {
	dispatchQueueDepth.Set(float64(n))
}
