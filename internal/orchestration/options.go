// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package orchestration

import (
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tsido/idobridge/internal/dispatch"
)

// Option configures a Facade.
type Option func(*Facade)

// WithQueue delivers events on q instead of a facade-owned serial queue.
// The caller keeps ownership of q.
func WithQueue(q dispatch.Queue) Option {
	return func(f *Facade) { f.queue = q }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Facade) { f.now = now }
}

// WithCorrelationIDs overrides journey correlation id generation.
func WithCorrelationIDs(next func() string) Option {
	return func(f *Facade) { f.newID = next }
}

// WithTracerProvider sets the provider used for facade spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(f *Facade) { f.tracer = tp.Tracer(tracerName) }
}

// WithMeterProvider sets the provider for journey outcome instruments.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(f *Facade) { f.meterProvider = mp }
}

func defaultCorrelationID() string {
	return uuid.NewString()
}
