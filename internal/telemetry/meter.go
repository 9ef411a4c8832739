// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names. Stable; dashboards depend on them.
const (
	JourneyOutcomesName = "ido.journey.outcomes"
	JourneyDurationName = "ido.journey.duration"
	JourneyStepsName    = "ido.journey.steps"
)

// JourneyInstruments records per-journey outcomes on an OpenTelemetry meter.
// The zero value is not usable; build one with NewJourneyInstruments.
type JourneyInstruments struct {
	outcomes metric.Int64Counter
	duration metric.Float64Histogram
	steps    metric.Int64Histogram
}

// NewJourneyInstruments registers the journey instruments on mp. A nil mp
// uses the global provider, which is a noop until one is installed.
func NewJourneyInstruments(mp metric.MeterProvider) (*JourneyInstruments, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter("github.com/tsido/idobridge/journey")

	outcomes, err := meter.Int64Counter(JourneyOutcomesName,
		metric.WithDescription("Journeys that reached a terminal state"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(JourneyDurationName,
		metric.WithDescription("Time from journey start to terminal state"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	steps, err := meter.Int64Histogram(JourneyStepsName,
		metric.WithDescription("Steps presented before the journey ended"))
	if err != nil {
		return nil, err
	}
	return &JourneyInstruments{outcomes: outcomes, duration: duration, steps: steps}, nil
}

// RecordTerminal records one finished journey.
func (j *JourneyInstruments) RecordTerminal(ctx context.Context, state string, elapsed time.Duration, steps int) {
	if j == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(StateKey, state))
	j.outcomes.Add(ctx, 1, attrs)
	j.duration.Record(ctx, elapsed.Seconds(), attrs)
	j.steps.Record(ctx, int64(steps), attrs)
}
