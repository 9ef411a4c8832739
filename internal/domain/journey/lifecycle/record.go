// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package lifecycle

import (
	"time"

	"github.com/tsido/idobridge/internal/domain/journey/model"
)

// Record is the facade's view of the current journey.
type Record struct {
	State         State
	JourneyID     string
	CorrelationID string
	FlowID        string
	LastStep      *model.JourneyStep
	StepCount     int
	StartedAt     time.Time
	UpdatedAt     time.Time
}

// NewRecord returns the record of a journey that has just been started.
func NewRecord(journeyID, correlationID, flowID string, now time.Time) Record {
	return Record{
		State:         StateActive,
		JourneyID:     journeyID,
		CorrelationID: correlationID,
		FlowID:        flowID,
		StartedAt:     now,
		UpdatedAt:     now,
	}
}

// Observe folds an engine outcome into the record. Every success response
// counts as a step; LastStep only moves when the response names one.
func (r *Record) Observe(ev model.ResponseEvent, to State, now time.Time) {
	r.State = to
	r.UpdatedAt = now
	if !ev.IsSuccess() {
		return
	}
	r.StepCount++
	if ev.Response.JourneyStepID != nil {
		step := *ev.Response.JourneyStepID
		r.LastStep = &step
	}
}
