// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package lifecycle

import "github.com/tsido/idobridge/internal/domain/journey/model"

// EventKind drives the state machine.
type EventKind string

const (
	EvStart             EventKind = "start"
	EvSubmit            EventKind = "submit"
	EvStepAwaitingInput EventKind = "step.awaiting_input"
	EvStepSuccess       EventKind = "step.success"
	EvStepRejection     EventKind = "step.rejection"

	// A failure after the journey produced a step leaves the last step open for
	// another client response. Before any step there is nothing to retry.
	EvFailureAfterStep  EventKind = "failure.after_step"
	EvFailureBeforeStep EventKind = "failure.before_step"
)

// AllEvents lists every event kind.
var AllEvents = []EventKind{
	EvStart,
	EvSubmit,
	EvStepAwaitingInput,
	EvStepSuccess,
	EvStepRejection,
	EvFailureAfterStep,
	EvFailureBeforeStep,
}

// EventForResponse derives the event for an engine outcome. stepsSeen is the
// number of steps the current journey has produced so far.
func EventForResponse(ev model.ResponseEvent, stepsSeen int) EventKind {
	if !ev.IsSuccess() {
		if stepsSeen > 0 {
			return EvFailureAfterStep
		}
		return EvFailureBeforeStep
	}
	step := ev.Response.JourneyStepID
	if step != nil {
		switch step.Kind {
		case model.StepSuccess:
			return EvStepSuccess
		case model.StepRejection:
			return EvStepRejection
		}
	}
	return EvStepAwaitingInput
}
