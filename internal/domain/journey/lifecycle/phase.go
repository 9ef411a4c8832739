// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package lifecycle holds the journey state machine: states, events, the
// transition table and the rules for deriving events from engine outcomes.
package lifecycle

// State is the journey lifecycle state tracked by the facade.
type State string

const (
	StateNotStarted             State = "NOT_STARTED"
	StateActive                 State = "ACTIVE"
	StateAwaitingClientResponse State = "AWAITING_CLIENT_RESPONSE"
	StateSucceeded              State = "TERMINATED_SUCCESS"
	StateRejected               State = "TERMINATED_REJECTED"
)

// AllStates lists every state in lifecycle order.
var AllStates = []State{
	StateNotStarted,
	StateActive,
	StateAwaitingClientResponse,
	StateSucceeded,
	StateRejected,
}

// IsTerminal reports whether the journey has ended.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateRejected
}

// HasActiveJourney reports whether a journey is in progress.
func (s State) HasActiveJourney() bool {
	return s == StateActive || s == StateAwaitingClientResponse
}

// StateNames returns AllStates as strings, for metrics.
func StateNames() []string {
	out := make([]string, len(AllStates))
	for i, s := range AllStates {
		out[i] = string(s)
	}
	return out
}
