// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package lifecycle

import (
	"context"

	"github.com/tsido/idobridge/internal/fsm"
)

// Machine is the journey state machine.
type Machine = fsm.Machine[State, EventKind]

type edge struct {
	From  State
	Event EventKind
	To    State
}

// transitions is the complete set of allowed edges. Starting a journey is
// allowed from every state and supersedes whatever ran before.
var transitions = []edge{
	{StateNotStarted, EvStart, StateActive},
	{StateActive, EvStart, StateActive},
	{StateAwaitingClientResponse, EvStart, StateActive},
	{StateSucceeded, EvStart, StateActive},
	{StateRejected, EvStart, StateActive},

	{StateActive, EvStepAwaitingInput, StateAwaitingClientResponse},
	{StateActive, EvStepSuccess, StateSucceeded},
	{StateActive, EvStepRejection, StateRejected},
	{StateActive, EvFailureAfterStep, StateAwaitingClientResponse},
	{StateActive, EvFailureBeforeStep, StateNotStarted},

	{StateAwaitingClientResponse, EvSubmit, StateActive},
	{StateAwaitingClientResponse, EvStepAwaitingInput, StateAwaitingClientResponse},
	{StateAwaitingClientResponse, EvStepSuccess, StateSucceeded},
	{StateAwaitingClientResponse, EvStepRejection, StateRejected},
	{StateAwaitingClientResponse, EvFailureAfterStep, StateAwaitingClientResponse},
}

// Lookup returns the target of (from, ev).
func Lookup(from State, ev EventKind) (State, bool) {
	for _, e := range transitions {
		if e.From == from && e.Event == ev {
			return e.To, true
		}
	}
	return "", false
}

// NewMachine builds a machine in StateNotStarted. onEnter, when non-nil, is
// called with the target state of every transition before it is applied.
func NewMachine(onEnter func(to State)) (*Machine, error) {
	var action func(context.Context, State, State, EventKind) error
	if onEnter != nil {
		action = func(_ context.Context, _, to State, _ EventKind) error {
			onEnter(to)
			return nil
		}
	}
	ts := make([]fsm.Transition[State, EventKind], 0, len(transitions))
	for _, e := range transitions {
		ts = append(ts, fsm.Transition[State, EventKind]{From: e.From, Event: e.Event, To: e.To, Action: action})
	}
	return fsm.New(StateNotStarted, ts)
}
