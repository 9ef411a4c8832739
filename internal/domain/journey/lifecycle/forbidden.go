// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package lifecycle

const (
	ForbiddenRequiresStart     = "requires_start"
	ForbiddenTerminalAbsorbing = "terminal_absorbing"
	ForbiddenAwaitingEngine    = "awaiting_engine"
	ForbiddenOutOfOrder        = "out_of_order"
)

// Decision explains whether an event may fire in a state.
type Decision struct {
	Allowed bool
	Reason  string
}

// Decide returns the decision for (from, ev). Forbidden decisions carry one of
// the Forbidden* reasons.
func Decide(from State, ev EventKind) Decision {
	if _, ok := Lookup(from, ev); ok {
		return Decision{Allowed: true}
	}
	switch {
	case from == StateNotStarted:
		return Decision{Reason: ForbiddenRequiresStart}
	case from.IsTerminal():
		return Decision{Reason: ForbiddenTerminalAbsorbing}
	case from == StateActive && ev == EvSubmit:
		return Decision{Reason: ForbiddenAwaitingEngine}
	default:
		return Decision{Reason: ForbiddenOutOfOrder}
	}
}
