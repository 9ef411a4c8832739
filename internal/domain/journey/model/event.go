// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package model

import (
	"github.com/tsido/idobridge/internal/value"
)

// EventKind tags a ResponseEvent.
type EventKind uint8

const (
	EventSuccess EventKind = iota + 1
	EventFailure
)

func (k EventKind) String() string {
	switch k {
	case EventSuccess:
		return "success"
	case EventFailure:
		return "failure"
	default:
		return "invalid"
	}
}

// ResponseEvent is one asynchronous journey outcome. Exactly one of Response
// and Err is meaningful, selected by Kind.
type ResponseEvent struct {
	Kind     EventKind
	Response ServiceResponse
	Err      SdkError

	// Diagnostics, filled in by the facade and the channel.
	JourneyID     string
	CorrelationID string
	Seq           uint64
	Stale         bool
}

// SuccessEvent wraps a response.
func SuccessEvent(resp ServiceResponse) ResponseEvent {
	return ResponseEvent{Kind: EventSuccess, Response: resp}
}

// FailureEvent wraps an error.
func FailureEvent(err SdkError) ResponseEvent {
	return ResponseEvent{Kind: EventFailure, Err: err}
}

func (e ResponseEvent) IsSuccess() bool { return e.Kind == EventSuccess }

// Payload renders the event envelope {success, additionalData}.
func (e ResponseEvent) Payload() value.Value {
	var data value.Value
	if e.IsSuccess() {
		data = e.Response.Payload()
	} else {
		data = e.Err.Payload()
	}
	return value.Object(value.NewMap().
		Set("success", value.Bool(e.IsSuccess())).
		Set("additionalData", data))
}
