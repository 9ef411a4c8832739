// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package ports defines the contract between the orchestration facade and a
// native journey engine. Types here carry native (pre-normalisation) shapes.
package ports

import (
	"context"
	"errors"
)

// ErrEngineConfig is returned by Engine.Initialize when the engine cannot be
// configured (missing or invalid configuration).
var ErrEngineConfig = errors.New("engine configuration invalid")

// Engine drives an identity journey. StartJourney and SubmitClientResponse
// return immediately; the outcome arrives later through done, on any goroutine.
// Implementations must invoke done exactly once per call.
type Engine interface {
	Initialize(ctx context.Context) error
	StartJourney(journeyID string, opts *NativeStartOptions, done Callback)
	SubmitClientResponse(option NativeOptionID, data map[string]any, done Callback)
}

// Callback receives the outcome of an engine call.
type Callback func(NativeResult)

// NativeResult is a two-case result: exactly one of Response and Err is set.
type NativeResult struct {
	Response *NativeResponse
	Err      *NativeError
}

// OK builds a success result.
func OK(resp NativeResponse) NativeResult { return NativeResult{Response: &resp} }

// Fail builds an error result.
func Fail(err NativeError) NativeResult { return NativeResult{Err: &err} }

// NativeStartOptions are handed to the engine when a journey starts.
type NativeStartOptions struct {
	AdditionalParams map[string]any
	FlowID           string
}

// NativeResponse is a success payload as produced by the engine.
type NativeResponse struct {
	Data                  any
	ErrorData             *NativeError
	JourneyStepID         *string
	ClientResponseOptions map[string]NativeOption
	Token                 *string
}

// NativeOption is a response branch as produced by the engine.
type NativeOption struct {
	Type  NativeOptionType
	ID    string
	Label string
}
