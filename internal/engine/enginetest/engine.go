// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package enginetest provides a recording journey engine for tests. Calls are
// recorded and their callbacks are fired explicitly by the test, from any
// goroutine.
package enginetest

import (
	"context"
	"sync"

	"github.com/tsido/idobridge/internal/domain/journey/ports"
)

// StartCall records one StartJourney invocation.
type StartCall struct {
	JourneyID string
	Options   *ports.NativeStartOptions
	Done      ports.Callback
}

// SubmitCall records one SubmitClientResponse invocation.
type SubmitCall struct {
	Option ports.NativeOptionID
	Data   map[string]any
	Done   ports.Callback
}

// Engine is a ports.Engine that never responds on its own.
type Engine struct {
	// InitErr is returned by Initialize.
	InitErr error
	// InitGate, when set, blocks Initialize until it is closed.
	InitGate chan struct{}

	mu        sync.Mutex
	initCalls int
	starts    []StartCall
	submits   []SubmitCall
	callbacks []ports.Callback
}

func New() *Engine { return &Engine{} }

func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	e.initCalls++
	gate := e.InitGate
	err := e.InitErr
	e.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (e *Engine) StartJourney(journeyID string, opts *ports.NativeStartOptions, done ports.Callback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.starts = append(e.starts, StartCall{JourneyID: journeyID, Options: opts, Done: done})
	e.callbacks = append(e.callbacks, done)
}

func (e *Engine) SubmitClientResponse(option ports.NativeOptionID, data map[string]any, done ports.Callback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submits = append(e.submits, SubmitCall{Option: option, Data: data, Done: done})
	e.callbacks = append(e.callbacks, done)
}

// SetInitErr changes the Initialize result.
func (e *Engine) SetInitErr(err error) {
	e.mu.Lock()
	e.InitErr = err
	e.mu.Unlock()
}

func (e *Engine) InitCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initCalls
}

func (e *Engine) Starts() []StartCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]StartCall(nil), e.starts...)
}

func (e *Engine) Submits() []SubmitCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]SubmitCall(nil), e.submits...)
}

// Calls returns the number of engine calls that took a callback.
func (e *Engine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.callbacks)
}

// Callback returns the callback of the i-th engine call.
func (e *Engine) Callback(i int) ports.Callback {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.callbacks[i]
}

// Respond fires the most recent callback on the calling goroutine.
func (e *Engine) Respond(res ports.NativeResult) {
	e.mu.Lock()
	cb := e.callbacks[len(e.callbacks)-1]
	e.mu.Unlock()
	cb(res)
}

// RespondAsync fires the most recent callback from a new goroutine. The
// returned channel is closed once the callback has returned.
func (e *Engine) RespondAsync(res ports.NativeResult) <-chan struct{} {
	e.mu.Lock()
	cb := e.callbacks[len(e.callbacks)-1]
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		cb(res)
	}()
	return done
}

var _ ports.Engine = (*Engine)(nil)
