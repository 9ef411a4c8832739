// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package scripted is a deterministic journey engine driven by a YAML script.
// It stands in for the native identity engine in the CLI and in integration
// tests. Callbacks always run on an engine goroutine, never on the caller's.
package scripted

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsido/idobridge/internal/domain/journey/ports"
	"github.com/tsido/idobridge/internal/log"
)

// Engine runs one journey at a time from a Script.
type Engine struct {
	path  string
	delay time.Duration

	mu      sync.Mutex
	script  *Script
	journey *Journey
	current string
	wg      sync.WaitGroup

	debounce  time.Duration
	watchDone chan struct{}

	logger zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDelay delays every callback by d.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) { e.delay = d }
}

// WithScript uses an already parsed script instead of a file.
func WithScript(s *Script) Option {
	return func(e *Engine) { e.script = s }
}

// New returns an engine that loads path on Initialize.
func New(path string, opts ...Option) *Engine {
	e := &Engine{path: path, logger: log.WithComponent("engine.scripted")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize loads and validates the script. Failures wrap
// ports.ErrEngineConfig.
func (e *Engine) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.script != nil {
		if err := e.script.Validate(); err != nil {
			return err
		}
		return nil
	}
	if e.path == "" {
		return fmt.Errorf("%w: no script configured", ports.ErrEngineConfig)
	}
	s, err := LoadScript(e.path)
	if err != nil {
		return err
	}
	e.script = s
	e.logger.Info().
		Str(log.FieldEvent, "engine.script_loaded").
		Str("path", e.path).
		Strs("journeys", s.JourneyNames()).
		Msg("journey script loaded")
	return nil
}

func (e *Engine) StartJourney(journeyID string, opts *ports.NativeStartOptions, done ports.Callback) {
	e.mu.Lock()
	if e.script == nil {
		e.mu.Unlock()
		e.respond(done, nativeErr(ports.NativeNotInitialized, "engine not initialized"))
		return
	}
	j, ok := e.script.Journeys[journeyID]
	if !ok {
		e.journey, e.current = nil, ""
		e.mu.Unlock()
		e.respond(done, nativeErr(ports.NativeServerError, fmt.Sprintf("journey %q not found", journeyID)))
		return
	}
	e.journey, e.current = j, j.Start
	res := e.render(j.Steps[j.Start])
	e.mu.Unlock()

	ev := e.logger.Debug().Str(log.FieldEvent, "engine.journey_started").Str(log.FieldJourneyID, journeyID)
	if opts != nil && opts.FlowID != "" {
		ev = ev.Str(log.FieldFlowID, opts.FlowID)
	}
	ev.Msg("scripted journey started")

	e.respond(done, res)
}

func (e *Engine) SubmitClientResponse(option ports.NativeOptionID, data map[string]any, done ports.Callback) {
	e.mu.Lock()
	if e.journey == nil {
		e.mu.Unlock()
		e.respond(done, nativeErr(ports.NativeNoActiveJourney, "no active journey"))
		return
	}
	step := e.journey.Steps[e.current]
	key := optionKey(option)

	target, ok := step.Next[key]
	if !ok {
		e.mu.Unlock()
		e.respond(done, nativeErr(ports.NativeClientResponseNotValid, fmt.Sprintf("option %q not offered", key)))
		return
	}
	if !satisfies(step.Require, data) {
		res := ports.NativeResult{Err: step.OnMismatch.native()}
		e.mu.Unlock()
		e.respond(done, res)
		return
	}

	e.current = target
	next := e.journey.Steps[target]
	res := e.render(next)
	// A step without transitions ends the journey.
	if next.StepID != "" && len(next.Next) == 0 {
		e.journey, e.current = nil, ""
	}
	e.mu.Unlock()

	e.logger.Debug().
		Str(log.FieldEvent, "engine.step").
		Str(log.FieldOptionID, key).
		Str(log.FieldStep, target).
		Msg("scripted journey advanced")
	e.respond(done, res)
}

// Close waits for callbacks already scheduled to finish.
func (e *Engine) Close() {
	e.wg.Wait()
}

// render must be called with e.mu held.
func (e *Engine) render(st *Step) ports.NativeResult {
	if st.Error != nil {
		return ports.NativeResult{Err: st.Error.native()}
	}
	stepID := st.StepID
	resp := ports.NativeResponse{JourneyStepID: &stepID}
	if st.Data != nil {
		resp.Data = st.Data
	}
	if st.Token != "" {
		token := st.Token
		resp.Token = &token
	}
	if len(st.Options) > 0 {
		resp.ClientResponseOptions = make(map[string]ports.NativeOption, len(st.Options))
		for _, o := range st.Options {
			label := o.Label
			if label == "" {
				label = o.ID
			}
			resp.ClientResponseOptions[o.ID] = ports.NativeOption{Type: optionType(o.ID), ID: o.ID, Label: label}
		}
	}
	return ports.OK(resp)
}

func (e *Engine) respond(done ports.Callback, res ports.NativeResult) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if e.delay > 0 {
			time.Sleep(e.delay)
		}
		done(res)
	}()
}

func nativeErr(code ports.NativeErrorCode, msg string) ports.NativeResult {
	return ports.Fail(ports.NativeError{Code: code, Message: msg})
}

func optionType(id string) ports.NativeOptionType {
	switch id {
	case "clientInput":
		return ports.NativeClientInput
	case "cancel":
		return ports.NativeCancel
	case "fail":
		return ports.NativeFail
	case "resend":
		return ports.NativeResend
	default:
		return ports.NativeCustom
	}
}

func optionKey(id ports.NativeOptionID) string {
	switch id.Type {
	case ports.NativeClientInput:
		return "clientInput"
	case ports.NativeCancel:
		return "cancel"
	case ports.NativeFail:
		return "fail"
	case ports.NativeResend:
		return "resend"
	default:
		return id.CustomID
	}
}

// satisfies compares required fields loosely: numbers from YAML and from the
// client are compared as float64.
func satisfies(require, data map[string]any) bool {
	for k, want := range require {
		got, ok := data[k]
		if !ok || !looseEqual(want, got) {
			return false
		}
	}
	return true
}

func looseEqual(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

var _ ports.Engine = (*Engine)(nil)
