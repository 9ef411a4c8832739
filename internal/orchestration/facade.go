// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package orchestration is the single entry point between an application and
// the native journey engine. It validates and converts outbound calls, tracks
// the journey lifecycle, and turns engine callbacks into ordered events for
// the registered listener.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/tsido/idobridge/internal/bus"
	"github.com/tsido/idobridge/internal/dispatch"
	"github.com/tsido/idobridge/internal/domain/journey/lifecycle"
	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/domain/journey/ports"
	"github.com/tsido/idobridge/internal/log"
	"github.com/tsido/idobridge/internal/metrics"
	"github.com/tsido/idobridge/internal/telemetry"
	"github.com/tsido/idobridge/internal/value"
)

const tracerName = "github.com/tsido/idobridge/internal/orchestration"

// Facade bridges one application to one engine. It tracks a single journey
// at a time; starting a journey supersedes the previous one.
type Facade struct {
	engine  ports.Engine
	channel *bus.Channel
	queue   dispatch.Queue
	owned   *dispatch.Serial

	tracer        trace.Tracer
	meterProvider metric.MeterProvider
	journeys      *telemetry.JourneyInstruments
	now           func() time.Time
	newID         func() string
	logger        zerolog.Logger

	initGroup   singleflight.Group
	initialized atomic.Bool

	mu      sync.Mutex
	machine *lifecycle.Machine
	record  lifecycle.Record
}

// Snapshot is a point-in-time view of the facade.
type Snapshot struct {
	Initialized   bool
	State         lifecycle.State
	JourneyID     string
	CorrelationID string
	FlowID        string
	LastStep      *model.JourneyStep
	StepCount     int
	StartedAt     time.Time
	UpdatedAt     time.Time
}

// New builds a facade around engine. Without WithQueue, events are delivered
// on a facade-owned serial queue that Close stops.
func New(engine ports.Engine, opts ...Option) (*Facade, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: engine is nil", model.ErrConfiguration)
	}
	machine, err := lifecycle.NewMachine(func(to lifecycle.State) {
		metrics.SetJourneyState(string(to), lifecycle.StateNames())
	})
	if err != nil {
		return nil, fmt.Errorf("build journey state machine: %w", err)
	}

	f := &Facade{
		engine:  engine,
		now:     time.Now,
		newID:   defaultCorrelationID,
		logger:  log.WithComponent("orchestration"),
		machine: machine,
		record:  lifecycle.Record{State: lifecycle.StateNotStarted},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.tracer == nil {
		f.tracer = telemetry.Tracer(tracerName)
	}
	journeys, err := telemetry.NewJourneyInstruments(f.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("register journey instruments: %w", err)
	}
	f.journeys = journeys
	if f.queue == nil {
		f.owned = dispatch.NewSerial()
		f.queue = f.owned
	}
	f.channel = bus.New(f.queue)
	metrics.SetJourneyState(string(lifecycle.StateNotStarted), lifecycle.StateNames())
	return f, nil
}

// Close drains and stops the facade-owned delivery queue, if any. Events
// published afterwards are dropped.
func (f *Facade) Close() {
	if f.owned != nil {
		f.owned.Close()
	}
}

// InitializeSDK prepares the engine. It is idempotent: concurrent callers
// share one engine call, and success is remembered. A failure may be retried.
func (f *Facade) InitializeSDK(ctx context.Context) (bool, error) {
	if f.initialized.Load() {
		return true, nil
	}

	ctx, span := f.tracer.Start(ctx, "ido.initialize")
	defer span.End()

	_, err, shared := f.initGroup.Do("initialize", func() (any, error) {
		if f.initialized.Load() {
			return nil, nil
		}
		if err := f.engine.Initialize(ctx); err != nil {
			metrics.RecordInitialize("failure")
			if errors.Is(err, ports.ErrEngineConfig) {
				return nil, fmt.Errorf("%w: %w: %w", model.ErrInitialization, model.ErrConfiguration, err)
			}
			return nil, fmt.Errorf("%w: %w", model.ErrInitialization, err)
		}
		f.initialized.Store(true)
		metrics.RecordInitialize("success")
		return nil, nil
	})
	span.SetAttributes(attribute.Bool("ido.shared", shared))

	logger := log.WithContext(ctx, f.logger)
	if err != nil {
		telemetry.RecordError(span, err, "initialization")
		logger.Error().Err(err).Str(log.FieldEvent, "sdk.init_failed").Msg("sdk initialization failed")
		return false, err
	}
	logger.Info().Str(log.FieldEvent, "sdk.initialized").Bool("shared", shared).Msg("sdk initialized")
	return true, nil
}

// Initialized reports whether InitializeSDK has succeeded.
func (f *Facade) Initialized() bool {
	return f.initialized.Load()
}

// DroppedEvents reports how many events found no listener.
func (f *Facade) DroppedEvents() uint64 {
	return f.channel.Dropped()
}

// StartJourney begins journeyID. It returns once the engine has been asked to
// start; the outcome arrives as an event.
func (f *Facade) StartJourney(ctx context.Context, journeyID string, opts *model.StartJourneyOptions) error {
	ctx, span := f.tracer.Start(ctx, "ido.start_journey")
	defer span.End()

	native, flowID, err := f.prepareStart(journeyID, opts)
	if err != nil {
		metrics.RecordJourneyStart("rejected")
		telemetry.RecordError(span, err, "start_journey")
		return err
	}

	correlationID := f.newID()
	f.mu.Lock()
	if _, err := f.machine.Fire(ctx, lifecycle.EvStart); err != nil {
		f.mu.Unlock()
		metrics.RecordJourneyStart("rejected")
		telemetry.RecordError(span, err, "state")
		return fmt.Errorf("%w: start journey: %w", model.ErrInternal, err)
	}
	superseded := f.record.CorrelationID
	if !f.record.State.HasActiveJourney() {
		superseded = ""
	}
	f.record = lifecycle.NewRecord(journeyID, correlationID, flowID, f.now())
	f.mu.Unlock()

	metrics.RecordJourneyStart("accepted")
	span.SetAttributes(telemetry.JourneyAttributes(journeyID, correlationID, flowID)...)

	ctx = log.ContextWithJourneyID(log.ContextWithCorrelationID(ctx, correlationID), journeyID)
	logger := log.WithContext(ctx, f.logger)
	ev := logger.Info().Str(log.FieldEvent, "journey.started")
	if flowID != "" {
		ev = ev.Str(log.FieldFlowID, flowID)
	}
	if superseded != "" {
		ev = ev.Str("superseded", superseded)
	}
	ev.Msg("journey started")

	f.engine.StartJourney(journeyID, native, f.callback(journeyID, correlationID))
	return nil
}

func (f *Facade) prepareStart(journeyID string, opts *model.StartJourneyOptions) (*ports.NativeStartOptions, string, error) {
	if !f.initialized.Load() {
		return nil, "", model.ErrNotInitialized
	}
	if strings.TrimSpace(journeyID) == "" {
		return nil, "", fmt.Errorf("%w: journey id is empty", model.ErrValidation)
	}
	if opts == nil {
		return nil, "", nil
	}

	native := &ports.NativeStartOptions{}
	if opts.AdditionalParams != nil {
		params, err := value.MapToCanonical(opts.AdditionalParams)
		if err != nil {
			metrics.IncConversionFailure("start_options")
			return nil, "", fmt.Errorf("%w: additionalParams: %w", model.ErrConversion, err)
		}
		native.AdditionalParams = value.MapToNative(params)
	}
	if opts.FlowID != nil {
		native.FlowID = *opts.FlowID
	}
	return native, native.FlowID, nil
}

// SubmitClientResponse answers the step awaiting input with the option
// responseOptionID. Reserved ids (clientInput, cancel, fail, resend) match
// exactly; anything else is routed as a custom option.
func (f *Facade) SubmitClientResponse(ctx context.Context, responseOptionID string, data map[string]any) error {
	ctx, span := f.tracer.Start(ctx, "ido.submit_client_response")
	defer span.End()

	option := model.ParseClientResponseOptionID(responseOptionID)
	optionLabel := string(option.Type)

	reject := func(err error) error {
		metrics.RecordClientResponse(optionLabel, "rejected")
		telemetry.RecordError(span, err, "submit_client_response")
		return err
	}

	if !f.initialized.Load() {
		return reject(model.ErrNotInitialized)
	}

	var params *value.Map
	if data != nil {
		m, err := value.MapToCanonical(data)
		if err != nil {
			metrics.IncConversionFailure("client_response")
			return reject(fmt.Errorf("%w: response data: %w", model.ErrConversion, err))
		}
		params = m
	}

	f.mu.Lock()
	from := f.machine.State()
	decision := lifecycle.Decide(from, lifecycle.EvSubmit)
	if !decision.Allowed {
		f.mu.Unlock()
		if decision.Reason == lifecycle.ForbiddenAwaitingEngine {
			return reject(model.ErrResponseNotExpected)
		}
		return reject(fmt.Errorf("%w: state %s", model.ErrNoActiveJourney, from))
	}
	if _, err := f.machine.Fire(ctx, lifecycle.EvSubmit); err != nil {
		f.mu.Unlock()
		return reject(fmt.Errorf("%w: submit client response: %w", model.ErrInternal, err))
	}
	f.record.State = lifecycle.StateActive
	f.record.UpdatedAt = f.now()
	journeyID, correlationID := f.record.JourneyID, f.record.CorrelationID
	f.mu.Unlock()

	metrics.RecordClientResponse(optionLabel, "accepted")
	span.SetAttributes(telemetry.JourneyAttributes(journeyID, correlationID, "")...)
	span.SetAttributes(telemetry.ResponseAttributes(optionLabel, option.String(), string(from))...)

	ctx = log.ContextWithJourneyID(log.ContextWithCorrelationID(ctx, correlationID), journeyID)
	logger := log.WithContext(ctx, f.logger)
	logger.Info().
		Str(log.FieldEvent, "journey.response_submitted").
		Str(log.FieldOptionID, option.String()).
		Str("option_type", optionLabel).
		Msg("client response submitted")

	f.engine.SubmitClientResponse(optionIDToNative(option), outboundData(option, params), f.callback(journeyID, correlationID))
	return nil
}

// State returns a snapshot of the current journey.
func (f *Facade) State() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := Snapshot{
		Initialized:   f.initialized.Load(),
		State:         f.machine.State(),
		JourneyID:     f.record.JourneyID,
		CorrelationID: f.record.CorrelationID,
		FlowID:        f.record.FlowID,
		StepCount:     f.record.StepCount,
		StartedAt:     f.record.StartedAt,
		UpdatedAt:     f.record.UpdatedAt,
	}
	if f.record.LastStep != nil {
		step := *f.record.LastStep
		snap.LastStep = &step
	}
	return snap
}

func (f *Facade) callback(journeyID, correlationID string) ports.Callback {
	return func(res ports.NativeResult) {
		f.handleResult(journeyID, correlationID, res)
	}
}

// handleResult runs on whatever goroutine the engine calls back on.
func (f *Facade) handleResult(journeyID, correlationID string, res ports.NativeResult) {
	ev := translateResult(res)
	ev.JourneyID = journeyID
	ev.CorrelationID = correlationID

	logger := f.logger.With().
		Str(log.FieldJourneyID, journeyID).
		Str(log.FieldCorrelationID, correlationID).
		Logger()

	f.mu.Lock()
	var (
		from, to State
		applied  bool
		elapsed  time.Duration
		steps    int
	)
	if f.record.CorrelationID != correlationID {
		ev.Stale = true
	} else {
		kind := lifecycle.EventForResponse(ev, f.record.StepCount)
		from = f.machine.State()
		next, err := f.machine.Fire(context.Background(), kind)
		if err != nil {
			logger.Warn().
				Err(err).
				Str(log.FieldEvent, "journey.event_ignored").
				Str(log.FieldEventKind, string(kind)).
				Msg("engine event does not move the journey")
		} else {
			now := f.now()
			f.record.Observe(ev, next, now)
			to, applied = next, true
			elapsed, steps = now.Sub(f.record.StartedAt), f.record.StepCount
		}
	}
	f.mu.Unlock()

	if applied && to.IsTerminal() {
		f.journeys.RecordTerminal(context.Background(), string(to), elapsed, steps)
	}
	logEvent(logger, ev, from, to, applied)

	if _, err := f.channel.Publish(ev); err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "journey.publish_failed").Msg("journey event not delivered")
	}
}

// State aliases the lifecycle state for callers of Snapshot.
type State = lifecycle.State

func logEvent(logger zerolog.Logger, ev model.ResponseEvent, from, to State, applied bool) {
	e := logger.Info().
		Str(log.FieldEvent, "journey.event").
		Str(log.FieldEventKind, ev.Kind.String()).
		Bool("stale", ev.Stale)
	if applied {
		e = e.Str(log.FieldOldState, string(from)).Str(log.FieldNewState, string(to))
	}
	if ev.IsSuccess() {
		if step := ev.Response.JourneyStepID; step != nil {
			e = e.Str(log.FieldStep, step.ID())
			if step.IsCustom() {
				e = e.Bool("custom_step", true)
			}
		}
	} else {
		e = e.Str(log.FieldErrorCode, string(ev.Err.Code))
	}
	e.Msg("journey event")
}
