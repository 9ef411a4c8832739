// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package api exposes the journey facade over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/tsido/idobridge/internal/api/middleware"
	"github.com/tsido/idobridge/internal/bus"
	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/health"
	"github.com/tsido/idobridge/internal/log"
	"github.com/tsido/idobridge/internal/orchestration"
)

// Journeys is the facade surface the API drives.
type Journeys interface {
	InitializeSDK(ctx context.Context) (bool, error)
	StartJourney(ctx context.Context, journeyID string, opts *model.StartJourneyOptions) error
	SubmitClientResponse(ctx context.Context, responseOptionID string, data map[string]any) error
	State() orchestration.Snapshot
	SetEventListener(l bus.Listener)
	DroppedEvents() uint64
}

// Config configures the HTTP surface.
type Config struct {
	ListenAddr string
	Version    string

	// RateLimit is requests per minute per client IP; zero disables it.
	RateLimit int
	// EngineRate caps requests per second reaching the engine across all
	// clients; zero disables it.
	EngineRate  float64
	EngineBurst int

	EventHistory int
	// MaxEventWait bounds the ?wait= long-poll parameter.
	MaxEventWait time.Duration

	TracingService string
	TracerProvider trace.TracerProvider
}

const (
	maxBodyBytes        = 1 << 20
	defaultMaxEventWait = 30 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Server serves the journey API.
type Server struct {
	cfg      Config
	journeys Journeys
	events   *EventLog
	admit    *rate.Limiter
	health   *health.Manager
	router   chi.Router
	logger   zerolog.Logger
}

// New builds a server around journeys and registers its event log as the
// facade's listener.
func New(cfg Config, journeys Journeys) (*Server, error) {
	if journeys == nil {
		return nil, fmt.Errorf("%w: journeys is nil", model.ErrConfiguration)
	}
	if cfg.MaxEventWait <= 0 {
		cfg.MaxEventWait = defaultMaxEventWait
	}
	s := &Server{
		cfg:      cfg,
		journeys: journeys,
		events:   NewEventLog(cfg.EventHistory),
		admit:    middleware.EngineAdmission(cfg.EngineRate, cfg.EngineBurst),
		logger:   log.WithComponent("api"),
	}
	journeys.SetEventListener(s.events.Append)

	s.health = health.NewManager(cfg.Version)
	s.health.RegisterChecker(health.SDKChecker(func() bool { return journeys.State().Initialized }))
	s.health.RegisterChecker(health.DropChecker(journeys.DroppedEvents))
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Events exposes the event log.
func (s *Server) Events() *EventLog {
	return s.events
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	middleware.ApplyStack(r, middleware.StackConfig{
		EnableMetrics:      true,
		TracingService:     s.cfg.TracingService,
		TracerProvider:     s.cfg.TracerProvider,
		EnableLogging:      true,
		RateLimitPerMinute: s.cfg.RateLimit,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Admission(s.admit))
			r.Post("/sdk/init", s.handleInitialize)
			r.Post("/journeys", s.handleStartJourney)
			r.Post("/journeys/responses", s.handleSubmitResponse)
		})
		r.Get("/journeys/state", s.handleState)
		r.Get("/events", s.handleEvents)
	})
	return r
}

// Run serves on cfg.ListenAddr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str(log.FieldEvent, "api.listening").Str("addr", ln.Addr().String()).Msg("journey API listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info().Str(log.FieldEvent, "api.shutdown").Msg("shutting down journey API")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
