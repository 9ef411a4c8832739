// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Validate checks cfg and reports every problem at once.
func Validate(cfg AppConfig) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		add("logLevel %q: %v", cfg.LogLevel, err)
	}
	if cfg.Engine.CallbackDelay < 0 {
		add("engine.callbackDelay must not be negative")
	}
	if cfg.API.ListenAddr == "" {
		add("api.listenAddr is required")
	}
	if cfg.API.RateLimit < 0 {
		add("api.rateLimit must not be negative")
	}
	if cfg.API.EventHistory < 0 || cfg.API.EventHistory > MaxEventHistory {
		add("api.eventHistory must be between 0 and %d", MaxEventHistory)
	}
	if cfg.API.EngineRate < 0 {
		add("api.engineRate must not be negative")
	}
	if cfg.API.EngineRate > 0 && cfg.API.EngineBurst < 1 {
		add("api.engineBurst must be at least 1 when api.engineRate is set")
	}
	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "grpc", "http":
		default:
			add("telemetry.exporter %q: supported values are grpc, http", cfg.Telemetry.Exporter)
		}
		if cfg.Telemetry.Endpoint == "" {
			add("telemetry.endpoint is required when tracing is enabled")
		}
	}
	if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
		add("telemetry.samplingRate must be between 0 and 1")
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
