// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package config loads idobridge configuration with the precedence
// ENV > file > defaults.
package config

import "time"

// AppConfig is the effective configuration.
type AppConfig struct {
	LogLevel   string          `yaml:"logLevel"`
	LogService string          `yaml:"logService"`
	Engine     EngineConfig    `yaml:"engine"`
	API        APIConfig       `yaml:"api"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`

	// Version is stamped from the binary, never read from file.
	Version string `yaml:"-"`
}

// EngineConfig configures the scripted engine.
type EngineConfig struct {
	ScriptPath    string        `yaml:"scriptPath"`
	CallbackDelay time.Duration `yaml:"callbackDelay"`
	// WatchScript reloads the script when its file changes.
	WatchScript bool `yaml:"watchScript"`
}

// APIConfig configures the host HTTP surface.
type APIConfig struct {
	ListenAddr string `yaml:"listenAddr"`
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit int `yaml:"rateLimit"`
	// EventHistory is the number of delivered events kept for /v1/events.
	EventHistory int `yaml:"eventHistory"`
	// EngineRate caps engine-bound requests per second across all clients;
	// 0 disables the cap.
	EngineRate  float64 `yaml:"engineRate"`
	EngineBurst int     `yaml:"engineBurst"`
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

const (
	DefaultListenAddr   = ":8088"
	DefaultRateLimit    = 120
	DefaultEventHistory = 256
	DefaultEngineRate   = 20
	DefaultEngineBurst  = 40
	MaxEventHistory     = 10000
)

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "idobridge",
		Engine: EngineConfig{
			CallbackDelay: 0,
		},
		API: APIConfig{
			ListenAddr:   DefaultListenAddr,
			RateLimit:    DefaultRateLimit,
			EventHistory: DefaultEventHistory,
			EngineRate:   DefaultEngineRate,
			EngineBurst:  DefaultEngineBurst,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}
