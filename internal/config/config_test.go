// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allEnvKeys = []string{
	EnvLogLevel, EnvLogService, EnvScript, EnvCallbackDelay, EnvWatchScript, EnvListen, EnvRateLimit,
	EnvEventHistory, EnvEngineRate, EnvEngineBurst, EnvTracingEnabled, EnvTracingExporter, EnvTracingEndpoint, EnvTracingSampling,
}

// clearEnv neutralises any IDO_ variables inherited from the test environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allEnvKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewLoader("", "v1.2.3").Load()
	require.NoError(t, err)

	want := Defaults()
	want.Version = "v1.2.3"
	assert.Equal(t, want, cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "idobridge.yaml", `
logLevel: debug
engine:
  scriptPath: /etc/idobridge/login.yaml
  callbackDelay: 250ms
api:
  listenAddr: 127.0.0.1:9000
  eventHistory: 10
`)

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/etc/idobridge/login.yaml", cfg.Engine.ScriptPath)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.CallbackDelay)
	assert.Equal(t, "127.0.0.1:9000", cfg.API.ListenAddr)
	assert.Equal(t, 10, cfg.API.EventHistory)
	assert.Equal(t, DefaultRateLimit, cfg.API.RateLimit)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "idobridge.yml", "api:\n  listenAddr: 127.0.0.1:9000\n")
	t.Setenv(EnvListen, ":7000")
	t.Setenv(EnvCallbackDelay, "1s")
	t.Setenv(EnvTracingEnabled, "yes")
	t.Setenv(EnvTracingExporter, "http")
	t.Setenv(EnvTracingSampling, "0.25")
	t.Setenv(EnvEngineRate, "2.5")
	t.Setenv(EnvWatchScript, "true")

	l := NewLoader(path, "")
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.API.ListenAddr)
	assert.Equal(t, time.Second, cfg.Engine.CallbackDelay)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "http", cfg.Telemetry.Exporter)
	assert.Equal(t, 0.25, cfg.Telemetry.SamplingRate)
	assert.Equal(t, 2.5, cfg.API.EngineRate)
	assert.True(t, cfg.Engine.WatchScript)
	assert.Contains(t, l.ConsumedEnvKeys, EnvListen)
	assert.Len(t, l.ConsumedEnvKeys, len(allEnvKeys))
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRateLimit, "lots")
	t.Setenv(EnvTracingEnabled, "maybe")

	cfg, err := NewLoader("", "").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultRateLimit, cfg.API.RateLimit)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_StrictFile(t *testing.T) {
	clearEnv(t)

	t.Run("unknown field", func(t *testing.T) {
		path := writeConfig(t, "c.yaml", "api:\n  listen: :1\n")
		_, err := NewLoader(path, "").Load()
		assert.ErrorIs(t, err, ErrUnknownConfigField)
	})

	t.Run("multiple documents", func(t *testing.T) {
		path := writeConfig(t, "c.yaml", "logLevel: info\n---\nlogLevel: debug\n")
		_, err := NewLoader(path, "").Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple documents")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeConfig(t, "c.yaml", "")
		_, err := NewLoader(path, "").Load()
		assert.NoError(t, err)
	})

	t.Run("wrong extension", func(t *testing.T) {
		path := writeConfig(t, "c.json", "{}")
		_, err := NewLoader(path, "").Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only YAML supported")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), "").Load()
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		ok     bool
	}{
		{"defaults", func(*AppConfig) {}, true},
		{"bad level", func(c *AppConfig) { c.LogLevel = "loud" }, false},
		{"negative delay", func(c *AppConfig) { c.Engine.CallbackDelay = -time.Second }, false},
		{"no listen", func(c *AppConfig) { c.API.ListenAddr = "" }, false},
		{"negative rate", func(c *AppConfig) { c.API.RateLimit = -1 }, false},
		{"huge history", func(c *AppConfig) { c.API.EventHistory = MaxEventHistory + 1 }, false},
		{"negative engine rate", func(c *AppConfig) { c.API.EngineRate = -1 }, false},
		{"engine rate without burst", func(c *AppConfig) { c.API.EngineBurst = 0 }, false},
		{"engine cap disabled", func(c *AppConfig) { c.API.EngineRate = 0; c.API.EngineBurst = 0 }, true},
		{"bad exporter", func(c *AppConfig) { c.Telemetry.Enabled = true; c.Telemetry.Exporter = "zipkin" }, false},
		{"exporter ignored when disabled", func(c *AppConfig) { c.Telemetry.Exporter = "zipkin" }, true},
		{"sampling", func(c *AppConfig) { c.Telemetry.SamplingRate = 2 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.API.ListenAddr = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logLevel")
	assert.Contains(t, err.Error(), "api.listenAddr")
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"TRUE": true, "1": true, "yes": true, "false": false, "0": false, "No": false} {
		t.Setenv("IDO_TEST_BOOL", in)
		assert.Equal(t, want, ParseBool("IDO_TEST_BOOL", !want), in)
	}
}
