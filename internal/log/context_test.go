// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextWithJourneyID(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		journeyID string
		want      string
	}{
		{
			name:      "nil context",
			ctx:       nil,
			journeyID: "login-flow",
			want:      "login-flow",
		},
		{
			name:      "background context",
			ctx:       context.Background(),
			journeyID: "onboarding",
			want:      "onboarding",
		},
		{
			name:      "empty journey ID",
			ctx:       context.Background(),
			journeyID: "",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithJourneyID(tt.ctx, tt.journeyID)
			got := JourneyIDFromContext(ctx)
			if got != tt.want {
				t.Errorf("JourneyIDFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromContextNil(t *testing.T) {
	if got := CorrelationIDFromContext(nil); got != "" { //nolint:staticcheck
		t.Errorf("CorrelationIDFromContext(nil) = %q, want empty", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := ContextWithJourneyID(context.Background(), "login")
	ctx = ContextWithCorrelationID(ctx, "c-1")
	ctx = ContextWithRequestID(ctx, "r-1")

	logger := WithContext(ctx, base)
	logger.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	for key, want := range map[string]string{
		FieldJourneyID:     "login",
		FieldCorrelationID: "c-1",
		FieldRequestID:     "r-1",
	} {
		if entry[key] != want {
			t.Errorf("field %s = %v, want %v", key, entry[key], want)
		}
	}
}

func TestWithContextWithoutFieldsReturnsSameLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	logger := WithContext(context.Background(), base)
	logger.Info().Msg("plain")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := entry[FieldJourneyID]; ok {
		t.Errorf("unexpected %s field in %v", FieldJourneyID, entry)
	}
}

func TestConfigureAppliesServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "bridge-test", Version: "v0.0.1"})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("bus")
	l.Debug().Str(FieldEvent, "test.event").Msg("configured")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["service"] != "bridge-test" {
		t.Errorf("service = %v, want bridge-test", entry["service"])
	}
	if entry["version"] != "v0.0.1" {
		t.Errorf("version = %v, want v0.0.1", entry["version"])
	}
	if entry[FieldComponent] != "bus" {
		t.Errorf("component = %v, want bus", entry[FieldComponent])
	}
	if entry[FieldEvent] != "test.event" {
		t.Errorf("event = %v, want test.event", entry[FieldEvent])
	}
}
