// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package scripted

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tsido/idobridge/internal/domain/journey/ports"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(filepath.Join("testdata", "login.yaml"))
	require.NoError(t, e.Initialize(context.Background()))
	t.Cleanup(e.Close)
	return e
}

// call runs fn and waits for its callback.
func call(t *testing.T, fn func(ports.Callback)) ports.NativeResult {
	t.Helper()
	ch := make(chan ports.NativeResult, 1)
	fn(func(res ports.NativeResult) { ch <- res })
	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("engine never called back")
		return ports.NativeResult{}
	}
}

func start(t *testing.T, e *Engine, journey string) ports.NativeResult {
	return call(t, func(cb ports.Callback) { e.StartJourney(journey, nil, cb) })
}

func submit(t *testing.T, e *Engine, opt ports.NativeOptionID, data map[string]any) ports.NativeResult {
	return call(t, func(cb ports.Callback) { e.SubmitClientResponse(opt, data, cb) })
}

func TestEngine_LoginJourney(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	e := newEngine(t)

	res := start(t, e, "login")
	require.NotNil(t, res.Response)
	assert.Equal(t, "action:Information", *res.Response.JourneyStepID)
	assert.Equal(t, map[string]any{"title": "Welcome back"}, res.Response.Data)
	assert.Equal(t, ports.NativeCustom, res.Response.ClientResponseOptions["skip_otp"].Type)
	assert.Equal(t, ports.NativeCancel, res.Response.ClientResponseOptions["cancel"].Type)

	res = submit(t, e, ports.NativeOptionID{Type: ports.NativeClientInput}, nil)
	require.NotNil(t, res.Response)
	assert.Equal(t, "action:SmsOTPAuthentication", *res.Response.JourneyStepID)
	assert.Equal(t, "resend", res.Response.ClientResponseOptions["resend"].Label)

	res = submit(t, e, ports.NativeOptionID{Type: ports.NativeClientInput}, map[string]any{"otp": "000000"})
	require.NotNil(t, res.Err)
	assert.Equal(t, ports.NativeInvalidCredentials, res.Err.Code)

	res = submit(t, e, ports.NativeOptionID{Type: ports.NativeClientInput}, map[string]any{"otp": "123456"})
	require.NotNil(t, res.Response)
	assert.Equal(t, "action:Success", *res.Response.JourneyStepID)
	require.NotNil(t, res.Response.Token)
	assert.Equal(t, "demo-token", *res.Response.Token)

	res = submit(t, e, ports.NativeOptionID{Type: ports.NativeCancel}, nil)
	require.NotNil(t, res.Err)
	assert.Equal(t, ports.NativeNoActiveJourney, res.Err.Code)
}

func TestEngine_CustomOption(t *testing.T) {
	e := newEngine(t)
	start(t, e, "login")

	res := submit(t, e, ports.NativeOptionID{Type: ports.NativeCustom, CustomID: "skip_otp"}, nil)
	require.NotNil(t, res.Response)
	assert.Equal(t, "action:Success", *res.Response.JourneyStepID)
}

func TestEngine_OptionNotOffered(t *testing.T) {
	e := newEngine(t)
	start(t, e, "login")

	res := submit(t, e, ports.NativeOptionID{Type: ports.NativeResend}, nil)
	require.NotNil(t, res.Err)
	assert.Equal(t, ports.NativeClientResponseNotValid, res.Err.Code)
}

func TestEngine_ErrorSteps(t *testing.T) {
	e := newEngine(t)

	res := start(t, e, "offline")
	require.NotNil(t, res.Err)
	assert.Equal(t, ports.NativeNetworkError, res.Err.Code)

	res = start(t, e, "missing")
	require.NotNil(t, res.Err)
	assert.Equal(t, ports.NativeServerError, res.Err.Code)

	start(t, e, "future")
	res = submit(t, e, ports.NativeOptionID{Type: ports.NativeCustom, CustomID: "custom_branch"}, nil)
	require.NotNil(t, res.Err)
	assert.Equal(t, ports.NativeErrorCode(999), res.Err.Code)
}

func TestEngine_NotInitialized(t *testing.T) {
	e := New("")
	defer e.Close()

	assert.ErrorIs(t, e.Initialize(context.Background()), ports.ErrEngineConfig)
	res := start(t, e, "login")
	require.NotNil(t, res.Err)
	assert.Equal(t, ports.NativeNotInitialized, res.Err.Code)
}

func TestEngine_WithScriptAndDelay(t *testing.T) {
	s, err := ParseScript([]byte("version: 1\njourneys: {quick: {start: s, steps: {s: {step: success}}}}\n"))
	require.NoError(t, err)

	e := New("", WithScript(s), WithDelay(5*time.Millisecond))
	require.NoError(t, e.Initialize(context.Background()))
	defer e.Close()

	began := time.Now()
	res := start(t, e, "quick")
	require.NotNil(t, res.Response)
	assert.GreaterOrEqual(t, time.Since(began), 5*time.Millisecond)
}

func TestSatisfies(t *testing.T) {
	assert.True(t, satisfies(nil, nil))
	assert.True(t, satisfies(map[string]any{"n": 1}, map[string]any{"n": float64(1)}))
	assert.False(t, satisfies(map[string]any{"n": 1}, map[string]any{"n": "1"}))
	assert.False(t, satisfies(map[string]any{"otp": "1"}, map[string]any{}))
}
