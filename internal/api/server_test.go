// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsido/idobridge/internal/dispatch"
	"github.com/tsido/idobridge/internal/domain/journey/ports"
	"github.com/tsido/idobridge/internal/engine/enginetest"
	"github.com/tsido/idobridge/internal/orchestration"
)

type fixture struct {
	srv *Server
	eng *enginetest.Engine
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	eng := enginetest.New()
	f, err := orchestration.New(eng, orchestration.WithQueue(dispatch.Inline{}))
	require.NoError(t, err)
	if cfg.EventHistory == 0 {
		cfg.EventHistory = 16
	}
	srv, err := New(cfg, f)
	require.NoError(t, err)
	return &fixture{srv: srv, eng: eng}
}

func (fx *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	fx.srv.Handler().ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestNew_RejectsNilJourneys(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	fx := newFixture(t, Config{Version: "1.2.3"})
	w, body := fx.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])

	w, body = fx.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, false, body["ready"])

	fx.do(t, http.MethodPost, "/v1/sdk/init", "")
	w, body = fx.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ready"])
}

func TestJourneyOverHTTP(t *testing.T) {
	fx := newFixture(t, Config{})

	w, body := fx.do(t, http.MethodPost, "/v1/sdk/init", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["initialized"])

	w, body = fx.do(t, http.MethodPost, "/v1/journeys",
		`{"journeyId":"login","options":{"flowId":"f-1","additionalParams":{"locale":"en"}}}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, "ACTIVE", body["state"])
	assert.Equal(t, "f-1", body["flowId"])

	starts := fx.eng.Starts()
	require.Len(t, starts, 1)
	require.NotNil(t, starts[0].Options)
	assert.Equal(t, map[string]any{"locale": "en"}, starts[0].Options.AdditionalParams)

	fx.eng.Respond(enginetest.Step("action:Information", "clientInput", "cancel"))

	w, body = fx.do(t, http.MethodGet, "/v1/journeys/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AWAITING_CLIENT_RESPONSE", body["state"])
	assert.Equal(t, "information", body["lastStep"])

	w, _ = fx.do(t, http.MethodPost, "/v1/journeys/responses", `{"responseOptionId":"clientInput","data":{"otp":"123456"}}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	submits := fx.eng.Submits()
	require.Len(t, submits, 1)
	assert.Equal(t, ports.NativeClientInput, submits[0].Option.Type)
	assert.Equal(t, map[string]any{"otp": "123456"}, submits[0].Data)

	fx.eng.Respond(enginetest.Step("action:Success"))

	w, body = fx.do(t, http.MethodGet, "/v1/events?after=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["lastSeq"])
	events, ok := body["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 2)

	first := events[0].(map[string]any)
	assert.Equal(t, "success", first["kind"])
	payload := first["payload"].(map[string]any)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "information", payload["additionalData"].(map[string]any)["journeyStepId"])

	w, body = fx.do(t, http.MethodGet, "/v1/events?after=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["events"], 1)
}

func TestErrorMapping(t *testing.T) {
	fx := newFixture(t, Config{})

	w, body := fx.do(t, http.MethodPost, "/v1/journeys", `{"journeyId":"login"}`)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "not_initialized", body["error"])
	assert.NotEmpty(t, body["requestId"])

	fx.do(t, http.MethodPost, "/v1/sdk/init", "")

	w, body = fx.do(t, http.MethodPost, "/v1/journeys", `{"journeyId":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", body["error"])

	w, body = fx.do(t, http.MethodPost, "/v1/journeys/responses", `{"responseOptionId":"cancel"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no_active_journey", body["error"])

	fx.do(t, http.MethodPost, "/v1/journeys", `{"journeyId":"login"}`)
	w, body = fx.do(t, http.MethodPost, "/v1/journeys/responses", `{"responseOptionId":"cancel"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "response_not_expected", body["error"])

	w, body = fx.do(t, http.MethodPost, "/v1/journeys", `{"journeyId":"login","colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", body["error"])

	w, body = fx.do(t, http.MethodPost, "/v1/journeys/responses", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", body["error"])

	w, _ = fx.do(t, http.MethodPost, "/v1/journeys", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInitializeFailure(t *testing.T) {
	fx := newFixture(t, Config{})
	fx.eng.SetInitErr(fmt.Errorf("%w: script missing", ports.ErrEngineConfig))

	w, body := fx.do(t, http.MethodPost, "/v1/sdk/init", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "configuration_error", body["error"])

	fx.eng.SetInitErr(errors.New("flaky"))
	w, body = fx.do(t, http.MethodPost, "/v1/sdk/init", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "initialization_error", body["error"])

	fx.eng.SetInitErr(nil)
	w, _ = fx.do(t, http.MethodPost, "/v1/sdk/init", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEngineAdmission(t *testing.T) {
	fx := newFixture(t, Config{EngineRate: 0.001, EngineBurst: 1})

	w, _ := fx.do(t, http.MethodPost, "/v1/sdk/init", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, body := fx.do(t, http.MethodPost, "/v1/sdk/init", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	w, _ = fx.do(t, http.MethodGet, "/v1/journeys/state", "")
	assert.Equal(t, http.StatusOK, w.Code, "reads are not admission controlled")
}

func TestEvents_BadQuery(t *testing.T) {
	fx := newFixture(t, Config{})
	for _, q := range []string{"after=-1", "after=x", "wait=soon", "wait=-1s"} {
		w, body := fx.do(t, http.MethodGet, "/v1/events?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Equal(t, "bad_request", body["error"], q)
	}
}

func TestEvents_LongPoll(t *testing.T) {
	fx := newFixture(t, Config{})
	fx.do(t, http.MethodPost, "/v1/sdk/init", "")
	fx.do(t, http.MethodPost, "/v1/journeys", `{"journeyId":"login"}`)

	go func() {
		time.Sleep(20 * time.Millisecond)
		fx.eng.Respond(enginetest.Step("action:Success"))
	}()

	w, body := fx.do(t, http.MethodGet, "/v1/events?after=0&wait=2s", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["events"], 1)
}

func TestMetricsEndpoint(t *testing.T) {
	fx := newFixture(t, Config{})
	fx.do(t, http.MethodGet, "/healthz", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	fx.srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "idobridge_http_request_duration_seconds")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	fx := newFixture(t, Config{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fx.srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
