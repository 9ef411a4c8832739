// SPDX-License-Identifier: MIT

package scripted

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tsido/idobridge/internal/domain/journey/ports"
)

const (
	scriptA = "version: 1\njourneys: {a: {start: s, steps: {s: {step: success}}}}\n"
	scriptB = "version: 1\njourneys: {b: {start: s, steps: {s: {step: rejection}}}}\n"
)

func writeScript(t *testing.T, path, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
}

func TestReload_SwapsScriptForNextJourney(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	path := filepath.Join(t.TempDir(), "journeys.yaml")
	writeScript(t, path, scriptA)

	e := New(path)
	t.Cleanup(e.Close)
	require.NoError(t, e.Initialize(context.Background()))
	assert.Equal(t, []string{"a"}, e.JourneyNames())

	writeScript(t, path, scriptB)
	require.NoError(t, e.Reload())
	assert.Equal(t, []string{"b"}, e.JourneyNames())

	res := start(t, e, "b")
	require.NotNil(t, res.Response)
	assert.Equal(t, "rejection", *res.Response.JourneyStepID)

	res = start(t, e, "a")
	require.NotNil(t, res.Err)
	assert.Equal(t, ports.NativeServerError, res.Err.Code)
}

func TestReload_InvalidScriptKeepsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journeys.yaml")
	writeScript(t, path, scriptA)

	e := New(path)
	t.Cleanup(e.Close)
	require.NoError(t, e.Initialize(context.Background()))

	writeScript(t, path, "version: 2\n")
	err := e.Reload()
	assert.ErrorIs(t, err, ports.ErrEngineConfig)
	assert.Equal(t, []string{"a"}, e.JourneyNames())
}

func TestReload_WithoutFile(t *testing.T) {
	s, err := ParseScript([]byte(scriptA))
	require.NoError(t, err)
	e := New("", WithScript(s))
	assert.Error(t, e.Reload())
	assert.NoError(t, e.StartWatcher(context.Background()))
}

func TestStartWatcher_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	path := filepath.Join(t.TempDir(), "journeys.yaml")
	writeScript(t, path, scriptA)

	e := New(path, WithReloadDebounce(20*time.Millisecond))
	t.Cleanup(e.Close)
	require.NoError(t, e.Initialize(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.StartWatcher(ctx))

	writeScript(t, path, "version: 2\n")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"a"}, e.JourneyNames(), "invalid edit is ignored")

	writeScript(t, path, scriptB)
	assert.Eventually(t, func() bool {
		names := e.JourneyNames()
		return len(names) == 1 && names[0] == "b"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-e.watchDone:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
