// SPDX-License-Identifier: MIT

package scripted

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tsido/idobridge/internal/log"
)

const defaultReloadDebounce = 500 * time.Millisecond

// WithReloadDebounce sets how long StartWatcher waits after the last file
// event before reloading.
func WithReloadDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debounce = d }
}

// Reload reads the script file again and swaps it in. If the new script does
// not load or validate, the current one is kept and the error returned. A
// journey already running keeps the definition it started with; the next
// StartJourney uses the new script.
func (e *Engine) Reload() error {
	if e.path == "" {
		return errors.New("reload: engine has no script file")
	}
	e.logger.Info().Str(log.FieldEvent, "engine.reload_start").Str("path", e.path).Msg("reloading journey script")

	s, err := LoadScript(e.path)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str(log.FieldEvent, "engine.reload_failed").
			Msg("journey script reload failed, keeping current script")
		return fmt.Errorf("reload: %w", err)
	}

	e.mu.Lock()
	e.script = s
	e.mu.Unlock()

	e.logger.Info().
		Str(log.FieldEvent, "engine.reload_success").
		Strs("journeys", s.JourneyNames()).
		Msg("journey script reloaded")
	return nil
}

// JourneyNames lists the journeys of the current script, nil before
// Initialize.
func (e *Engine) JourneyNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.script == nil {
		return nil
	}
	return e.script.JourneyNames()
}

// StartWatcher reloads the script whenever its file changes, until ctx is
// cancelled. The directory is watched so editors that replace the file by
// rename are seen too.
func (e *Engine) StartWatcher(ctx context.Context) error {
	if e.path == "" {
		e.logger.Info().Str(log.FieldEvent, "engine.watcher_disabled").Msg("no script file to watch")
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	target := filepath.Clean(e.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch script directory: %w", err)
	}

	e.watchDone = make(chan struct{})
	e.logger.Info().
		Str(log.FieldEvent, "engine.watcher_started").
		Str("path", target).
		Msg("watching journey script for changes")

	go e.watchLoop(ctx, watcher, target)
	return nil
}

func (e *Engine) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string) {
	defer close(e.watchDone)
	defer func() { _ = watcher.Close() }()

	debounce := e.debounce
	if debounce <= 0 {
		debounce = defaultReloadDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Str(log.FieldEvent, "engine.watcher_stopped").Msg("journey script watcher stopped")
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				e.logger.Debug().
					Str(log.FieldEvent, "engine.script_changed").
					Str("op", ev.Op.String()).
					Msg("journey script changed")
				timer.Reset(debounce)
			}

		case <-timer.C:
			_ = e.Reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error().Err(err).Str(log.FieldEvent, "engine.watcher_error").Msg("journey script watcher error")
		}
	}
}
