// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package dispatch schedules listener work on a consumer-chosen execution
// context: a dedicated serial worker, a host run-loop, or the caller.
package dispatch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tsido/idobridge/internal/log"
	"github.com/tsido/idobridge/internal/metrics"
)

// ErrClosed is returned when work is dispatched to a closed queue.
var ErrClosed = errors.New("dispatch queue closed")

// Queue runs submitted functions. Functions submitted from one goroutine run
// in submission order.
type Queue interface {
	Dispatch(fn func()) error
}

// Func adapts a host scheduling primitive (for example a UI thread's Post) to
// a Queue. The host is responsible for ordering. The host may also run fn
// before returning.
type Func func(fn func())

func (f Func) Dispatch(fn func()) error {
	f(fn)
	return nil
}

// Inline runs work synchronously on the dispatching goroutine.
type Inline struct{}

func (Inline) Dispatch(fn func()) error {
	fn()
	return nil
}

// Serial runs work one function at a time on a dedicated goroutine, in
// dispatch order. The backlog is unbounded: Dispatch never blocks and never
// drops work.
type Serial struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// NewSerial starts the worker goroutine. Call Close to stop it.
func NewSerial() *Serial {
	s := &Serial{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Serial) Dispatch(fn func()) error {
	if fn == nil {
		return fmt.Errorf("dispatch: nil func")
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.queue = append(s.queue, fn)
	depth := len(s.queue)
	s.mu.Unlock()

	metrics.SetDispatchQueueDepth(depth)
	s.signal()
	return nil
}

// Pending returns the number of functions waiting to run.
func (s *Serial) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close rejects further work, runs everything already queued and waits for
// the worker to exit. It must not be called from queued work.
func (s *Serial) Close() {
	s.mu.Lock()
	already := s.closed
	s.closed = true
	s.mu.Unlock()
	if !already {
		s.signal()
	}
	<-s.done
}

func (s *Serial) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Serial) run() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 {
			if s.closed {
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()
			<-s.wake
			s.mu.Lock()
		}
		fn := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		depth := len(s.queue)
		s.mu.Unlock()

		metrics.SetDispatchQueueDepth(depth)
		s.exec(fn)
	}
}

func (s *Serial) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger := log.WithComponent("dispatch")
			logger.Error().
				Str(log.FieldEvent, "dispatch.panic").
				Interface("panic", r).
				Msg("queued work panicked")
		}
	}()
	fn()
}

var (
	_ Queue = (*Serial)(nil)
	_ Queue = Func(nil)
	_ Queue = Inline{}
)
