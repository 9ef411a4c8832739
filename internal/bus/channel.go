// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Package bus delivers journey response events to a single registered
// listener.
package bus

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tsido/idobridge/internal/dispatch"
	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/log"
	"github.com/tsido/idobridge/internal/metrics"
)

const (
	DropNoListener  = "no_listener"
	DropQueueClosed = "queue_closed"
)

const dropLogEvery = 100

// Listener consumes delivered events. It runs on the channel's queue.
type Listener func(model.ResponseEvent)

// Channel is a single-slot event channel. Publish may be called from any
// goroutine; events reach the listener in publish order through the queue.
//
// The listener is read when an event runs on the queue, not when it is
// published. Once SetListener returns, no delivery that has not already
// started will reach the replaced listener.
type Channel struct {
	mu       sync.Mutex
	listener Listener

	pubMu    sync.Mutex
	pending  []model.ResponseEvent
	draining bool
	queue    dispatch.Queue
	seq      atomic.Uint64
	drops    atomic.Uint64

	logger zerolog.Logger
}

// New returns a channel delivering on queue. A nil queue delivers inline.
func New(queue dispatch.Queue) *Channel {
	if queue == nil {
		queue = dispatch.Inline{}
	}
	return &Channel{
		queue:  queue,
		logger: log.WithComponent("bus"),
	}
}

// SetListener replaces the listener slot. A nil listener clears it.
func (c *Channel) SetListener(l Listener) {
	c.mu.Lock()
	replaced := c.listener != nil
	c.listener = l
	c.mu.Unlock()

	c.logger.Debug().
		Str(log.FieldEvent, "bus.listener_set").
		Bool("replaced", replaced).
		Bool("cleared", l == nil).
		Msg("listener slot updated")
}

// HasListener reports whether a listener is registered.
func (c *Channel) HasListener() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener != nil
}

// Publish stamps ev with the next sequence number and hands it to the queue.
// The only error is a closed queue, in which case the event is dropped.
//
// With an Inline queue delivery happens on the publishing goroutine, so a
// listener may publish again and see the nested event delivered first.
// Other queues are fed in sequence order by whichever publisher is already
// handing events over; a publish made while that is in progress (including
// from a listener run synchronously by a Func host) is queued behind it and
// returns at once.
func (c *Channel) Publish(ev model.ResponseEvent) (uint64, error) {
	metrics.RecordEventPublished(ev.Kind.String())
	if _, inline := c.queue.(dispatch.Inline); inline {
		ev.Seq = c.seq.Add(1)
		c.deliver(ev)
		return ev.Seq, nil
	}

	c.pubMu.Lock()
	ev.Seq = c.seq.Add(1)
	c.pending = append(c.pending, ev)
	if c.draining {
		c.pubMu.Unlock()
		return ev.Seq, nil
	}
	c.draining = true

	var own error
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.pubMu.Unlock()

		if err := c.queue.Dispatch(func() { c.deliver(next) }); err != nil {
			c.drop(next, DropQueueClosed)
			if next.Seq == ev.Seq {
				own = err
			}
		}
		c.pubMu.Lock()
	}
	c.pending = nil
	c.draining = false
	c.pubMu.Unlock()
	return ev.Seq, own
}

func (c *Channel) deliver(ev model.ResponseEvent) {
	c.mu.Lock()
	l := c.listener
	c.mu.Unlock()

	if l == nil {
		c.drop(ev, DropNoListener)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			metrics.IncListenerPanic()
			c.logger.Error().
				Str(log.FieldEvent, "bus.listener_panic").
				Uint64(log.FieldSequence, ev.Seq).
				Str(log.FieldCorrelationID, ev.CorrelationID).
				Interface("panic", r).
				Msg("listener panicked")
		}
	}()
	l(ev)
	metrics.RecordEventDelivered(ev.Kind.String())
}

func (c *Channel) drop(ev model.ResponseEvent, reason string) {
	metrics.RecordEventDropped(ev.Kind.String(), reason)
	count := c.drops.Add(1)

	e := c.logger.Debug()
	if count == 1 || count%dropLogEvery == 0 {
		e = c.logger.Warn()
	}
	e.Str(log.FieldEvent, "bus.dropped").
		Str("reason", reason).
		Str(log.FieldEventKind, ev.Kind.String()).
		Uint64(log.FieldSequence, ev.Seq).
		Str(log.FieldCorrelationID, ev.CorrelationID).
		Uint64("dropped", count).
		Msg("journey event dropped")
}

// Dropped returns the number of events dropped so far.
func (c *Channel) Dropped() uint64 {
	return c.drops.Load()
}
