// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package api

import (
	"context"
	"sync"
	"time"

	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/value"
)

// EventRecord is a journey event as served by GET /v1/events.
type EventRecord struct {
	Seq           uint64      `json:"seq"`
	Kind          string      `json:"kind"`
	JourneyID     string      `json:"journeyId,omitempty"`
	CorrelationID string      `json:"correlationId,omitempty"`
	Stale         bool        `json:"stale,omitempty"`
	ReceivedAt    time.Time   `json:"receivedAt"`
	Payload       value.Value `json:"payload"`
}

// EventLog keeps the most recent journey events in a ring so HTTP clients
// can poll for them. Its Append method is a bus listener.
type EventLog struct {
	mu      sync.Mutex
	ring    []EventRecord
	next    int
	full    bool
	last    uint64
	changed chan struct{}
	now     func() time.Time
}

// NewEventLog returns a log holding up to capacity events.
func NewEventLog(capacity int) *EventLog {
	if capacity < 1 {
		capacity = 1
	}
	return &EventLog{
		ring:    make([]EventRecord, capacity),
		changed: make(chan struct{}),
		now:     time.Now,
	}
}

// Append records ev and wakes waiting readers.
func (l *EventLog) Append(ev model.ResponseEvent) {
	rec := EventRecord{
		Seq:           ev.Seq,
		Kind:          ev.Kind.String(),
		JourneyID:     ev.JourneyID,
		CorrelationID: ev.CorrelationID,
		Stale:         ev.Stale,
		Payload:       ev.Payload(),
	}

	l.mu.Lock()
	rec.ReceivedAt = l.now()
	l.ring[l.next] = rec
	l.next = (l.next + 1) % len(l.ring)
	if l.next == 0 {
		l.full = true
	}
	if rec.Seq > l.last {
		l.last = rec.Seq
	}
	close(l.changed)
	l.changed = make(chan struct{})
	l.mu.Unlock()
}

// Since returns retained events with Seq greater than after, oldest first.
// truncated reports that events after `after` were already evicted.
func (l *EventLog) Since(after uint64) (events []EventRecord, truncated bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sinceLocked(after)
}

func (l *EventLog) sinceLocked(after uint64) ([]EventRecord, bool) {
	var ordered []EventRecord
	if l.full {
		ordered = append(ordered, l.ring[l.next:]...)
	}
	ordered = append(ordered, l.ring[:l.next]...)

	out := make([]EventRecord, 0, len(ordered))
	for _, rec := range ordered {
		if rec.Seq > after {
			out = append(out, rec)
		}
	}
	truncated := l.full && len(ordered) > 0 && ordered[0].Seq > after+1
	return out, truncated
}

// Wait blocks until an event newer than after exists or ctx ends, then
// returns what Since would.
func (l *EventLog) Wait(ctx context.Context, after uint64) ([]EventRecord, bool) {
	for {
		l.mu.Lock()
		if l.last > after {
			out, truncated := l.sinceLocked(after)
			l.mu.Unlock()
			return out, truncated
		}
		changed := l.changed
		l.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return l.Since(after)
		}
	}
}

// LastSeq is the highest sequence number seen.
func (l *EventLog) LastSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
