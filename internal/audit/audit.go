package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event is the canonical audit record model used by internal dispatching,
// the audit stores, and root APIs. Events are immutable once created:
// they are appended, queried newest-first, and eventually archived, but
// never updated or deleted.
//
// Action is free-form; the conventional values are Login, Add, Update,
// Delete, Violation, and Accomplishment.
type Event struct {
	AuditID    string    `json:"audit_id" db:"audit_id"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
	Actor      string    `json:"actor" db:"actor"`
	Action     string    `json:"action" db:"action"`
	TargetType string    `json:"target_type,omitempty" db:"target_type"`
	TargetName string    `json:"target_name,omitempty" db:"target_name"`
	Details    string    `json:"details,omitempty" db:"details"`
}

// Sink receives emitted audit events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink writes audit events into a buffered channel.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
