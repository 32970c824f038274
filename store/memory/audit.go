package memory

import (
	"context"
	"sync"
	"time"

	staffauth "github.com/staffdesk/staffauth"
)

// AuditStore defines a public type used by staffauth APIs.
//
// AuditStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditStore struct {
	mu       sync.Mutex
	events   []staffauth.AuditEvent
	archived []staffauth.AuditEvent
}

// NewAuditStore describes the newauditstore operation and its observable behavior.
//
// NewAuditStore may return an error when input validation, dependency calls, or security checks fail.
// NewAuditStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

// Append describes the append operation and its observable behavior.
//
// Append may return an error when input validation, dependency calls, or security checks fail.
// Append does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *AuditStore) Append(_ context.Context, event staffauth.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
	return nil
}

// Recent describes the recent operation and its observable behavior.
//
// Recent may return an error when input validation, dependency calls, or security checks fail.
// Recent does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *AuditStore) Recent(_ context.Context, limit int) ([]staffauth.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || len(s.events) == 0 {
		return nil, nil
	}

	out := make([]staffauth.AuditEvent, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

// Archive describes the archive operation and its observable behavior.
//
// Archive may return an error when input validation, dependency calls, or security checks fail.
// Archive does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *AuditStore) Archive(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	moved := 0
	for _, event := range s.events {
		if event.Timestamp.Before(cutoff) {
			s.archived = append(s.archived, event)
			moved++
			continue
		}
		kept = append(kept, event)
	}
	s.events = kept

	return moved, nil
}

// Archived returns a snapshot of the archived partition, oldest first.
func (s *AuditStore) Archived() []staffauth.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]staffauth.AuditEvent(nil), s.archived...)
}
