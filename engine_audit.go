package staffauth

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Audit action names recorded on the trail. Callers may pass any
// string, but sticking to this vocabulary keeps reporting queries
// simple.
const (
	// ActionLogin is an exported constant or variable used by the authentication engine.
	ActionLogin = "Login"
	// ActionAdd is an exported constant or variable used by the authentication engine.
	ActionAdd = "Add"
	// ActionUpdate is an exported constant or variable used by the authentication engine.
	ActionUpdate = "Update"
	// ActionDelete is an exported constant or variable used by the authentication engine.
	ActionDelete = "Delete"
	// ActionViolation is an exported constant or variable used by the authentication engine.
	ActionViolation = "Violation"
	// ActionAccomplishment is an exported constant or variable used by the authentication engine.
	ActionAccomplishment = "Accomplishment"

	// ActorSystem is an exported constant or variable used by the authentication engine.
	ActorSystem = "System"
)

// RecordAuditEvent describes the record audit event operation and its observable behavior.
//
// RecordAuditEvent may return an error when input validation, dependency calls, or security checks fail.
// RecordAuditEvent does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RecordAuditEvent(ctx context.Context, actor, action, targetType, targetName, details string) {
	if e == nil || e.audit == nil {
		return
	}

	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = ActorSystem
	}

	event := AuditEvent{
		AuditID:    newAuditID(),
		Timestamp:  e.clock.Now().UTC(),
		Actor:      actor,
		Action:     action,
		TargetType: targetType,
		TargetName: targetName,
		Details:    details,
	}

	e.audit.Emit(ctx, event)
}

// RecentAuditEvents describes the recent audit events operation and its observable behavior.
//
// RecentAuditEvents may return an error when input validation, dependency calls, or security checks fail.
// RecentAuditEvents does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RecentAuditEvents(ctx context.Context, limit int) ([]AuditEvent, error) {
	if e == nil || e.auditStore == nil {
		return nil, ErrEngineNotReady
	}
	if limit <= 0 {
		limit = 10
	}
	return e.auditStore.Recent(ctx, limit)
}

// ArchiveAuditEvents describes the archive audit events operation and its observable behavior.
//
// ArchiveAuditEvents may return an error when input validation, dependency calls, or security checks fail.
// ArchiveAuditEvents does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ArchiveAuditEvents(ctx context.Context, retentionDays int) (int, error) {
	if e == nil || e.auditStore == nil {
		return 0, ErrEngineNotReady
	}
	if retentionDays <= 0 {
		retentionDays = e.config.Audit.RetentionDays
	}
	cutoff := e.clock.Now().UTC().AddDate(0, 0, -retentionDays)
	return e.auditStore.Archive(ctx, cutoff)
}

// newAuditID prefers time-ordered UUIDv7 so the trail sorts by ID as
// well as by timestamp. v7 generation can fail only if the entropy
// source does; fall back to random v4 rather than dropping the event.
func newAuditID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
