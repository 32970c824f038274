package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	staffauth "github.com/staffdesk/staffauth"
)

// AuditStore defines a public type used by staffauth APIs.
//
// AuditStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditStore struct {
	db *sqlx.DB
}

// NewAuditStore describes the newauditstore operation and its observable behavior.
//
// NewAuditStore may return an error when input validation, dependency calls, or security checks fail.
// NewAuditStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewAuditStore(db *sqlx.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Append describes the append operation and its observable behavior.
//
// Append may return an error when input validation, dependency calls, or security checks fail.
// Append does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *AuditStore) Append(ctx context.Context, event staffauth.AuditEvent) error {
	const q = `
		INSERT INTO audit_trail
		(audit_id, timestamp, actor, action, target_type, target_name, details)
		VALUES (:audit_id, :timestamp, :actor, :action, :target_type, :target_name, :details)
	`
	if _, err := s.db.NamedExecContext(ctx, q, event); err != nil {
		return fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}
	return nil
}

// Recent describes the recent operation and its observable behavior.
//
// Recent may return an error when input validation, dependency calls, or security checks fail.
// Recent does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]staffauth.AuditEvent, error) {
	if limit <= 0 {
		return nil, nil
	}

	const q = `
		SELECT audit_id, timestamp, actor, action, target_type, target_name, details
		FROM audit_trail
		ORDER BY timestamp DESC, audit_id DESC
		LIMIT $1
	`

	var events []staffauth.AuditEvent
	if err := s.db.SelectContext(ctx, &events, q, limit); err != nil {
		return nil, fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}
	return events, nil
}

// Archive describes the archive operation and its observable behavior.
//
// Archive may return an error when input validation, dependency calls, or security checks fail.
// Archive does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *AuditStore) Archive(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	const move = `
		INSERT INTO audit_trail_archive
		SELECT * FROM audit_trail WHERE timestamp < $1
	`
	if _, err := tx.ExecContext(ctx, move, cutoff); err != nil {
		return 0, fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}

	const remove = `DELETE FROM audit_trail WHERE timestamp < $1`
	res, err := tx.ExecContext(ctx, remove, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}

	moved, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}

	return int(moved), nil
}
