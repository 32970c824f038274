package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	staffauth "github.com/staffdesk/staffauth"
)

// Schema is the DDL the adapters expect. It is exported for the hosting
// application's migration tooling; the package never executes it itself.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id               TEXT PRIMARY KEY,
    username              TEXT NOT NULL,
    password_hash         TEXT NOT NULL,
    full_name             TEXT NOT NULL DEFAULT '',
    role                  TEXT NOT NULL,
    status                SMALLINT NOT NULL DEFAULT 0,
    created_at            TIMESTAMPTZ NOT NULL,
    failed_attempts       INTEGER NOT NULL DEFAULT 0,
    last_failed_at        TIMESTAMPTZ,
    locked_until          TIMESTAMPTZ,
    password_history      TEXT[] NOT NULL DEFAULT '{}',
    force_password_change BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower ON users (lower(username));

CREATE TABLE IF NOT EXISTS audit_trail (
    audit_id    TEXT PRIMARY KEY,
    timestamp   TIMESTAMPTZ NOT NULL,
    actor       TEXT NOT NULL,
    action      TEXT NOT NULL,
    target_type TEXT NOT NULL DEFAULT '',
    target_name TEXT NOT NULL DEFAULT '',
    details     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_trail_ts ON audit_trail (timestamp DESC);

CREATE TABLE IF NOT EXISTS audit_trail_archive (
    LIKE audit_trail INCLUDING ALL
);
`

// uniqueViolation is the pq error code for a unique constraint breach.
const uniqueViolation = "23505"

type userRow struct {
	UserID              string         `db:"user_id"`
	Username            string         `db:"username"`
	PasswordHash        string         `db:"password_hash"`
	FullName            string         `db:"full_name"`
	Role                string         `db:"role"`
	Status              int16          `db:"status"`
	CreatedAt           time.Time      `db:"created_at"`
	FailedAttempts      int            `db:"failed_attempts"`
	LastFailedAt        *time.Time     `db:"last_failed_at"`
	LockedUntil         *time.Time     `db:"locked_until"`
	PasswordHistory     pq.StringArray `db:"password_history"`
	ForcePasswordChange bool           `db:"force_password_change"`
}

func (r userRow) account() *staffauth.UserAccount {
	return &staffauth.UserAccount{
		UserID:              r.UserID,
		Username:            r.Username,
		PasswordHash:        r.PasswordHash,
		FullName:            r.FullName,
		Role:                staffauth.Role(r.Role),
		Status:              staffauth.AccountStatus(r.Status),
		CreatedAt:           r.CreatedAt,
		FailedAttempts:      r.FailedAttempts,
		LastFailedAt:        r.LastFailedAt,
		LockedUntil:         r.LockedUntil,
		PasswordHistory:     append([]string(nil), r.PasswordHistory...),
		ForcePasswordChange: r.ForcePasswordChange,
	}
}

// UserProvider defines a public type used by staffauth APIs.
//
// UserProvider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserProvider struct {
	db *sqlx.DB
}

// NewUserProvider describes the newuserprovider operation and its observable behavior.
//
// NewUserProvider may return an error when input validation, dependency calls, or security checks fail.
// NewUserProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewUserProvider(db *sqlx.DB) *UserProvider {
	return &UserProvider{db: db}
}

// GetUserByUsername describes the get user by username operation and its observable behavior.
//
// GetUserByUsername may return an error when input validation, dependency calls, or security checks fail.
// GetUserByUsername does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) GetUserByUsername(ctx context.Context, username string) (*staffauth.UserAccount, error) {
	const q = `
		SELECT user_id, username, password_hash, full_name, role, status,
		       created_at, failed_attempts, last_failed_at, locked_until,
		       password_history, force_password_change
		FROM users
		WHERE lower(username) = lower($1)
	`

	var row userRow
	if err := p.db.GetContext(ctx, &row, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, staffauth.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}

	return row.account(), nil
}

// CreateUser describes the create user operation and its observable behavior.
//
// CreateUser may return an error when input validation, dependency calls, or security checks fail.
// CreateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) CreateUser(ctx context.Context, input staffauth.CreateUserInput) (*staffauth.UserAccount, error) {
	const q = `
		INSERT INTO users
		(user_id, username, password_hash, full_name, role, status,
		 created_at, password_history, force_password_change)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`

	_, err := p.db.ExecContext(ctx, q,
		input.UserID,
		input.Username,
		input.PasswordHash,
		input.FullName,
		string(input.Role),
		int16(input.Status),
		input.CreatedAt,
		pq.StringArray(input.PasswordHistory),
		input.ForcePasswordChange,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, staffauth.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}

	return &staffauth.UserAccount{
		UserID:              input.UserID,
		Username:            input.Username,
		PasswordHash:        input.PasswordHash,
		FullName:            input.FullName,
		Role:                input.Role,
		Status:              input.Status,
		CreatedAt:           input.CreatedAt,
		PasswordHistory:     append([]string(nil), input.PasswordHistory...),
		ForcePasswordChange: input.ForcePasswordChange,
	}, nil
}

// UpdateLoginState describes the update login state operation and its observable behavior.
//
// UpdateLoginState may return an error when input validation, dependency calls, or security checks fail.
// UpdateLoginState does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) UpdateLoginState(ctx context.Context, userID string, state staffauth.LoginStateUpdate) error {
	const q = `
		UPDATE users
		SET failed_attempts = $2, last_failed_at = $3, locked_until = $4
		WHERE user_id = $1
	`
	return p.exec(ctx, q, userID, state.FailedAttempts, state.LastFailedAt, state.LockedUntil)
}

// UpdatePassword describes the update password operation and its observable behavior.
//
// UpdatePassword may return an error when input validation, dependency calls, or security checks fail.
// UpdatePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) UpdatePassword(ctx context.Context, userID string, newHash string, history []string, forceChange bool) error {
	const q = `
		UPDATE users
		SET password_hash = $2, password_history = $3, force_password_change = $4
		WHERE user_id = $1
	`
	return p.exec(ctx, q, userID, newHash, pq.StringArray(history), forceChange)
}

// UpdateAccountStatus describes the update account status operation and its observable behavior.
//
// UpdateAccountStatus may return an error when input validation, dependency calls, or security checks fail.
// UpdateAccountStatus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) UpdateAccountStatus(ctx context.Context, userID string, status staffauth.AccountStatus) error {
	const q = `UPDATE users SET status = $2 WHERE user_id = $1`
	return p.exec(ctx, q, userID, int16(status))
}

// UpdateAccountRole describes the update account role operation and its observable behavior.
//
// UpdateAccountRole may return an error when input validation, dependency calls, or security checks fail.
// UpdateAccountRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) UpdateAccountRole(ctx context.Context, userID string, role staffauth.Role) error {
	const q = `UPDATE users SET role = $2 WHERE user_id = $1`
	return p.exec(ctx, q, userID, string(role))
}

// ListUsers returns every account ordered by username. Intended for
// administrative listings; it does not page.
func (p *UserProvider) ListUsers(ctx context.Context) ([]staffauth.UserAccount, error) {
	const q = `
		SELECT user_id, username, password_hash, full_name, role, status,
		       created_at, failed_attempts, last_failed_at, locked_until,
		       password_history, force_password_change
		FROM users
		ORDER BY lower(username)
	`

	var rows []userRow
	if err := p.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}

	out := make([]staffauth.UserAccount, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.account())
	}
	return out, nil
}

func (p *UserProvider) exec(ctx context.Context, query string, args ...any) error {
	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", staffauth.ErrStoreUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return staffauth.ErrUserNotFound
	}
	return nil
}
