package staffauth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/staffdesk/staffauth/internal/lockout"
	"github.com/staffdesk/staffauth/password"
	"github.com/staffdesk/staffauth/session"
)

// Engine defines a public type used by staffauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	users        UserProvider
	sessions     *session.Store
	lockout      lockout.Policy
	passwordHash password.Hasher
	auditStore   AuditStore
	audit        *auditDispatcher
	storeSink    *storeSink
	clock        Clock
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events the dispatcher discarded
// because its buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// AuditStoreFailures reports how many audit events failed to persist.
// Such failures never affect the operation being audited; this counter is
// the observable side channel for them.
func (e *Engine) AuditStoreFailures() uint64 {
	if e == nil || e.storeSink == nil {
		return 0
	}
	return e.storeSink.Failures()
}

/*
====================================
USER-FACING MESSAGES
====================================
*/

const (
	msgInvalidCredentials = "Invalid username or password."
	msgAccountInactive    = "Account is inactive. Contact your administrator."
	msgAuthUnavailable    = "Authentication failed. Please try again."
	msgSessionUnavailable = "Sign-in succeeded but a session could not be established. Please try again."
)

func attemptsMessage(remaining int) string {
	if remaining == 1 {
		return msgInvalidCredentials + " 1 attempt remaining."
	}
	return fmt.Sprintf("%s %d attempts remaining.", msgInvalidCredentials, remaining)
}

func lockedMessage(minutes int) string {
	if minutes == 1 {
		return "Account locked due to multiple failed login attempts. Try again in 1 minute."
	}
	return fmt.Sprintf("Account locked due to multiple failed login attempts. Try again in %d minutes.", minutes)
}

func failureResult(code LoginCode, message string) LoginResult {
	return LoginResult{Success: false, Code: code, Message: message}
}

// Authenticate runs the login state machine for one credential pair and
// returns the outcome as a value. It never panics or returns an error:
// validation failures, unknown users, and backend outages are all folded
// into the result so the caller can render Message directly.
//
// Validation failures and unknown usernames produce the same generic
// result as a wrong password, so callers cannot be used as an account
// enumeration oracle. Inactive and locked accounts intentionally return
// specific messages.
//
// Authenticate does not write audit events; the calling surface (guard,
// handler, CLI) records the outcome via [Engine.RecordAuditEvent].
func (e *Engine) Authenticate(ctx context.Context, username, pass string) LoginResult {
	if e == nil || e.users == nil || e.passwordHash == nil || e.sessions == nil {
		return failureResult(CodeAuthUnavailable, msgAuthUnavailable)
	}

	if !e.validCredentialInput(username, pass) {
		return failureResult(CodeInvalidCredentials, msgInvalidCredentials)
	}

	user, err := e.users.GetUserByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return failureResult(CodeInvalidCredentials, msgInvalidCredentials)
		}
		log.Print("staffauth: account lookup failed during login")
		return failureResult(CodeAuthUnavailable, msgAuthUnavailable)
	}

	if user.Status != AccountActive {
		return failureResult(CodeAccountInactive, msgAccountInactive)
	}

	now := e.clock.Now()
	state := lockout.State{
		FailedAttempts: user.FailedAttempts,
		LastFailedAt:   user.LastFailedAt,
		LockedUntil:    user.LockedUntil,
	}

	// While locked the password hasher is never invoked and the counters
	// are left untouched.
	if locked, remaining := e.lockout.Locked(state, now); locked {
		minutes := lockout.MinutesRemaining(remaining)
		res := failureResult(CodeAccountLocked, lockedMessage(minutes))
		res.LockedMinutes = minutes
		return res
	}

	ok, verifyErr := e.passwordHash.Verify(pass, user.PasswordHash)
	if verifyErr != nil || !ok {
		next, lockedNow := e.lockout.RecordFailure(state, now)
		if err := e.persistLoginState(ctx, user.UserID, next); err != nil {
			return failureResult(CodeAuthUnavailable, msgAuthUnavailable)
		}

		if lockedNow {
			minutes := lockout.MinutesRemaining(e.config.Lockout.Duration)
			res := failureResult(CodeAccountLocked, lockedMessage(minutes))
			res.LockedMinutes = minutes
			return res
		}

		remaining := e.lockout.AttemptsRemaining(next)
		res := failureResult(CodeInvalidCredentials, attemptsMessage(remaining))
		res.AttemptsRemaining = remaining
		return res
	}

	// Counters are cleared on every successful credential check, including
	// attempts arriving after a lock expired naturally.
	if err := e.persistLoginState(ctx, user.UserID, e.lockout.Reset()); err != nil {
		return failureResult(CodeAuthUnavailable, msgAuthUnavailable)
	}

	sessionToken, csrfToken, err := e.issueTokens(ctx, user.Username, now)
	if err != nil {
		// The credential check passed and the counters are reset; only the
		// token cache failed. Surfaced as a distinct state rather than a
		// success carrying an empty token.
		log.Print("staffauth: token issuance failed after successful credential check")
		return failureResult(CodeSessionUnavailable, msgSessionUnavailable)
	}

	return LoginResult{
		Success:             true,
		Code:                CodeSuccess,
		Username:            user.Username,
		FullName:            user.FullName,
		Role:                user.Role,
		SessionToken:        sessionToken,
		CSRFToken:           csrfToken,
		ForcePasswordChange: user.ForcePasswordChange,
	}
}

func (e *Engine) validCredentialInput(username, pass string) bool {
	if username == "" || pass == "" {
		return false
	}
	if len(username) > e.config.Validation.MaxUsernameLength {
		return false
	}
	if len(pass) > e.config.Validation.MaxPasswordLength {
		return false
	}
	return true
}

func (e *Engine) persistLoginState(ctx context.Context, userID string, state lockout.State) error {
	err := e.users.UpdateLoginState(ctx, userID, LoginStateUpdate{
		FailedAttempts: state.FailedAttempts,
		LastFailedAt:   state.LastFailedAt,
		LockedUntil:    state.LockedUntil,
	})
	if err != nil {
		log.Print("staffauth: login state update failed")
	}
	return err
}

// NormalizeUsername lowers a username for lookup and storage. Uniqueness
// and login lookup share this one normalization, so both are
// case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
