package staffauth

import (
	"context"
	"errors"
	"log"

	"github.com/staffdesk/staffauth/password"
)

// HashPassword produces a storable digest for provisioning and password
// change flows.
func (e *Engine) HashPassword(pass string) (string, error) {
	if e == nil || e.passwordHash == nil {
		return "", ErrEngineNotReady
	}
	return e.passwordHash.Hash(pass)
}

// VerifyPassword reports whether the password matches the stored digest.
// Malformed digests read as a mismatch.
func (e *Engine) VerifyPassword(pass, digest string) bool {
	if e == nil || e.passwordHash == nil {
		return false
	}
	ok, err := e.passwordHash.Verify(pass, digest)
	if err != nil {
		return false
	}
	return ok
}

// ChangePassword describes the changepassword operation and its observable behavior.
//
// ChangePassword may return an error when input validation, dependency calls, or security checks fail.
// ChangePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The new password must satisfy the character-class policy and must not
// match any of the last [Config.Password.HistoryCount] hashes, the
// current one included. A successful change pushes the new hash onto the
// history front (evicting the oldest entry on overflow), clears the
// force-change flag, and revokes the user's live CSRF token.
func (e *Engine) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if e == nil || e.users == nil || e.passwordHash == nil {
		return ErrEngineNotReady
	}
	if username == "" || oldPassword == "" || newPassword == "" {
		return ErrPasswordPolicy
	}

	user, err := e.users.GetUserByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrStoreUnavailable
	}
	if user.Status != AccountActive {
		return ErrAccountInactive
	}

	oldOK, err := e.passwordHash.Verify(oldPassword, user.PasswordHash)
	if err != nil || !oldOK {
		return ErrInvalidCredentials
	}

	if err := password.ValidatePolicy(newPassword, e.config.Password.MinLength, e.config.Validation.MaxPasswordLength); err != nil {
		return errors.Join(ErrPasswordPolicy, err)
	}

	if e.hashInHistory(newPassword, user.PasswordHistory) {
		return ErrPasswordReuse
	}

	newHash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		return ErrPasswordPolicy
	}

	history := pushHistory(user.PasswordHistory, newHash, e.config.Password.HistoryCount)
	if err := e.users.UpdatePassword(ctx, user.UserID, newHash, history, false); err != nil {
		return ErrStoreUnavailable
	}

	// CSRF revocation is best-effort; the token lapses via TTL regardless.
	if e.sessions != nil {
		if err := e.sessions.DeleteCSRF(ctx, user.Username); err != nil {
			log.Print("staffauth: csrf revocation failed after password change")
		}
	}

	return nil
}

// hashInHistory checks the candidate against the retained hashes. The
// history is bounded, so verifying against each entry is acceptable even
// for the salted scheme.
func (e *Engine) hashInHistory(candidate string, history []string) bool {
	limit := e.config.Password.HistoryCount
	if limit > len(history) {
		limit = len(history)
	}

	for _, h := range history[:limit] {
		ok, err := e.passwordHash.Verify(candidate, h)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// pushHistory prepends the new hash and evicts the oldest entries beyond
// the configured count. history[0] is always the current hash.
func pushHistory(history []string, newHash string, count int) []string {
	out := make([]string, 0, len(history)+1)
	out = append(out, newHash)
	out = append(out, history...)
	if count > 0 && len(out) > count {
		out = out[:count]
	}
	return out
}
