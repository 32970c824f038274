package staffauth

import (
	"context"
	"log"
	"time"

	"github.com/staffdesk/staffauth/internal"
	"github.com/staffdesk/staffauth/session"
)

// Session is the cached proof of authentication returned by
// [Engine.ValidateSession].
type Session = session.Session

func (e *Engine) issueTokens(ctx context.Context, username string, now time.Time) (string, string, error) {
	sessionToken, err := internal.NewToken()
	if err != nil {
		return "", "", err
	}

	sess := &session.Session{
		Username: username,
		IssuedAt: now,
	}
	if err := e.sessions.SaveSession(ctx, sessionToken, sess, e.config.Session.TTL); err != nil {
		return "", "", err
	}

	csrfToken, err := e.issueCSRF(ctx, username)
	if err != nil {
		// Roll back the half-issued session so a retry starts clean.
		_ = e.sessions.DeleteSession(ctx, sessionToken)
		return "", "", err
	}

	return sessionToken, csrfToken, nil
}

func (e *Engine) issueCSRF(ctx context.Context, username string) (string, error) {
	token, err := internal.NewToken()
	if err != nil {
		return "", err
	}
	if err := e.sessions.SaveCSRF(ctx, username, token, e.config.CSRF.TTL); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateSession looks up a session token in the cache. Absent, expired,
// and malformed tokens all read as not-found, as do cache outages; the
// caller only ever learns valid or not.
func (e *Engine) ValidateSession(ctx context.Context, token string) (*Session, bool) {
	if e == nil || e.sessions == nil || token == "" {
		return nil, false
	}

	sess, err := e.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, false
	}
	return sess, true
}

// ValidateCSRF reports whether the supplied token matches the single live
// CSRF value for the user. Missing, expired, superseded, and mismatched
// tokens all read as false, as do cache outages.
func (e *Engine) ValidateCSRF(ctx context.Context, username, token string) bool {
	if e == nil || e.sessions == nil || username == "" || token == "" {
		return false
	}

	ok, err := e.sessions.CompareCSRF(ctx, NormalizeUsername(username), token)
	if err != nil {
		return false
	}
	return ok
}

// InvalidateSession removes a session token eagerly (logout). Idempotent:
// invalidating an absent or unknown token is a no-op, and cache outages
// are logged rather than surfaced since the token will lapse via TTL anyway.
func (e *Engine) InvalidateSession(ctx context.Context, token string) {
	if e == nil || e.sessions == nil || token == "" {
		return
	}

	if err := e.sessions.DeleteSession(ctx, token); err != nil {
		log.Print("staffauth: session invalidation failed, token will expire via TTL")
	}
}
