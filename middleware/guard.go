package middleware

import (
	"context"
	"net/http"
	"strings"

	staffauth "github.com/staffdesk/staffauth"
)

// SessionCookieName is the cookie consulted when no Authorization header
// is present.
const SessionCookieName = "staffdesk_session"

// Principal is the authenticated identity injected into the request
// context by [SessionGuard].
type Principal struct {
	Username     string
	SessionToken string
}

type principalContextKey struct{}

// PrincipalFromContext describes the principal from context operation and its observable behavior.
//
// PrincipalFromContext may return an error when input validation, dependency calls, or security checks fail.
// PrincipalFromContext does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	return p, ok
}

// SessionGuard describes the session guard operation and its observable behavior.
//
// SessionGuard may return an error when input validation, dependency calls, or security checks fail.
// SessionGuard does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func SessionGuard(engine *staffauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := requestToken(r)
			if !ok {
				reject(w, r, engine, "missing session token")
				return
			}

			session, valid := engine.ValidateSession(r.Context(), token)
			if !valid {
				reject(w, r, engine, "invalid or expired session token")
				return
			}

			principal := &Principal{
				Username:     session.Username,
				SessionToken: token,
			}
			ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CSRFGuard describes the csrf guard operation and its observable behavior.
//
// CSRFGuard may return an error when input validation, dependency calls, or security checks fail.
// CSRFGuard does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CSRFGuard(engine *staffauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			principal, ok := PrincipalFromContext(r.Context())
			if !ok || engine == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			token := r.Header.Get("X-CSRF-Token")
			if token == "" || !engine.ValidateCSRF(r.Context(), principal.Username, token) {
				engine.RecordAuditEvent(r.Context(), principal.Username, staffauth.ActionViolation,
					"Request", r.URL.Path, "rejected mutating request with missing or invalid CSRF token")
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, engine *staffauth.Engine, reason string) {
	engine.RecordAuditEvent(r.Context(), "", staffauth.ActionViolation,
		"Request", r.URL.Path, reason)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// requestToken prefers the Authorization bearer header; browser callers
// fall back to the session cookie.
func requestToken(r *http.Request) (string, bool) {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}
