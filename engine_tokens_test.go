package staffauth

import (
	"context"
	"testing"
	"time"
)

func TestValidateSessionUnknownToken(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)

	if _, ok := engine.ValidateSession(context.Background(), "not-a-token"); ok {
		t.Fatal("unknown token must not validate")
	}
	if _, ok := engine.ValidateSession(context.Background(), ""); ok {
		t.Fatal("empty token must not validate")
	}
}

func TestSessionExpiresViaTTL(t *testing.T) {
	engine, _, _, mr := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	res := engine.Authenticate(context.Background(), "alice", "Sunny1Day")
	if !res.Success {
		t.Fatalf("login failed: %q", res.Message)
	}

	if _, ok := engine.ValidateSession(context.Background(), res.SessionToken); !ok {
		t.Fatal("fresh session must validate")
	}

	mr.FastForward(360*time.Minute + time.Second)

	if _, ok := engine.ValidateSession(context.Background(), res.SessionToken); ok {
		t.Fatal("session must expire after its TTL")
	}
}

func TestCSRFExpiresBeforeSession(t *testing.T) {
	engine, _, _, mr := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	res := engine.Authenticate(context.Background(), "alice", "Sunny1Day")
	if !res.Success {
		t.Fatalf("login failed: %q", res.Message)
	}

	mr.FastForward(time.Hour + time.Second)

	if engine.ValidateCSRF(context.Background(), "alice", res.CSRFToken) {
		t.Fatal("CSRF token must expire after one hour")
	}
	if _, ok := engine.ValidateSession(context.Background(), res.SessionToken); !ok {
		t.Fatal("session must outlive the CSRF token")
	}
}

func TestSecondLoginSupersedesCSRF(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	first := engine.Authenticate(context.Background(), "alice", "Sunny1Day")
	second := engine.Authenticate(context.Background(), "alice", "Sunny1Day")
	if !first.Success || !second.Success {
		t.Fatal("both logins should succeed")
	}

	// One live CSRF token per user: the second login replaces the first.
	if engine.ValidateCSRF(context.Background(), "alice", first.CSRFToken) {
		t.Fatal("superseded CSRF token must not validate")
	}
	if !engine.ValidateCSRF(context.Background(), "alice", second.CSRFToken) {
		t.Fatal("current CSRF token must validate")
	}

	// Both session tokens stay valid; sessions are keyed by token.
	if _, ok := engine.ValidateSession(context.Background(), first.SessionToken); !ok {
		t.Fatal("first session must remain valid after a second login")
	}
	if _, ok := engine.ValidateSession(context.Background(), second.SessionToken); !ok {
		t.Fatal("second session must be valid")
	}
}

func TestValidateCSRFCaseInsensitiveUsername(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	res := engine.Authenticate(context.Background(), "alice", "Sunny1Day")
	if !engine.ValidateCSRF(context.Background(), "ALICE", res.CSRFToken) {
		t.Fatal("CSRF lookup must normalize the username")
	}
}

func TestInvalidateSessionIsIdempotent(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	res := engine.Authenticate(context.Background(), "alice", "Sunny1Day")

	engine.InvalidateSession(context.Background(), res.SessionToken)
	if _, ok := engine.ValidateSession(context.Background(), res.SessionToken); ok {
		t.Fatal("invalidated session must not validate")
	}

	// Repeat and unknown-token invalidations are no-ops.
	engine.InvalidateSession(context.Background(), res.SessionToken)
	engine.InvalidateSession(context.Background(), "never-issued")
}

func TestTokensAreUnique(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		res := engine.Authenticate(context.Background(), "alice", "Sunny1Day")
		if !res.Success {
			t.Fatalf("login %d failed: %q", i, res.Message)
		}
		if seen[res.SessionToken] || seen[res.CSRFToken] {
			t.Fatal("token value repeated across issuances")
		}
		seen[res.SessionToken] = true
		seen[res.CSRFToken] = true
	}
}
