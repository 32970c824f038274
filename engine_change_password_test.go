package staffauth

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestChangePasswordSuccess(t *testing.T) {
	engine, up, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	if err := engine.ChangePassword(context.Background(), "alice", "Sunny1Day", "Rainy2Night"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	res := engine.Authenticate(context.Background(), "alice", "Rainy2Night")
	if !res.Success {
		t.Fatalf("login with new password failed: %q", res.Message)
	}

	old := engine.Authenticate(context.Background(), "alice", "Sunny1Day")
	if old.Success {
		t.Fatal("login with old password must fail after change")
	}

	user := up.get(t, "alice")
	if len(user.PasswordHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(user.PasswordHistory))
	}
	if user.PasswordHistory[0] != user.PasswordHash {
		t.Fatal("history[0] must be the current hash")
	}
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	err := engine.ChangePassword(context.Background(), "alice", "not-the-password", "Rainy2Night")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePasswordPolicyViolation(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	cases := []string{
		"Sh0rt",        // too short
		"alllower1",    // no uppercase
		"ALLUPPER1",    // no lowercase
		"NoDigitsHere", // no digit
	}
	for _, pw := range cases {
		err := engine.ChangePassword(context.Background(), "alice", "Sunny1Day", pw)
		if !errors.Is(err, ErrPasswordPolicy) {
			t.Fatalf("password %q: expected ErrPasswordPolicy, got %v", pw, err)
		}
	}
}

func TestChangePasswordRejectsRecentReuse(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Password0")

	// Reusing the current password is rejected.
	err := engine.ChangePassword(context.Background(), "alice", "Password0", "Password0")
	if !errors.Is(err, ErrPasswordReuse) {
		t.Fatalf("expected ErrPasswordReuse for current password, got %v", err)
	}

	if err := engine.ChangePassword(context.Background(), "alice", "Password0", "Password1"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	// The previous password is still in the history window.
	err = engine.ChangePassword(context.Background(), "alice", "Password1", "Password0")
	if !errors.Is(err, ErrPasswordReuse) {
		t.Fatalf("expected ErrPasswordReuse for prior password, got %v", err)
	}
}

func TestChangePasswordHistoryEviction(t *testing.T) {
	engine, up, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Password0")

	// Five changes push the original hash out of the 5-entry window.
	current := "Password0"
	for i := 1; i <= 5; i++ {
		next := fmt.Sprintf("Password%d", i)
		if err := engine.ChangePassword(context.Background(), "alice", current, next); err != nil {
			t.Fatalf("change %d failed: %v", i, err)
		}
		current = next
	}

	if got := len(up.get(t, "alice").PasswordHistory); got != 5 {
		t.Fatalf("history length = %d, want 5", got)
	}

	// The original password left the window, so it is usable again.
	if err := engine.ChangePassword(context.Background(), "alice", current, "Password0"); err != nil {
		t.Fatalf("expected evicted password to be reusable, got %v", err)
	}
}

func TestChangePasswordInactiveAccount(t *testing.T) {
	engine, up, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")
	up.get(t, "alice").Status = AccountInactive

	err := engine.ChangePassword(context.Background(), "alice", "Sunny1Day", "Rainy2Night")
	if !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestChangePasswordClearsForceFlagAndRevokesCSRF(t *testing.T) {
	engine, up, _, _ := newLoginEngine(t)

	if _, err := engine.EnsureDefaultAdmin(context.Background(), "admin", "ChangeMe123"); err != nil {
		t.Fatalf("EnsureDefaultAdmin failed: %v", err)
	}
	if !up.get(t, "admin").ForcePasswordChange {
		t.Fatal("seed admin must carry the force-change flag")
	}

	res := engine.Authenticate(context.Background(), "admin", "ChangeMe123")
	if !res.Success || !res.ForcePasswordChange {
		t.Fatalf("expected successful login with force flag, got %+v", res)
	}

	if err := engine.ChangePassword(context.Background(), "admin", "ChangeMe123", "Fresh4Start"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if up.get(t, "admin").ForcePasswordChange {
		t.Fatal("force-change flag must clear after a password change")
	}
	if engine.ValidateCSRF(context.Background(), "admin", res.CSRFToken) {
		t.Fatal("CSRF token must be revoked after a password change")
	}
}

func TestChangePasswordUnknownUser(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)

	err := engine.ChangePassword(context.Background(), "ghost", "Sunny1Day", "Rainy2Night")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
