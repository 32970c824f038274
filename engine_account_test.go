package staffauth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCreateAccountSuccess(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)

	created, err := engine.CreateAccount(context.Background(), CreateAccountRequest{
		Username: "Bob",
		Password: "Sunny1Day",
		FullName: "Bob Example",
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if created.UserID == "" {
		t.Fatal("expected a generated user id")
	}
	if created.Username != "bob" {
		t.Fatalf("username = %q, want lower-cased %q", created.Username, "bob")
	}
	if created.Role != RoleViewer {
		t.Fatalf("role = %q, want default %q", created.Role, RoleViewer)
	}
	if len(created.PasswordHistory) != 1 || created.PasswordHistory[0] != created.PasswordHash {
		t.Fatal("initial hash must seed the password history")
	}
}

func TestCreateAccountDuplicateUsernameCaseInsensitive(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	_, err := engine.CreateAccount(context.Background(), CreateAccountRequest{
		Username: "ALICE",
		Password: "Sunny1Day",
	})
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	engine, _, _, _ := newLoginEngine(t)

	if _, err := engine.CreateAccount(context.Background(), CreateAccountRequest{
		Username: "",
		Password: "Sunny1Day",
	}); !errors.Is(err, ErrAccountCreationInvalid) {
		t.Fatalf("empty username: expected ErrAccountCreationInvalid, got %v", err)
	}

	if _, err := engine.CreateAccount(context.Background(), CreateAccountRequest{
		Username: strings.Repeat("a", 51),
		Password: "Sunny1Day",
	}); !errors.Is(err, ErrAccountCreationInvalid) {
		t.Fatalf("oversized username: expected ErrAccountCreationInvalid, got %v", err)
	}

	if _, err := engine.CreateAccount(context.Background(), CreateAccountRequest{
		Username: "carol",
		Password: "weak",
	}); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("weak password: expected ErrPasswordPolicy, got %v", err)
	}

	if _, err := engine.CreateAccount(context.Background(), CreateAccountRequest{
		Username: "carol",
		Password: "Sunny1Day",
		Role:     Role("Owner"),
	}); !errors.Is(err, ErrRoleInvalid) {
		t.Fatalf("unknown role: expected ErrRoleInvalid, got %v", err)
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	engine, up, _, _ := newLoginEngine(t)

	admin, err := engine.EnsureDefaultAdmin(context.Background(), "admin", "ChangeMe123")
	if err != nil {
		t.Fatalf("EnsureDefaultAdmin failed: %v", err)
	}
	if admin.Role != RoleAdmin {
		t.Fatalf("role = %q, want %q", admin.Role, RoleAdmin)
	}
	if !admin.ForcePasswordChange {
		t.Fatal("seed admin must require a password change")
	}

	// A second call returns the existing account untouched.
	up.get(t, "admin").FullName = "Renamed"
	again, err := engine.EnsureDefaultAdmin(context.Background(), "admin", "Different1Pw")
	if err != nil {
		t.Fatalf("second EnsureDefaultAdmin failed: %v", err)
	}
	if again.FullName != "Renamed" {
		t.Fatal("existing admin must be returned unchanged")
	}
	if res := engine.Authenticate(context.Background(), "admin", "Different1Pw"); res.Success {
		t.Fatal("second seed password must not overwrite the credential")
	}
}

func TestSetAccountStatusClearsLockoutOnReactivation(t *testing.T) {
	engine, up, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	for i := 0; i < 5; i++ {
		engine.Authenticate(context.Background(), "alice", "wrong-pass")
	}
	if up.get(t, "alice").LockedUntil == nil {
		t.Fatal("expected account to be locked")
	}

	if err := engine.SetAccountStatus(context.Background(), "alice", AccountInactive); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if err := engine.SetAccountStatus(context.Background(), "alice", AccountActive); err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}

	user := up.get(t, "alice")
	if user.FailedAttempts != 0 || user.LockedUntil != nil {
		t.Fatal("reactivation must clear the lockout counters")
	}

	if res := engine.Authenticate(context.Background(), "alice", "Sunny1Day"); !res.Success {
		t.Fatalf("login after reactivation failed: %q", res.Message)
	}
}

func TestSetAccountRole(t *testing.T) {
	engine, up, _, _ := newLoginEngine(t)
	seedUser(t, engine, "alice", "Sunny1Day")

	if err := engine.SetAccountRole(context.Background(), "alice", RoleAdmin); err != nil {
		t.Fatalf("SetAccountRole failed: %v", err)
	}
	if got := up.get(t, "alice").Role; got != RoleAdmin {
		t.Fatalf("role = %q, want %q", got, RoleAdmin)
	}

	if err := engine.SetAccountRole(context.Background(), "alice", Role("Owner")); !errors.Is(err, ErrRoleInvalid) {
		t.Fatalf("expected ErrRoleInvalid, got %v", err)
	}
	if err := engine.SetAccountRole(context.Background(), "ghost", RoleAdmin); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
