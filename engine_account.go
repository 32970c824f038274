package staffauth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/staffdesk/staffauth/password"
)

// CreateAccount describes the createaccount operation and its observable behavior.
//
// CreateAccount may return an error when input validation, dependency calls, or security checks fail.
// CreateAccount does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Usernames are normalized to lower case before storage, so uniqueness is
// case-insensitive. The initial hash seeds the password history.
func (e *Engine) CreateAccount(ctx context.Context, req CreateAccountRequest) (*UserAccount, error) {
	if e == nil || e.users == nil || e.passwordHash == nil {
		return nil, ErrEngineNotReady
	}

	username := NormalizeUsername(req.Username)
	if username == "" || len(username) > e.config.Validation.MaxUsernameLength {
		return nil, ErrAccountCreationInvalid
	}

	role := req.Role
	if role == "" {
		role = e.config.Account.DefaultRole
	}
	if !role.Valid() {
		return nil, ErrRoleInvalid
	}

	if err := password.ValidatePolicy(req.Password, e.config.Password.MinLength, e.config.Validation.MaxPasswordLength); err != nil {
		return nil, errors.Join(ErrPasswordPolicy, err)
	}

	hash, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		return nil, ErrPasswordPolicy
	}

	created, err := e.users.CreateUser(ctx, CreateUserInput{
		UserID:              uuid.NewString(),
		Username:            username,
		PasswordHash:        hash,
		FullName:            req.FullName,
		Role:                role,
		Status:              AccountActive,
		CreatedAt:           e.clock.Now(),
		PasswordHistory:     []string{hash},
		ForcePasswordChange: req.ForcePasswordChange,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, ErrStoreUnavailable
	}

	return created, nil
}

// EnsureDefaultAdmin provisions the bootstrap administrator when no
// account with the given username exists. The account is created with
// ForcePasswordChange set so the seed credential cannot linger. Returns
// the existing account unchanged when it is already present.
func (e *Engine) EnsureDefaultAdmin(ctx context.Context, username, pass string) (*UserAccount, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	existing, err := e.users.GetUserByUsername(ctx, NormalizeUsername(username))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, ErrStoreUnavailable
	}

	return e.CreateAccount(ctx, CreateAccountRequest{
		Username:            username,
		Password:            pass,
		FullName:            "Administrator",
		Role:                RoleAdmin,
		ForcePasswordChange: true,
	})
}

// SetAccountStatus describes the setaccountstatus operation and its observable behavior.
//
// SetAccountStatus may return an error when input validation, dependency calls, or security checks fail.
// SetAccountStatus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Re-activating an account also clears its lockout counters, so an admin
// enable doubles as a manual unlock.
func (e *Engine) SetAccountStatus(ctx context.Context, username string, status AccountStatus) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}

	user, err := e.users.GetUserByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrStoreUnavailable
	}

	if err := e.users.UpdateAccountStatus(ctx, user.UserID, status); err != nil {
		return ErrStoreUnavailable
	}

	if status == AccountActive {
		if err := e.persistLoginState(ctx, user.UserID, e.lockout.Reset()); err != nil {
			return ErrStoreUnavailable
		}
	}

	return nil
}

// SetAccountRole describes the setaccountrole operation and its observable behavior.
//
// SetAccountRole may return an error when input validation, dependency calls, or security checks fail.
// SetAccountRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SetAccountRole(ctx context.Context, username string, role Role) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}
	if !role.Valid() {
		return ErrRoleInvalid
	}

	user, err := e.users.GetUserByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrStoreUnavailable
	}

	if err := e.users.UpdateAccountRole(ctx, user.UserID, role); err != nil {
		return ErrStoreUnavailable
	}
	return nil
}
