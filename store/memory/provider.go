package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	staffauth "github.com/staffdesk/staffauth"
)

// UserProvider defines a public type used by staffauth APIs.
//
// UserProvider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserProvider struct {
	mu    sync.RWMutex
	users map[string]*staffauth.UserAccount // keyed by lower-cased username
	byID  map[string]*staffauth.UserAccount
}

// NewUserProvider describes the newuserprovider operation and its observable behavior.
//
// NewUserProvider may return an error when input validation, dependency calls, or security checks fail.
// NewUserProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewUserProvider() *UserProvider {
	return &UserProvider{
		users: make(map[string]*staffauth.UserAccount),
		byID:  make(map[string]*staffauth.UserAccount),
	}
}

// GetUserByUsername describes the get user by username operation and its observable behavior.
//
// GetUserByUsername may return an error when input validation, dependency calls, or security checks fail.
// GetUserByUsername does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) GetUserByUsername(_ context.Context, username string) (*staffauth.UserAccount, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	user, ok := p.users[strings.ToLower(username)]
	if !ok {
		return nil, staffauth.ErrUserNotFound
	}
	return copyAccount(user), nil
}

// CreateUser describes the create user operation and its observable behavior.
//
// CreateUser may return an error when input validation, dependency calls, or security checks fail.
// CreateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) CreateUser(_ context.Context, input staffauth.CreateUserInput) (*staffauth.UserAccount, error) {
	key := strings.ToLower(input.Username)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.users[key]; exists {
		return nil, staffauth.ErrDuplicateUsername
	}

	user := &staffauth.UserAccount{
		UserID:              input.UserID,
		Username:            input.Username,
		PasswordHash:        input.PasswordHash,
		FullName:            input.FullName,
		Role:                input.Role,
		Status:              input.Status,
		CreatedAt:           input.CreatedAt,
		PasswordHistory:     append([]string(nil), input.PasswordHistory...),
		ForcePasswordChange: input.ForcePasswordChange,
	}

	p.users[key] = user
	p.byID[user.UserID] = user

	return copyAccount(user), nil
}

// UpdateLoginState describes the update login state operation and its observable behavior.
//
// UpdateLoginState may return an error when input validation, dependency calls, or security checks fail.
// UpdateLoginState does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) UpdateLoginState(_ context.Context, userID string, state staffauth.LoginStateUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.byID[userID]
	if !ok {
		return staffauth.ErrUserNotFound
	}

	user.FailedAttempts = state.FailedAttempts
	user.LastFailedAt = copyTime(state.LastFailedAt)
	user.LockedUntil = copyTime(state.LockedUntil)

	return nil
}

// UpdatePassword describes the update password operation and its observable behavior.
//
// UpdatePassword may return an error when input validation, dependency calls, or security checks fail.
// UpdatePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) UpdatePassword(_ context.Context, userID string, newHash string, history []string, forceChange bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.byID[userID]
	if !ok {
		return staffauth.ErrUserNotFound
	}

	user.PasswordHash = newHash
	user.PasswordHistory = append([]string(nil), history...)
	user.ForcePasswordChange = forceChange

	return nil
}

// UpdateAccountStatus describes the update account status operation and its observable behavior.
//
// UpdateAccountStatus may return an error when input validation, dependency calls, or security checks fail.
// UpdateAccountStatus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) UpdateAccountStatus(_ context.Context, userID string, status staffauth.AccountStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.byID[userID]
	if !ok {
		return staffauth.ErrUserNotFound
	}

	user.Status = status
	return nil
}

// UpdateAccountRole describes the update account role operation and its observable behavior.
//
// UpdateAccountRole may return an error when input validation, dependency calls, or security checks fail.
// UpdateAccountRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *UserProvider) UpdateAccountRole(_ context.Context, userID string, role staffauth.Role) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.byID[userID]
	if !ok {
		return staffauth.ErrUserNotFound
	}

	user.Role = role
	return nil
}

// ListUsers returns a snapshot of every account, ordered by username.
func (p *UserProvider) ListUsers(_ context.Context) ([]staffauth.UserAccount, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]staffauth.UserAccount, 0, len(p.users))
	for _, user := range p.users {
		out = append(out, *copyAccount(user))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })

	return out, nil
}

func copyAccount(user *staffauth.UserAccount) *staffauth.UserAccount {
	cp := *user
	cp.LastFailedAt = copyTime(user.LastFailedAt)
	cp.LockedUntil = copyTime(user.LockedUntil)
	cp.PasswordHistory = append([]string(nil), user.PasswordHistory...)
	return &cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
