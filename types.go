package staffauth

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/staffdesk/staffauth/internal/audit"
)

// Role is the coarse authorization level carried by a [UserAccount].
type Role string

const (
	// RoleAdmin is an exported constant or variable used by the authentication engine.
	RoleAdmin Role = "Admin"
	// RoleViewer is an exported constant or variable used by the authentication engine.
	RoleViewer Role = "Viewer"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

// AccountStatus represents the lifecycle state of a user account.
type AccountStatus uint8

const (
	// AccountActive is an exported constant or variable used by the authentication engine.
	AccountActive AccountStatus = iota
	// AccountInactive is an exported constant or variable used by the authentication engine.
	AccountInactive
)

// UserAccount is the full account record returned by [UserProvider].
// It carries the credential hash, role, status, the brute-force lockout
// counters, and the password reuse history.
//
// Username is stored lower-cased; lookups and uniqueness are both
// case-insensitive. PasswordHistory is ordered most-recent-first and
// PasswordHistory[0] is always the current hash.
type UserAccount struct {
	UserID              string
	Username            string
	PasswordHash        string
	FullName            string
	Role                Role
	Status              AccountStatus
	CreatedAt           time.Time
	FailedAttempts      int
	LastFailedAt        *time.Time
	LockedUntil         *time.Time
	PasswordHistory     []string
	ForcePasswordChange bool
}

// LoginStateUpdate is the targeted partial update applied to an account's
// lockout counters after a login attempt. All three fields are written as
// a unit so a success can clear what a failure set.
type LoginStateUpdate struct {
	FailedAttempts int
	LastFailedAt   *time.Time
	LockedUntil    *time.Time
}

// CreateUserInput is the input for [UserProvider.CreateUser].
type CreateUserInput struct {
	UserID              string
	Username            string
	PasswordHash        string
	FullName            string
	Role                Role
	Status              AccountStatus
	CreatedAt           time.Time
	PasswordHistory     []string
	ForcePasswordChange bool
}

// UserProvider is the primary interface that callers must implement to
// integrate staffauth with their user database. The engine only ever
// touches the fields named by each method; implementations must support
// targeted updates without rewriting the whole record.
//
// GetUserByUsername receives an already lower-cased username and must
// return [ErrUserNotFound] when no account matches. CreateUser must
// return [ErrDuplicateUsername] when the username is already taken,
// compared case-insensitively.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*UserAccount, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*UserAccount, error)
	UpdateLoginState(ctx context.Context, userID string, state LoginStateUpdate) error
	UpdatePassword(ctx context.Context, userID string, newHash string, history []string, forceChange bool) error
	UpdateAccountStatus(ctx context.Context, userID string, status AccountStatus) error
	UpdateAccountRole(ctx context.Context, userID string, role Role) error
}

// AuditStore persists immutable audit events. Append-only: events are
// never updated, and Archive moves events older than the cutoff into a
// dated partition instead of deleting them.
type AuditStore interface {
	Append(ctx context.Context, event AuditEvent) error
	Recent(ctx context.Context, limit int) ([]AuditEvent, error)
	Archive(ctx context.Context, cutoff time.Time) (int, error)
}

// Clock abstracts time for the lockout policy and audit timestamps so
// expiry behavior can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// LoginCode classifies the outcome of [Engine.Authenticate]. Every code
// other than CodeSuccess is a recovered failure; Authenticate never
// propagates errors to the caller.
type LoginCode uint8

const (
	// CodeSuccess is an exported constant or variable used by the authentication engine.
	CodeSuccess LoginCode = iota
	// CodeInvalidCredentials is an exported constant or variable used by the authentication engine.
	CodeInvalidCredentials
	// CodeAccountInactive is an exported constant or variable used by the authentication engine.
	CodeAccountInactive
	// CodeAccountLocked is an exported constant or variable used by the authentication engine.
	CodeAccountLocked
	// CodeSessionUnavailable indicates the credential check passed but the
	// session/CSRF tokens could not be issued. Counters are already reset;
	// the caller should ask the user to retry rather than treat the login
	// as failed credentials.
	CodeSessionUnavailable
	// CodeAuthUnavailable is an exported constant or variable used by the authentication engine.
	CodeAuthUnavailable
)

// LoginResult is returned by [Engine.Authenticate]. It includes the
// session and CSRF tokens plus the user profile when authentication
// succeeds, or a user-facing message when it does not.
type LoginResult struct {
	Success bool
	Code    LoginCode
	Message string

	Username            string
	FullName            string
	Role                Role
	SessionToken        string
	CSRFToken           string
	ForcePasswordChange bool

	// AttemptsRemaining is set on CodeInvalidCredentials when the account
	// exists; LockedMinutes is set on CodeAccountLocked. Both are always
	// computed server-side.
	AttemptsRemaining int
	LockedMinutes     int
}

// CreateAccountRequest is the input for [Engine.CreateAccount].
// Username and Password are required; Role defaults to
// [Config.Account.DefaultRole] when empty.
type CreateAccountRequest struct {
	Username            string
	Password            string
	FullName            string
	Role                Role
	ForcePasswordChange bool
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
