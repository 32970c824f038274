package staffauth

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is an exported constant or variable used by the authentication engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername is an exported constant or variable used by the authentication engine.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrAccountInactive is an exported constant or variable used by the authentication engine.
	ErrAccountInactive = errors.New("account inactive")
	// ErrAccountCreationInvalid is an exported constant or variable used by the authentication engine.
	ErrAccountCreationInvalid = errors.New("invalid account creation request")
	// ErrRoleInvalid is an exported constant or variable used by the authentication engine.
	ErrRoleInvalid = errors.New("invalid account role")
	// ErrPasswordPolicy is an exported constant or variable used by the authentication engine.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrPasswordReuse is an exported constant or variable used by the authentication engine.
	ErrPasswordReuse = errors.New("new password matches a recently used password")
	// ErrStoreUnavailable is an exported constant or variable used by the authentication engine.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
