package staffauth

import (
	"errors"
	"time"
)

// Config defines a public type used by staffauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Lockout    LockoutConfig
	Session    SessionConfig
	CSRF       CSRFConfig
	Password   PasswordConfig
	Validation ValidationConfig
	Account    AccountConfig
	Audit      AuditConfig
}

const defaultRedisPrefix = "sa"

/*
====================================
LOCKOUT CONFIG
====================================
*/

// LockoutConfig defines a public type used by staffauth APIs.
//
// LockoutConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LockoutConfig struct {
	MaxAttempts int
	Duration    time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by staffauth APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
	TTL         time.Duration
}

// CSRFConfig defines a public type used by staffauth APIs.
//
// CSRFConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CSRFConfig struct {
	TTL time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordScheme selects the credential hashing implementation.
type PasswordScheme int

const (
	// SchemeSHA256 is the deterministic unsalted digest used by the legacy
	// system. Kept for record compatibility; see [password.SHA256] for the
	// security caveat.
	SchemeSHA256 PasswordScheme = iota
	// SchemeArgon2 is an exported constant or variable used by the authentication engine.
	SchemeArgon2
)

// Argon2Params holds the Argon2id cost parameters used when
// [SchemeArgon2] is selected.
type Argon2Params struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// PasswordConfig defines a public type used by staffauth APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Scheme       PasswordScheme
	HistoryCount int
	MinLength    int
	Argon2       Argon2Params
}

/*
====================================
VALIDATION CONFIG
====================================
*/

// ValidationConfig defines a public type used by staffauth APIs.
//
// ValidationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ValidationConfig struct {
	MaxUsernameLength int
	MaxPasswordLength int
}

// AccountConfig defines a public type used by staffauth APIs.
//
// AccountConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AccountConfig struct {
	DefaultRole Role
}

// AuditConfig defines a public type used by staffauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled       bool
	BufferSize    int
	DropIfFull    bool
	RedisPrefix   string
	RetentionDays int
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration the builder starts from:
// 5 attempts then a 15 minute lock, 6 hour sessions, 1 hour CSRF
// tokens, a 5-entry password history, and audit enabled with a 90 day
// retention window.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Lockout: LockoutConfig{
			MaxAttempts: 5,
			Duration:    15 * time.Minute,
		},
		Session: SessionConfig{
			RedisPrefix: defaultRedisPrefix,
			TTL:         360 * time.Minute,
		},
		CSRF: CSRFConfig{
			TTL: time.Hour,
		},
		Password: PasswordConfig{
			Scheme:       SchemeSHA256,
			HistoryCount: 5,
			MinLength:    8,
			Argon2: Argon2Params{
				Memory:      65536,
				Time:        3,
				Parallelism: 2,
				SaltLength:  16,
				KeyLength:   32,
			},
		},
		Validation: ValidationConfig{
			MaxUsernameLength: 50,
			MaxPasswordLength: 128,
		},
		Account: AccountConfig{
			DefaultRole: RoleViewer,
		},
		Audit: AuditConfig{
			Enabled:       true,
			BufferSize:    1024,
			DropIfFull:    true,
			RedisPrefix:   defaultRedisPrefix,
			RetentionDays: 90,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Lockout
	if c.Lockout.MaxAttempts < 1 {
		return errors.New("Lockout MaxAttempts must be >= 1")
	}
	if c.Lockout.Duration <= 0 {
		return errors.New("Lockout Duration must be > 0")
	}

	// Session / CSRF
	if c.Session.TTL <= 0 {
		return errors.New("Session TTL must be > 0")
	}
	if c.CSRF.TTL <= 0 {
		return errors.New("CSRF TTL must be > 0")
	}

	// Password
	switch c.Password.Scheme {
	case SchemeSHA256:
		// no parameters
	case SchemeArgon2:
		if c.Password.Argon2.Memory < 8*1024 {
			return errors.New("Password Argon2 Memory must be >= 8192 KB")
		}
		if c.Password.Argon2.Time < 1 {
			return errors.New("Password Argon2 Time must be >= 1")
		}
		if c.Password.Argon2.Parallelism < 1 {
			return errors.New("Password Argon2 Parallelism must be >= 1")
		}
		if c.Password.Argon2.SaltLength < 16 {
			return errors.New("Password Argon2 SaltLength must be >= 16")
		}
		if c.Password.Argon2.KeyLength < 16 {
			return errors.New("Password Argon2 KeyLength must be >= 16")
		}
	default:
		return errors.New("Password Scheme is invalid")
	}
	if c.Password.HistoryCount < 0 {
		return errors.New("Password HistoryCount must be >= 0")
	}
	if c.Password.MinLength < 1 {
		return errors.New("Password MinLength must be >= 1")
	}

	// Validation
	if c.Validation.MaxUsernameLength <= 0 {
		return errors.New("Validation MaxUsernameLength must be > 0")
	}
	if c.Validation.MaxPasswordLength < c.Password.MinLength {
		return errors.New("Validation MaxPasswordLength must be >= Password MinLength")
	}

	// Account
	if c.Account.DefaultRole != "" && !c.Account.DefaultRole.Valid() {
		return errors.New("Account DefaultRole is invalid")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}
	if c.Audit.RetentionDays < 1 {
		return errors.New("Audit RetentionDays must be >= 1")
	}

	return nil
}
