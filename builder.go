package staffauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/staffdesk/staffauth/internal/lockout"
	"github.com/staffdesk/staffauth/password"
	"github.com/staffdesk/staffauth/session"
)

// Builder defines a public type used by staffauth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	userProvider UserProvider
	auditStore   AuditStore
	auditSink    AuditSink
	clock        Clock

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserProvider describes the withuserprovider operation and its observable behavior.
//
// WithUserProvider may return an error when input validation, dependency calls, or security checks fail.
// WithUserProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditStore overrides the default redis-backed audit store, for
// example with the postgres adapter in store/postgres.
func (b *Builder) WithAuditStore(store AuditStore) *Builder {
	b.auditStore = store
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock injects a time source; tests use this to step through
// lockout windows without sleeping.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}

	clock := b.clock
	if clock == nil {
		clock = systemClock{}
	}

	var hasher password.Hasher
	switch cfg.Password.Scheme {
	case SchemeArgon2:
		argonHasher, err := password.NewArgon2(password.Argon2Config{
			Memory:      cfg.Password.Argon2.Memory,
			Time:        cfg.Password.Argon2.Time,
			Parallelism: cfg.Password.Argon2.Parallelism,
			SaltLength:  cfg.Password.Argon2.SaltLength,
			KeyLength:   cfg.Password.Argon2.KeyLength,
		})
		if err != nil {
			return nil, err
		}
		hasher = argonHasher
	default:
		hasher = &password.SHA256{}
	}

	auditStore := b.auditStore
	if auditStore == nil {
		auditStore = newRedisAuditStore(b.redis, cfg.Audit.RedisPrefix)
	}

	engine := &Engine{
		config:       cfg,
		users:        b.userProvider,
		sessions:     session.NewStore(b.redis, cfg.Session.RedisPrefix),
		lockout:      lockout.Policy{MaxAttempts: cfg.Lockout.MaxAttempts, Duration: cfg.Lockout.Duration},
		passwordHash: hasher,
		auditStore:   auditStore,
		clock:        clock,
	}

	if cfg.Audit.Enabled {
		engine.storeSink = newStoreSink(auditStore)
		var sink AuditSink = engine.storeSink
		if b.auditSink != nil {
			sink = teeSink{engine.storeSink, b.auditSink}
		}
		engine.audit = newAuditDispatcher(cfg.Audit, sink)
	}

	b.built = true
	return engine, nil
}
