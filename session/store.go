package session

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is an exported constant or variable used by the authentication engine.
var ErrNotFound = errors.New("token not found")

// ErrRedisUnavailable is an exported constant or variable used by the authentication engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Session is the cached proof of authentication stored per token.
type Session struct {
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// Store defines a public type used by staffauth APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a token [Store] backed by the given Redis client.
func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "sa"
	}
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *Store) sessionKey(token string) string {
	return s.prefix + ":sess:" + token
}

func (s *Store) csrfKey(username string) string {
	return s.prefix + ":csrf:" + username
}

// SaveSession stores the session record keyed by token with the given TTL.
func (s *Store) SaveSession(ctx context.Context, token string, sess *Session, ttl time.Duration) error {
	blob, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.sessionKey(token), blob, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// GetSession looks up a session by token. Absent and expired tokens both
// return [ErrNotFound].
func (s *Store) GetSession(ctx context.Context, token string) (*Session, error) {
	blob, err := s.redis.Get(ctx, s.sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var sess Session
	if err := json.Unmarshal(blob, &sess); err != nil {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// DeleteSession removes a session eagerly. Deleting an absent or unknown
// token is a no-op, not an error.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// SaveCSRF stores the single live CSRF token for a user, overwriting any
// prior value.
func (s *Store) SaveCSRF(ctx context.Context, username, token string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.csrfKey(username), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// CompareCSRF reports whether the supplied token equals the currently
// stored value for the user. Missing, expired, and mismatched values all
// read as false; the comparison is constant-time.
func (s *Store) CompareCSRF(ctx context.Context, username, token string) (bool, error) {
	stored, err := s.redis.Get(ctx, s.csrfKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1, nil
}

// DeleteCSRF removes the live CSRF token for a user. Idempotent.
func (s *Store) DeleteCSRF(ctx context.Context, username string) error {
	if err := s.redis.Del(ctx, s.csrfKey(username)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
