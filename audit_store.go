package staffauth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisAuditStore keeps the trail in a sorted set scored by the event
// timestamp in nanoseconds. Recent reads walk the set from the high
// end; Archive moves everything below a cutoff into a dated archive
// set and removes it from the live trail.
type redisAuditStore struct {
	redis  redis.UniversalClient
	prefix string
}

func newRedisAuditStore(client redis.UniversalClient, prefix string) *redisAuditStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &redisAuditStore{
		redis:  client,
		prefix: prefix,
	}
}

func (s *redisAuditStore) trailKey() string {
	return s.prefix + ":audit:trail"
}

func (s *redisAuditStore) archiveKey(day time.Time) string {
	return s.prefix + ":audit:archive:" + day.UTC().Format("2006-01-02")
}

// Append describes the append operation and its observable behavior.
//
// Append may return an error when input validation, dependency calls, or security checks fail.
// Append does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *redisAuditStore) Append(ctx context.Context, event AuditEvent) error {
	encoded, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	member := redis.Z{
		Score:  float64(event.Timestamp.UnixNano()),
		Member: string(encoded),
	}
	if err := s.redis.ZAdd(ctx, s.trailKey(), member).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// Recent describes the recent operation and its observable behavior.
//
// Recent may return an error when input validation, dependency calls, or security checks fail.
// Recent does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *redisAuditStore) Recent(ctx context.Context, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		return nil, nil
	}

	raw, err := s.redis.ZRevRange(ctx, s.trailKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	events := make([]AuditEvent, 0, len(raw))
	for _, entry := range raw {
		var event AuditEvent
		if err := json.Unmarshal([]byte(entry), &event); err != nil {
			// A corrupt member is skipped rather than poisoning
			// every read of the trail.
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// Archive describes the archive operation and its observable behavior.
//
// Archive may return an error when input validation, dependency calls, or security checks fail.
// Archive does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *redisAuditStore) Archive(ctx context.Context, cutoff time.Time) (int, error) {
	maxScore := fmt.Sprintf("%d", cutoff.UnixNano())

	members, err := s.redis.ZRangeByScoreWithScores(ctx, s.trailKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: maxScore,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(members) == 0 {
		return 0, nil
	}

	pipe := s.redis.TxPipeline()
	for _, member := range members {
		day := time.Unix(0, int64(member.Score)).UTC()
		pipe.ZAdd(ctx, s.archiveKey(day), member)
	}
	pipe.ZRemRangeByScore(ctx, s.trailKey(), "-inf", maxScore)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return len(members), nil
}
