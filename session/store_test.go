package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, "sa"), mr
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	issued := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := store.SaveSession(ctx, "tok-1", &Session{Username: "alice", IssuedAt: issued}, time.Hour); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	sess, err := store.GetSession(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sess.Username != "alice" || !sess.IssuedAt.Equal(issued) {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.GetSession(context.Background(), "never-saved")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionTTLExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSession(ctx, "tok-1", &Session{Username: "alice"}, time.Hour); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	mr.FastForward(time.Hour + time.Second)

	if _, err := store.GetSession(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestDeleteSessionIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSession(ctx, "tok-1", &Session{Username: "alice"}, time.Hour); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := store.DeleteSession(ctx, "tok-1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := store.GetSession(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again, or deleting a token that never existed, is a no-op.
	if err := store.DeleteSession(ctx, "tok-1"); err != nil {
		t.Fatalf("repeat DeleteSession failed: %v", err)
	}
	if err := store.DeleteSession(ctx, "ghost"); err != nil {
		t.Fatalf("unknown DeleteSession failed: %v", err)
	}
}

func TestCSRFOverwrite(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveCSRF(ctx, "alice", "csrf-1", time.Hour); err != nil {
		t.Fatalf("SaveCSRF failed: %v", err)
	}
	if err := store.SaveCSRF(ctx, "alice", "csrf-2", time.Hour); err != nil {
		t.Fatalf("second SaveCSRF failed: %v", err)
	}

	if ok, _ := store.CompareCSRF(ctx, "alice", "csrf-1"); ok {
		t.Fatal("overwritten CSRF token must not compare equal")
	}
	if ok, err := store.CompareCSRF(ctx, "alice", "csrf-2"); err != nil || !ok {
		t.Fatalf("CompareCSRF = (%v, %v), want match", ok, err)
	}
}

func TestCompareCSRFMissing(t *testing.T) {
	store, _ := newTestStore(t)

	ok, err := store.CompareCSRF(context.Background(), "alice", "anything")
	if err != nil {
		t.Fatalf("CompareCSRF failed: %v", err)
	}
	if ok {
		t.Fatal("missing CSRF token must read as false")
	}
}

func TestRedisOutageSurfaced(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	mr.Close()

	if err := store.SaveSession(ctx, "tok-1", &Session{Username: "alice"}, time.Hour); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if _, err := store.GetSession(ctx, "tok-1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if _, err := store.CompareCSRF(ctx, "alice", "x"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}
