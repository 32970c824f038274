package lockout

import "time"

// Policy holds the brute-force lockout thresholds.
type Policy struct {
	MaxAttempts int
	Duration    time.Duration
}

// State is the per-account lockout snapshot read from the credential
// store. A nil LockedUntil means the account has never been locked or
// the lock was cleared.
type State struct {
	FailedAttempts int
	LastFailedAt   *time.Time
	LockedUntil    *time.Time
}

// Locked reports whether the account is locked at the given instant and,
// if so, how long until the lock expires. An elapsed lock reads as
// unlocked; expiry is evaluated lazily, there is no background sweep.
func (p Policy) Locked(s State, now time.Time) (bool, time.Duration) {
	if s.LockedUntil == nil {
		return false, 0
	}
	if !now.Before(*s.LockedUntil) {
		return false, 0
	}
	return true, s.LockedUntil.Sub(now)
}

// RecordFailure returns the state after one more failed attempt and
// whether this attempt crossed the lockout threshold. When it did, the
// returned state carries LockedUntil = now + Duration, which is strictly
// in the future for any positive Duration.
func (p Policy) RecordFailure(s State, now time.Time) (State, bool) {
	next := State{
		FailedAttempts: s.FailedAttempts + 1,
		LastFailedAt:   &now,
		LockedUntil:    s.LockedUntil,
	}
	if next.FailedAttempts >= p.MaxAttempts {
		until := now.Add(p.Duration)
		next.LockedUntil = &until
		return next, true
	}
	return next, false
}

// Reset returns the cleared state applied after a successful credential
// check.
func (p Policy) Reset() State {
	return State{}
}

// AttemptsRemaining returns how many more failures the account can
// absorb before locking. Never negative.
func (p Policy) AttemptsRemaining(s State) int {
	remaining := p.MaxAttempts - s.FailedAttempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MinutesRemaining converts a lock remainder to whole minutes, rounding
// up so a 1-second remainder still reads as "1 minute".
func MinutesRemaining(remaining time.Duration) int {
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Minute - 1) / time.Minute)
}
