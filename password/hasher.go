package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
)

// Hasher defines a public type used by staffauth APIs.
//
// Hasher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// SHA256 is the legacy-compatible deterministic hasher: a single unsalted
// SHA-256 digest of the raw password bytes, base64 (standard) encoded.
// Identical input always produces identical output across runs, which is
// what the stored credential rows of the original system expect.
//
// The absence of a per-user salt is a known weakness of that format, not
// of this implementation; prefer [Argon2] where compatibility with
// existing rows is not required.
type SHA256 struct{}

// NewSHA256 describes the newsha256 operation and its observable behavior.
//
// NewSHA256 may return an error when input validation, dependency calls, or security checks fail.
// NewSHA256 does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewSHA256() *SHA256 {
	return &SHA256{}
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *SHA256) Hash(password string) (string, error) {
	// Password processing uses raw string bytes exactly as provided (no Unicode normalization).
	if password == "" {
		return "", errors.New("password must not be empty")
	}

	digest := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(digest[:]), nil
}

// Verify describes the verify operation and its observable behavior.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *SHA256) Verify(password string, encodedHash string) (bool, error) {
	stored, err := base64.StdEncoding.DecodeString(encodedHash)
	if err != nil {
		return false, errors.New("invalid digest encoding")
	}
	if len(stored) != sha256.Size {
		return false, errors.New("invalid digest length")
	}

	computed := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(computed[:], stored) == 1, nil
}
