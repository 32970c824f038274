// Package lockout implements the per-account brute-force lockout policy
// as a pure state machine: Unlocked(n) -> Locked(until) -> Unlocked(0).
//
// # Architecture boundaries
//
// The package operates on snapshots of an account's counters plus an
// injected instant; it never reads a clock or touches storage. The Engine
// reads state from the credential store, applies a transition, and writes
// the result back.
//
// # What this package must NOT do
//
//   - Call time.Now or perform any I/O.
//   - Import staffauth or any sibling internal package.
package lockout
