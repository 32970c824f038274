// Package memory provides in-memory implementations of the staffauth
// persistence interfaces, intended for tests and single-process demos.
//
// # Architecture boundaries
//
// The provider holds deep copies of every record behind a mutex; callers
// never observe aliased state, and concurrent engine calls are safe.
//
// # What this package must NOT do
//
//   - Persist anything across process restarts.
//   - Enforce password or lockout policy (the engine owns policy).
package memory
