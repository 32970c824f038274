// Package internal contains helper utilities that are intentionally private
// to staffauth, including secure random token generation.
//
// # Sub-packages
//
//   - audit — audit event model and Sink implementations
//   - lockout — pure brute-force lockout policy state machine
//
// # What this package must NOT do
//
//   - Perform I/O. Everything here is pure computation or local entropy.
//   - Be imported by any package outside the staffauth module.
package internal
