// Package password implements credential hashing and verification.
//
// # Implementations
//
//   - [SHA256] — deterministic unsalted SHA-256 digest, base64-encoded. This
//     reproduces the legacy system's stored format so existing credential rows
//     keep verifying. Lacking a per-user salt, identical passwords hash to
//     identical digests and rainbow-table attacks apply; new deployments
//     should select [Argon2].
//   - [Argon2] — salted Argon2id in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length,
// character classes, reuse history) is enforced by the Engine via
// [ValidatePolicy].
//
// # What this package must NOT do
//
//   - Store or retrieve passwords (callers supply plaintext and receive hashes).
//   - Import any other staffauth package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
