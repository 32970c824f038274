// Package staffauth provides the authentication and session security core for a
// staff record management backend: deterministic credential hashing, attempt-based
// account lockout, Redis-backed opaque session and CSRF tokens, and an async
// append-only audit trail.
//
// The package is designed for concurrent server workloads: Engine methods are safe
// to call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// staffauth is the public surface. It exposes [Engine], [Builder], [Config], and
// value types (LoginResult, UserAccount, AuditEvent). Supporting mechanics (lockout
// arithmetic, token generation, audit dispatch) live under internal/ and are never
// exported. Credential persistence is abstracted behind [UserProvider]; adapters for
// postgres and in-memory use live under store/.
//
// # What this package must NOT do
//
//   - Expose Redis clients, store internals, or token encoding details in its
//     public API.
//   - Distinguish unknown usernames from wrong passwords in any login response.
//   - Let audit persistence failures abort the operation being audited.
//
// # Failure contract
//
// Authenticate never returns an error: every outcome, including backend outages,
// is folded into [LoginResult] with a caller-renderable Message. Administrative
// operations (account creation, password change, status changes) return sentinel
// errors matchable with errors.Is.
package staffauth
