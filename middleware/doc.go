// Package middleware exposes HTTP adapters that enforce session and CSRF
// checks on top of staffauth.Engine validation.
//
// # Guards
//
//   - [SessionGuard] — resolves the opaque session token from the
//     Authorization header or cookie and rejects unauthenticated requests.
//   - [CSRFGuard] — requires a valid X-CSRF-Token on mutating methods for
//     the authenticated principal.
//
// Each guard delegates the decision to the Engine and injects the
// validated [Principal] into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself. Rejections are recorded on the
// audit trail as Violation events; the guards never block on audit.
//
// # What this package must NOT do
//
//   - Read or compare tokens directly (Engine and its stores own that).
//   - Access Redis.
//   - Distinguish missing, expired, and malformed tokens in responses.
package middleware
