// Package session implements the Redis-backed token cache for session and
// CSRF tokens.
//
// # Key layout
//
//	<prefix>:sess:<token>    -> JSON session record, TTL = session lifetime
//	<prefix>:csrf:<username> -> raw CSRF token value, TTL = CSRF lifetime
//
// Session tokens are keyed by token value so one account can hold any
// number of concurrent sessions. CSRF tokens are keyed per username so a
// new issuance overwrites the prior value, leaving at most one live CSRF
// token per user. Expiry is Redis TTL; lookups after expiry read as not found.
//
// # Architecture boundaries
//
// The store reports [ErrNotFound] and [ErrRedisUnavailable] and nothing
// else; the Engine decides how to degrade (both read as "token invalid"
// on validation, and as an issuance failure on login).
//
// # What this package must NOT do
//
//   - Generate token values (the Engine supplies them).
//   - Swallow backend errors; degradation policy belongs to the Engine.
package session
