// Package postgres implements the staffauth persistence interfaces on
// PostgreSQL via sqlx. It ships a UserProvider over a users table and an
// AuditStore over an append-only audit_trail table with a dated archive.
//
// # Architecture boundaries
//
// This package owns SQL and row mapping only. Policy (lockout arithmetic,
// password history trimming, role validation) stays in the engine; every
// write here is a targeted column update issued by an engine operation.
//
// # What this package must NOT do
//
//   - Run migrations. Schema is applied by the hosting application; the
//     expected DDL is documented on [Schema].
//   - Update or delete audit rows outside of Archive.
package postgres
