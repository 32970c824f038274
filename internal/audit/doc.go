// Package audit defines the audit event model and sink implementations
// for security- and business-relevant mutations.
//
// # Components
//
//   - [Event] — immutable audit record (id, timestamp, actor, action, target, details).
//   - [Sink] — interface for event consumers (channel, JSON writer, no-op).
//
// # Architecture boundaries
//
// This package owns the event shape and sink delivery. It does NOT decide
// which events to emit or where they persist; the Engine's dispatcher and
// the AuditStore implementations own that.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import staffauth or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
