// Package eventauth provides token-based session authentication for a
// two-role event platform: attendees who browse and register for events, and
// organizers who manage them. It issues signed JWT session tokens, validates
// them per request, rotates them through a refresh flow, and revokes them on
// logout — all against a stateless HTTP API with a Redis-backed denylist.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// eventauth is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (AuthResult, MetricsSnapshot, AuditEvent). Token encoding
// lives in the jwt subpackage; HTTP adaptation in middleware; the caller-side
// SDK in client; Redis coordination under internal/ and never exported.
//
// # What this package must NOT do
//
//   - Store or verify passwords (credential checking happens upstream; the
//     engine consumes a [UserProvider] lookup only).
//   - Expose Redis clients or key layouts in its public API.
//   - Leak which of malformed/expired/forged caused a rejection to clients.
//
// # Performance contract
//
// Validate is the hot path: one signature verification plus one Redis EXISTS.
// Login, Refresh, and Logout are allowed a handful of Redis round-trips.
package eventauth
