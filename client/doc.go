// Package client is the caller-side SDK for eventauth: it keeps the
// transient copy of session tokens, decides when to attempt a silent
// refresh, and tracks the signed-in principal for UI-style routing guards.
//
// # Token namespaces
//
// Tokens are stored one per role namespace (the default session token and an
// organizer-scoped token), mirroring how the event platform's front end
// keeps separate credentials for attendee and organizer surfaces. A missing
// namespace entry means "not authenticated", never an error.
//
// # Not a security boundary
//
// [IsTokenValid] and [PeekClaims] decode the token payload WITHOUT verifying
// its signature — a client holds no verification key. They exist so the
// caller can skip a doomed request or refresh ahead of expiry, nothing more.
// Only the server-side validator decides whether a token is trusted; no
// privileged operation may ever be gated on these helpers.
//
// # What this package must NOT do
//
//   - Verify signatures or hold signing keys.
//   - Import the eventauth root package (it talks HTTP, not Engine).
//   - Clear a stored token on refresh failure (the caller decides whether
//     to log out).
package client
