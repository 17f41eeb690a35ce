// Package jwt implements the signed session-token codec used by the eventauth
// engine: issuing tokens that carry an event-platform principal (user id,
// username, role) and verifying them with a typed failure taxonomy.
//
// # Failure taxonomy
//
// [Manager.Verify] never panics and never returns a raw library error. Every
// rejection wraps exactly one of:
//
//   - [ErrMalformed] — the token cannot be parsed or its claims are unacceptable.
//   - [ErrSignatureInvalid] — the signature does not verify against the configured key.
//   - [ErrExpired] — signature is valid but the exp claim is in the past.
//
// Callers branch with errors.Is; the concrete kind must not be leaked to
// HTTP clients (the middleware collapses all three into one 401).
//
// # Architecture boundaries
//
// This package owns token encoding, signing, and verification. Revocation,
// rate limiting, and refresh policy live in the engine.
//
// # What this package must NOT do
//
//   - Access Redis or perform any I/O.
//   - Import the eventauth root package (the root imports jwt, never the reverse).
//   - Decide whether a verified principal is allowed to do anything.
package jwt
