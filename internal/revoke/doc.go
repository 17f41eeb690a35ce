// Package revoke implements the Redis-backed token denylist.
//
// Each revoked token is stored under its jti with a TTL equal to the token's
// remaining lifetime, so entries disappear exactly when the token would have
// expired anyway. Revocation uses SET NX, which makes the first caller the
// single winner: concurrent refreshes of the same token race on the old jti
// and only one of them rotates it.
//
// # What this package must NOT do
//
//   - Parse or verify tokens (the jwt package owns that).
//   - Be imported outside the eventauth module.
package revoke
