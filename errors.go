package eventauth

import "errors"

var (
	// ErrUnauthorized is the generic rejection for tokens that fail
	// verification. The underlying kind (malformed, forged, expired) is kept
	// out of the error string on purpose.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTokenMissing is returned when a request carries no bearer credential.
	ErrTokenMissing = errors.New("token is missing")
	// ErrTokenRevoked is returned when a verified token's jti is denylisted.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrUserNotFound is returned when the user provider has no record for an id.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleInvalid is returned for roles other than attendee and organizer.
	ErrRoleInvalid = errors.New("invalid role")
	// ErrLoginRateLimited is returned when the per-IP login budget is exhausted.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrRefreshRateLimited is returned when the per-user refresh budget is exhausted.
	ErrRefreshRateLimited = errors.New("refresh rate limited")
	// ErrRefreshExpired is returned when a refresh candidate is past the grace window.
	ErrRefreshExpired = errors.New("token past refresh grace window")
	// ErrStoreUnavailable is returned when the revocation or rate-limit backend is down.
	ErrStoreUnavailable = errors.New("token store unavailable")
	// ErrEngineNotReady is returned when an Engine method is called before Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)
