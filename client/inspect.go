package client

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Principal mirrors the identity embedded in a token's "user" claim.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenInfo is the advisory view of a token payload, decoded without any
// signature verification.
type TokenInfo struct {
	User      Principal
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim is in the past.
func (i *TokenInfo) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

type tokenPayload struct {
	User Principal `json:"user"`
	Jti  string    `json:"jti"`
	Iat  int64     `json:"iat"`
	Exp  int64     `json:"exp"`
}

// PeekClaims decodes the payload segment of token without verifying the
// signature. Returns false for anything that does not parse as a three-part
// token with a JSON payload and an exp claim; it never panics on garbage.
//
// Advisory only: a true result means nothing about the token's authenticity.
func PeekClaims(token string) (*TokenInfo, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, false
	}

	var payload tokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	if payload.Exp == 0 {
		return nil, false
	}

	return &TokenInfo{
		User:      payload.User,
		TokenID:   payload.Jti,
		IssuedAt:  time.Unix(payload.Iat, 0),
		ExpiresAt: time.Unix(payload.Exp, 0),
	}, true
}

// IsTokenValid reports whether the namespace holds a token whose exp claim
// is still in the future. No stored token, an undecodable token, and an
// expired token all read as false; none of them is an error.
//
// Advisory only — it saves a doomed round trip before attempting a refresh.
// The server-side validator remains the sole authority.
func IsTokenValid(store TokenStore, namespace string) bool {
	token, ok := store.Get(namespace)
	if !ok {
		return false
	}

	info, ok := PeekClaims(token)
	if !ok {
		return false
	}

	return !info.Expired(time.Now())
}
