package eventauth

import (
	"context"
	"errors"
	"time"

	"github.com/eventra/eventauth/internal/rate"
	"github.com/eventra/eventauth/jwt"
	"github.com/google/uuid"
)

// Refresh exchanges a still-recognized token for a freshly issued one. The
// old token may be expired up to Refresh.GraceWindow; its jti is revoked
// atomically, so of N concurrent refreshes of the same token exactly one
// wins and the rest get [ErrTokenRevoked]. The principal is re-read from the
// user provider, so a role change or account deletion takes effect at the
// next rotation.
func (e *Engine) Refresh(ctx context.Context, token string) (string, error) {
	if e == nil || e.jwtManager == nil {
		return "", ErrEngineNotReady
	}

	claims, err := e.jwtManager.VerifyIgnoringExpiry(token)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.auditEmit(ctx, AuditEvent{EventType: "refresh", Error: err.Error()})
		return "", ErrUnauthorized
	}

	expiry := claims.ExpiresAt.Time
	grace := e.config.Refresh.GraceWindow
	if time.Now().After(expiry.Add(grace)) {
		e.metricInc(MetricRefreshFailure)
		e.auditEmit(ctx, AuditEvent{EventType: "refresh", UserID: claims.User.ID, TokenID: claims.ID, Error: "grace exceeded"})
		return "", ErrRefreshExpired
	}

	if err := e.rateLimiter.CheckRefresh(ctx, claims.User.ID); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			e.metricInc(MetricRefreshRateLimited)
			e.auditEmit(ctx, AuditEvent{EventType: "refresh", UserID: claims.User.ID, Error: "rate limited"})
			return "", ErrRefreshRateLimited
		}
		return "", ErrStoreUnavailable
	}

	record, err := e.userProvider.GetUserByID(ctx, claims.User.ID)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.auditEmit(ctx, AuditEvent{EventType: "refresh", UserID: claims.User.ID, Error: "user not found"})
		return "", ErrUserNotFound
	}
	if !record.Role.Valid() {
		e.metricInc(MetricRefreshFailure)
		return "", ErrRoleInvalid
	}

	// single-winner rotation: first caller claims the old jti
	ttl := time.Until(expiry) + grace
	claimed, err := e.revocations.Revoke(ctx, claims.ID, ttl)
	if err != nil {
		return "", ErrStoreUnavailable
	}
	if !claimed {
		e.metricInc(MetricRefreshRaceLost)
		e.metricInc(MetricRefreshFailure)
		e.auditEmit(ctx, AuditEvent{EventType: "refresh", UserID: claims.User.ID, TokenID: claims.ID, Error: "token already rotated"})
		return "", ErrTokenRevoked
	}

	jti := uuid.NewString()
	fresh, err := e.jwtManager.Issue(jwt.Principal{
		ID:       record.ID,
		Username: record.Username,
		Role:     string(record.Role),
	}, jti)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return "", err
	}

	e.metricInc(MetricRefreshSuccess)
	e.auditEmit(ctx, AuditEvent{
		EventType: "refresh",
		UserID:    record.ID,
		Role:      string(record.Role),
		TokenID:   jti,
		Success:   true,
	})

	return fresh, nil
}
