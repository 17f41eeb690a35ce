package eventauth

import (
	"context"
	"errors"
	"time"

	"github.com/eventra/eventauth/internal/rate"
	"github.com/eventra/eventauth/internal/revoke"
	"github.com/eventra/eventauth/jwt"
	"github.com/google/uuid"
)

// Engine is the server-side session authority: it issues, validates,
// rotates, and revokes session tokens. Construct via [Builder.Build];
// immutable and safe for concurrent use afterwards.
type Engine struct {
	config       Config
	jwtManager   *jwt.Manager
	revocations  *revoke.Store
	rateLimiter  *rate.Limiter
	audit        *auditDispatcher
	metrics      *Metrics
	userProvider UserProvider
}

// Close flushes the audit dispatcher. The Engine must not be used afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns how many audit events were discarded by a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) auditEmit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	event.Timestamp = time.Now()
	event.IP = clientIPFromContext(ctx)
	e.audit.Emit(ctx, event)
}

// Login looks up userID, checks its role, and issues a fresh session token
// for the record's principal. Credential verification is the caller's job;
// Login must only be reached after it succeeded.
func (e *Engine) Login(ctx context.Context, userID string) (string, error) {
	if e == nil || e.jwtManager == nil {
		return "", ErrEngineNotReady
	}

	ip := clientIPFromContext(ctx)
	if err := e.rateLimiter.CheckLogin(ctx, ip); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			e.metricInc(MetricLoginRateLimited)
			e.auditEmit(ctx, AuditEvent{EventType: "login", UserID: userID, Error: "rate limited"})
			return "", ErrLoginRateLimited
		}
		return "", ErrStoreUnavailable
	}

	record, err := e.userProvider.GetUserByID(ctx, userID)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.auditEmit(ctx, AuditEvent{EventType: "login", UserID: userID, Error: "user not found"})
		return "", ErrUserNotFound
	}
	if !record.Role.Valid() {
		e.metricInc(MetricLoginFailure)
		e.auditEmit(ctx, AuditEvent{EventType: "login", UserID: userID, Error: "invalid role"})
		return "", ErrRoleInvalid
	}

	jti := uuid.NewString()
	token, err := e.jwtManager.Issue(jwt.Principal{
		ID:       record.ID,
		Username: record.Username,
		Role:     string(record.Role),
	}, jti)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return "", err
	}

	_ = e.rateLimiter.ResetLogin(ctx, ip)

	e.metricInc(MetricLoginSuccess)
	e.auditEmit(ctx, AuditEvent{
		EventType: "login",
		UserID:    record.ID,
		Role:      string(record.Role),
		TokenID:   jti,
		Success:   true,
	})

	return token, nil
}

// Validate verifies token and checks the revocation denylist. It returns the
// embedded principal on success. All verification failures surface as
// [ErrUnauthorized]; the specific kind is recorded in audit only, never
// returned, so clients cannot probe which check a forged token failed.
func (e *Engine) Validate(ctx context.Context, token string) (*AuthResult, error) {
	if e == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.Observe(MetricValidateLatency, time.Since(start))
		}
	}()

	if token == "" {
		e.metricInc(MetricValidateRejected)
		return nil, ErrTokenMissing
	}

	claims, err := e.jwtManager.Verify(token)
	if err != nil {
		e.metricInc(MetricValidateRejected)
		e.auditEmit(ctx, AuditEvent{EventType: "validate", Error: err.Error()})
		return nil, ErrUnauthorized
	}

	revoked, err := e.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if revoked {
		e.metricInc(MetricValidateRevokedHit)
		e.metricInc(MetricValidateRejected)
		e.auditEmit(ctx, AuditEvent{EventType: "validate", UserID: claims.User.ID, TokenID: claims.ID, Error: "revoked"})
		return nil, ErrTokenRevoked
	}

	role := Role(claims.User.Role)
	if !role.Valid() {
		e.metricInc(MetricValidateRejected)
		e.auditEmit(ctx, AuditEvent{EventType: "validate", UserID: claims.User.ID, TokenID: claims.ID, Error: "invalid role"})
		return nil, ErrUnauthorized
	}

	e.metricInc(MetricValidateSuccess)
	return &AuthResult{
		UserID:    claims.User.ID,
		Username:  claims.User.Username,
		Role:      role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes token until its refresh window closes, so neither Validate
// nor Refresh will accept it again. Logging out an already revoked or
// expired token is a no-op, keeping the operation idempotent.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil || e.jwtManager == nil {
		return ErrEngineNotReady
	}

	claims, err := e.jwtManager.VerifyIgnoringExpiry(token)
	if err != nil {
		return ErrUnauthorized
	}

	// cover the remaining lifetime plus the refresh grace so an expired
	// token cannot be resurrected through Refresh after logout
	ttl := time.Until(claims.ExpiresAt.Time) + e.config.Refresh.GraceWindow
	if _, err := e.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return ErrStoreUnavailable
	}

	e.metricInc(MetricLogout)
	e.auditEmit(ctx, AuditEvent{
		EventType: "logout",
		UserID:    claims.User.ID,
		Role:      claims.User.Role,
		TokenID:   claims.ID,
		Success:   true,
	})

	return nil
}
