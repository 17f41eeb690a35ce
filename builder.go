package eventauth

import (
	"errors"

	"github.com/eventra/eventauth/internal/rate"
	"github.com/eventra/eventauth/internal/revoke"
	"github.com/eventra/eventauth/jwt"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the first Engine method call.
type Builder struct {
	config       Config
	redis        redis.UniversalClient
	userProvider UserProvider
	auditSink    AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration. The config is deep-copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the hs256 signing secret on the current config.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.JWT.Secret = cloneBytes(secret)
	return b
}

// WithRedis sets the Redis client backing revocation and rate limiting.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserProvider sets the user-record lookup.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink sets the destination for audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles counter collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and returns a ready Engine. A Builder
// builds at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		AccessTTL:     b.config.JWT.AccessTTL,
		SigningMethod: jwt.SigningMethod(b.config.JWT.SigningMethod),
		Secret:        b.config.JWT.Secret,
		PrivateKey:    b.config.JWT.PrivateKey,
		PublicKey:     b.config.JWT.PublicKey,
		Issuer:        b.config.JWT.Issuer,
		Leeway:        b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	limiter := rate.New(b.redis, rate.Config{
		EnableIPThrottle:        b.config.Refresh.EnableIPLogin,
		EnableRefreshThrottle:   b.config.Refresh.EnableThrottle,
		MaxLoginAttempts:        b.config.Refresh.MaxLoginPerIP,
		LoginCooldownDuration:   b.config.Refresh.LoginCooldown,
		MaxRefreshAttempts:      b.config.Refresh.MaxAttempts,
		RefreshCooldownDuration: b.config.Refresh.CooldownWindow,
	})

	engine := &Engine{
		config:       b.config,
		jwtManager:   jwtManager,
		revocations:  revoke.New(b.redis, b.config.Revocation.RedisPrefix),
		rateLimiter:  limiter,
		audit:        newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics:      NewMetrics(b.config.Metrics),
		userProvider: b.userProvider,
	}

	b.built = true
	return engine, nil
}
