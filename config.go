package eventauth

import (
	"errors"
	"time"
)

// Config is the full engine configuration. Treated as immutable after
// [Builder.Build]; the builder deep-copies it so later caller mutation has
// no effect.
type Config struct {
	JWT        JWTConfig
	Refresh    RefreshConfig
	Revocation RevocationConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

// JWTConfig mirrors jwt.Config at the engine surface.
type JWTConfig struct {
	AccessTTL     time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	Secret        []byte
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// RefreshConfig controls the server side of token rotation.
type RefreshConfig struct {
	// GraceWindow is how long past exp a token is still accepted for
	// refresh. Zero means only unexpired tokens can be rotated.
	GraceWindow time.Duration

	EnableThrottle  bool
	MaxAttempts     int
	CooldownWindow  time.Duration
	EnableIPLogin   bool
	MaxLoginPerIP   int
	LoginCooldown   time.Duration
}

// RevocationConfig controls the Redis denylist.
type RevocationConfig struct {
	RedisPrefix string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns a configuration suitable for most deployments:
// 15-minute access tokens, 24-hour refresh grace, throttles on, audit and
// metrics enabled. Keys must still be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:     15 * time.Minute,
			SigningMethod: "hs256",
			Issuer:        "eventauth",
			Leeway:        30 * time.Second,
		},
		Refresh: RefreshConfig{
			GraceWindow:    24 * time.Hour,
			EnableThrottle: true,
			MaxAttempts:    30,
			CooldownWindow: time.Minute,
			EnableIPLogin:  true,
			MaxLoginPerIP:  60,
			LoginCooldown:  time.Minute,
		},
		Revocation: RevocationConfig{
			RedisPrefix: "ea:rv",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func validateConfig(cfg Config) error {
	var errs []error

	if cfg.JWT.AccessTTL <= 0 {
		errs = append(errs, errors.New("config: JWT.AccessTTL must be positive"))
	}
	switch cfg.JWT.SigningMethod {
	case "hs256":
		if len(cfg.JWT.Secret) == 0 {
			errs = append(errs, errors.New("config: hs256 requires JWT.Secret"))
		} else if len(cfg.JWT.Secret) < 32 {
			errs = append(errs, errors.New("config: JWT.Secret must be at least 32 bytes"))
		}
	case "ed25519":
		if len(cfg.JWT.PrivateKey) == 0 && len(cfg.JWT.PublicKey) == 0 {
			errs = append(errs, errors.New("config: ed25519 requires a key pair"))
		}
	default:
		errs = append(errs, errors.New("config: unsupported JWT.SigningMethod"))
	}

	if cfg.Refresh.GraceWindow < 0 {
		errs = append(errs, errors.New("config: Refresh.GraceWindow must not be negative"))
	}
	if cfg.Refresh.EnableThrottle {
		if cfg.Refresh.MaxAttempts <= 0 {
			errs = append(errs, errors.New("config: Refresh.MaxAttempts must be positive when throttling"))
		}
		if cfg.Refresh.CooldownWindow <= 0 {
			errs = append(errs, errors.New("config: Refresh.CooldownWindow must be positive when throttling"))
		}
	}
	if cfg.Refresh.EnableIPLogin {
		if cfg.Refresh.MaxLoginPerIP <= 0 {
			errs = append(errs, errors.New("config: Refresh.MaxLoginPerIP must be positive when throttling"))
		}
		if cfg.Refresh.LoginCooldown <= 0 {
			errs = append(errs, errors.New("config: Refresh.LoginCooldown must be positive when throttling"))
		}
	}

	if cfg.Audit.Enabled && cfg.Audit.BufferSize < 0 {
		errs = append(errs, errors.New("config: Audit.BufferSize must not be negative"))
	}

	return errors.Join(errs...)
}

// cloneConfig deep-copies key material so the engine cannot observe caller
// mutation after Build.
func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
