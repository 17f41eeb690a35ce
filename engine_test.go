package eventauth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type mapProvider struct {
	records map[string]UserRecord
}

func (p *mapProvider) GetUserByID(_ context.Context, id string) (UserRecord, error) {
	rec, ok := p.records[id]
	if !ok {
		return UserRecord{}, fmt.Errorf("no such user %q", id)
	}
	return rec, nil
}

func testProvider() *mapProvider {
	return &mapProvider{records: map[string]UserRecord{
		"att-1": {ID: "att-1", Username: "ada", Role: RoleAttendee},
		"org-1": {ID: "org-1", Username: "olga", Role: RoleOrganizer},
		"bad-1": {ID: "bad-1", Username: "mallory", Role: "admin"},
	}}
}

func newTestEngine(t *testing.T, mutate func(*Config)) (*Engine, *mapProvider) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("engine-test-secret-engine-test-secret")
	cfg.JWT.Leeway = 0
	if mutate != nil {
		mutate(&cfg)
	}

	provider := testProvider()
	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(provider).
		Build()
	if err != nil {
		t.Fatalf("engine build: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, provider
}

func TestLoginIssuesValidatableToken(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	token, err := engine.Login(ctx, "org-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	res, err := engine.Validate(ctx, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.UserID != "org-1" || res.Username != "olga" || res.Role != RoleOrganizer {
		t.Fatalf("unexpected auth result: %+v", res)
	}
	if !res.Organizer() {
		t.Fatal("expected organizer result")
	}
	if res.TokenID == "" {
		t.Fatal("expected a token id")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	_, err := engine.Login(context.Background(), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLoginInvalidRole(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	_, err := engine.Login(context.Background(), "bad-1")
	if !errors.Is(err, ErrRoleInvalid) {
		t.Fatalf("expected ErrRoleInvalid, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	if _, err := engine.Validate(ctx, ""); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("empty token: expected ErrTokenMissing, got %v", err)
	}
	if _, err := engine.Validate(ctx, "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage token: expected ErrUnauthorized, got %v", err)
	}

	// a token signed with a different secret must not verify
	other, _ := newTestEngine(t, func(cfg *Config) {
		cfg.JWT.Secret = []byte("another-secret-another-secret-xx")
	})
	forged, err := other.Login(ctx, "att-1")
	if err != nil {
		t.Fatalf("login on other engine: %v", err)
	}
	if _, err := engine.Validate(ctx, forged); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("forged token: expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	engine, _ := newTestEngine(t, func(cfg *Config) {
		cfg.JWT.AccessTTL = 5 * time.Millisecond
	})
	ctx := context.Background()

	token, err := engine.Login(ctx, "att-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := engine.Validate(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired token: expected ErrUnauthorized, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	token, err := engine.Login(ctx, "att-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := engine.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := engine.Validate(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after logout, got %v", err)
	}

	// idempotent
	if err := engine.Logout(ctx, token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	old, err := engine.Login(ctx, "att-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fresh, err := engine.Refresh(ctx, old)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh == old {
		t.Fatal("refresh must issue a new token")
	}

	if _, err := engine.Validate(ctx, fresh); err != nil {
		t.Fatalf("fresh token must validate: %v", err)
	}
	if _, err := engine.Validate(ctx, old); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("rotated token must be revoked, got %v", err)
	}
	if _, err := engine.Refresh(ctx, old); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("rotated token must not refresh again, got %v", err)
	}
}

func TestRefreshWithinGraceAcceptsExpiredToken(t *testing.T) {
	// exp claims carry whole-second precision, so the TTL must be at least
	// one second for the rotated token to outlive its own issuance
	engine, _ := newTestEngine(t, func(cfg *Config) {
		cfg.JWT.AccessTTL = time.Second
		cfg.Refresh.GraceWindow = time.Hour
	})
	ctx := context.Background()

	token, err := engine.Login(ctx, "att-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	time.Sleep(1200 * time.Millisecond)

	if _, err := engine.Validate(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old token should have expired, got %v", err)
	}

	fresh, err := engine.Refresh(ctx, token)
	if err != nil {
		t.Fatalf("refresh within grace: %v", err)
	}
	if _, err := engine.Validate(ctx, fresh); err != nil {
		t.Fatalf("fresh token must validate: %v", err)
	}
}

func TestRefreshPastGraceRejected(t *testing.T) {
	engine, _ := newTestEngine(t, func(cfg *Config) {
		cfg.JWT.AccessTTL = 5 * time.Millisecond
		cfg.Refresh.GraceWindow = 0
	})
	ctx := context.Background()

	token, err := engine.Login(ctx, "att-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := engine.Refresh(ctx, token); !errors.Is(err, ErrRefreshExpired) {
		t.Fatalf("expected ErrRefreshExpired, got %v", err)
	}
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	engine, provider := newTestEngine(t, nil)
	ctx := context.Background()

	token, err := engine.Login(ctx, "att-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	provider.records["att-1"] = UserRecord{ID: "att-1", Username: "ada", Role: RoleOrganizer}

	fresh, err := engine.Refresh(ctx, token)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	res, err := engine.Validate(ctx, fresh)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Role != RoleOrganizer {
		t.Fatalf("expected rotated token to carry the new role, got %s", res.Role)
	}
}

func TestRefreshRateLimited(t *testing.T) {
	engine, _ := newTestEngine(t, func(cfg *Config) {
		cfg.Refresh.MaxAttempts = 2
		cfg.Refresh.CooldownWindow = time.Hour
	})
	ctx := context.Background()

	token, err := engine.Login(ctx, "att-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	for i := 0; i < 2; i++ {
		token, err = engine.Refresh(ctx, token)
		if err != nil {
			t.Fatalf("refresh %d: %v", i, err)
		}
	}

	if _, err := engine.Refresh(ctx, token); !errors.Is(err, ErrRefreshRateLimited) {
		t.Fatalf("expected ErrRefreshRateLimited, got %v", err)
	}
}

func TestMetricsCountLifecycle(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	token, err := engine.Login(ctx, "att-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := engine.Validate(ctx, token); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := engine.Validate(ctx, "garbage"); err == nil {
		t.Fatal("expected rejection")
	}
	if err := engine.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	snap := engine.MetricsSnapshot()
	for id, want := range map[MetricID]uint64{
		MetricLoginSuccess:     1,
		MetricValidateSuccess:  1,
		MetricValidateRejected: 1,
		MetricLogout:           1,
	} {
		if got := snap.Counters[id]; got != want {
			t.Fatalf("metric %d: got %d want %d", id, got, want)
		}
	}
}

func TestBuilderRejections(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	if _, err := New().WithRedis(rdb).Build(); err == nil {
		t.Fatal("expected build without provider to fail")
	}
	if _, err := New().WithUserProvider(testProvider()).Build(); err == nil {
		t.Fatal("expected build without redis to fail")
	}

	cfg := DefaultConfig() // no secret
	if _, err := New().WithConfig(cfg).WithRedis(rdb).WithUserProvider(testProvider()).Build(); err == nil {
		t.Fatal("expected build without secret to fail")
	}

	b := New().
		WithConfig(cfg).
		WithSecret([]byte("builder-test-secret-builder-test-xx")).
		WithRedis(rdb).
		WithUserProvider(testProvider())
	if _, err := b.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build on the same builder to fail")
	}
}
