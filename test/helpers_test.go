//go:build integration
// +build integration

package test

import (
	"context"
	"fmt"
	"os"
	"testing"

	eventauth "github.com/eventra/eventauth"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// integrationRedis returns a client against REDIS_ADDR when set, otherwise
// an embedded miniredis. Engines built over the same client share the same
// revocation state, which is what these tests exercise.
func integrationRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		t.Cleanup(func() { _ = client.Close() })
		return client
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client
}

func newIntegrationEngine(t *testing.T, client redis.UniversalClient) *eventauth.Engine {
	t.Helper()

	cfg := eventauth.DefaultConfig()
	cfg.JWT.Secret = []byte("integration-test-secret-32-bytes!!")
	cfg.Refresh.EnableThrottle = false
	cfg.Refresh.EnableIPLogin = false
	cfg.Audit.Enabled = false

	engine, err := eventauth.New().
		WithConfig(cfg).
		WithRedis(client).
		WithUserProvider(directoryProvider{}).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

// directoryProvider fabricates a valid attendee for any id, so tests can log
// in arbitrary principals without seeding.
type directoryProvider struct{}

func (directoryProvider) GetUserByID(_ context.Context, id string) (eventauth.UserRecord, error) {
	if id == "" {
		return eventauth.UserRecord{}, fmt.Errorf("user not found")
	}
	return eventauth.UserRecord{
		ID:       id,
		Username: "user-" + id,
		Role:     eventauth.RoleAttendee,
	}, nil
}
