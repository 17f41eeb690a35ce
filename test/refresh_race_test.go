//go:build integration
// +build integration

package test

import (
	"context"
	"errors"
	"sync"
	"testing"

	eventauth "github.com/eventra/eventauth"
)

// Two engine instances over one Redis must still elect a single refresh
// winner for the same token.
func TestRefreshRaceAcrossEngineInstances(t *testing.T) {
	ctx := context.Background()
	client := integrationRedis(t)

	engineA := newIntegrationEngine(t, client)
	engineB := newIntegrationEngine(t, client)

	token, err := engineA.Login(ctx, "race-user")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		engine := engineA
		if i%2 == 1 {
			engine = engineB
		}
		go func(e *eventauth.Engine) {
			defer wg.Done()
			<-start
			_, err := e.Refresh(ctx, token)
			results <- err
		}(engine)
	}

	close(start)
	wg.Wait()
	close(results)

	success := 0
	for err := range results {
		switch {
		case err == nil:
			success++
		case errors.Is(err, eventauth.ErrTokenRevoked):
		default:
			t.Fatalf("unexpected refresh error: %v", err)
		}
	}

	if success != 1 {
		t.Fatalf("expected exactly one winner, got %d", success)
	}
}

// Revocation written through one engine must reject validation on another.
func TestLogoutPropagatesAcrossEngineInstances(t *testing.T) {
	ctx := context.Background()
	client := integrationRedis(t)

	engineA := newIntegrationEngine(t, client)
	engineB := newIntegrationEngine(t, client)

	token, err := engineA.Login(ctx, "roaming-user")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := engineB.Validate(ctx, token); err != nil {
		t.Fatalf("validate on second instance failed: %v", err)
	}

	if err := engineA.Logout(ctx, token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := engineB.Validate(ctx, token); !errors.Is(err, eventauth.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked on second instance, got %v", err)
	}
}
