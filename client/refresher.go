package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultRefreshTimeout = 10 * time.Second

// RefresherConfig wires a [Refresher] to its refresh endpoint.
type RefresherConfig struct {
	// Endpoint is the absolute URL of the token refresh endpoint.
	Endpoint string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Timeout bounds one refresh round trip. Defaults to 10s.
	Timeout time.Duration
}

// Refresher exchanges a stored token for a freshly issued one. Concurrent
// Refresh calls for the same namespace are coalesced into a single upstream
// request whose outcome every caller shares, so two near-simultaneous
// refreshes cannot invalidate each other's newly issued token.
type Refresher struct {
	store  TokenStore
	config RefresherConfig
	group  singleflight.Group
}

// NewRefresher creates a Refresher over store.
func NewRefresher(store TokenStore, cfg RefresherConfig) (*Refresher, error) {
	if store == nil {
		return nil, errors.New("token store is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("refresh endpoint is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRefreshTimeout
	}

	return &Refresher{store: store, config: cfg}, nil
}

type refreshResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken"`
}

// Refresh swaps the token stored under namespace for a new one. It returns
// true only when the endpoint answered success with a credential and the
// swap was persisted. With no stored token it returns false immediately,
// without a network call. On any failure the existing token is left in
// place — whether to log out is the caller's decision, not the Refresher's.
func (r *Refresher) Refresh(ctx context.Context, namespace string) bool {
	if _, ok := r.store.Get(namespace); !ok {
		return false
	}

	ok, _, _ := r.group.Do(namespace, func() (interface{}, error) {
		return r.refreshOnce(ctx, namespace), nil
	})

	swapped, _ := ok.(bool)
	return swapped
}

func (r *Refresher) refreshOnce(ctx context.Context, namespace string) bool {
	// re-read inside the flight: a coalesced winner may already have swapped it
	token, ok := r.store.Get(namespace)
	if !ok {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.Endpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.config.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	if !body.Success || body.AccessToken == "" {
		return false
	}

	if err := r.store.Set(namespace, body.AccessToken); err != nil {
		return false
	}

	return true
}
