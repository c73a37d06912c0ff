package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
)

// Environment variables consulted by Load.
const (
	EnvConfigURL  = "CANTEEN_CONFIG_URL"
	EnvBackendURL = "CANTEEN_BACKEND_URL"
	EnvAnonKey    = "CANTEEN_ANON_KEY"
)

// Errors returned by Load. Any of them is fatal to startup: the remote
// client must never be constructed from partial parameters.
var (
	ErrMissingParams = errors.New("backend connection parameters are not set")
	ErrIncomplete    = errors.New("backend configuration is missing url or anonKey")
)

// Params are the remote backend connection parameters.
type Params struct {
	URL     string `json:"url"`
	AnonKey string `json:"anonKey"`
}

// Load resolves connection parameters: from the config endpoint named by
// CANTEEN_CONFIG_URL when set, otherwise from CANTEEN_BACKEND_URL and
// CANTEEN_ANON_KEY directly. Exactly one client is constructed from the
// result per process; failure here halts initialization.
func Load(ctx context.Context) (Params, error) {
	if endpoint := os.Getenv(EnvConfigURL); endpoint != "" {
		return fetch(ctx, endpoint)
	}

	p := Params{
		URL:     os.Getenv(EnvBackendURL),
		AnonKey: os.Getenv(EnvAnonKey),
	}
	if p.URL == "" || p.AnonKey == "" {
		return Params{}, ErrMissingParams
	}
	return p, nil
}

// fetch issues the single config request. A non-success status or a
// response missing either field is a configuration failure.
func fetch(ctx context.Context, endpoint string) (Params, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Params{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Params{}, fmt.Errorf("config endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return Params{}, fmt.Errorf("config endpoint: %s", body.Error)
		}
		return Params{}, fmt.Errorf("config endpoint returned status %d", resp.StatusCode)
	}

	var p Params
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Params{}, err
	}
	if p.URL == "" || p.AnonKey == "" {
		return Params{}, ErrIncomplete
	}
	return p, nil
}
