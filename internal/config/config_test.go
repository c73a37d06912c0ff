package config_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"canteen/internal/config"
)

// TestLoad_FromEnv tests direct env var resolution.
func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(config.EnvConfigURL, "")
	t.Setenv(config.EnvBackendURL, "https://backend.example")
	t.Setenv(config.EnvAnonKey, "anon-123")

	p, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.URL != "https://backend.example" || p.AnonKey != "anon-123" {
		t.Errorf("params = %+v", p)
	}
}

// TestLoad_MissingEnv tests that missing parameters halt initialization.
func TestLoad_MissingEnv(t *testing.T) {
	t.Setenv(config.EnvConfigURL, "")
	t.Setenv(config.EnvBackendURL, "")
	t.Setenv(config.EnvAnonKey, "")

	if _, err := config.Load(context.Background()); !errors.Is(err, config.ErrMissingParams) {
		t.Errorf("Load = %v, want ErrMissingParams", err)
	}
}

// TestLoad_FromEndpoint tests resolution via the config endpoint.
func TestLoad_FromEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(config.Params{URL: "https://backend.example", AnonKey: "anon-123"})
	}))
	defer srv.Close()
	t.Setenv(config.EnvConfigURL, srv.URL)

	p, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.URL != "https://backend.example" || p.AnonKey != "anon-123" {
		t.Errorf("params = %+v", p)
	}
}

// TestLoad_EndpointError tests that a 500 with an error body fails
// loading rather than yielding partial parameters.
func TestLoad_EndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "environment variables are not set on the server"})
	}))
	defer srv.Close()
	t.Setenv(config.EnvConfigURL, srv.URL)

	if _, err := config.Load(context.Background()); err == nil {
		t.Fatal("expected error from failing endpoint")
	}
}

// TestLoad_EndpointIncomplete tests rejection of a response missing a
// field.
func TestLoad_EndpointIncomplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"url": "https://backend.example"})
	}))
	defer srv.Close()
	t.Setenv(config.EnvConfigURL, srv.URL)

	if _, err := config.Load(context.Background()); !errors.Is(err, config.ErrIncomplete) {
		t.Errorf("Load = %v, want ErrIncomplete", err)
	}
}
