package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"canteen/internal/adapters/backend"
	web "canteen/internal/adapters/http"
	"canteen/internal/application/orchestrators"
	"canteen/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx := context.Background()

	// Resolve backend connection parameters. Partial configuration is
	// fatal: the client is never constructed from half a config.
	params, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load backend config: %v", err)
	}

	client := backend.New(backend.Config{URL: params.URL, AnonKey: params.AnonKey})

	// The signup profile cache and its watcher: profile rows entered at
	// signup are persisted only once a session is confirmed.
	cache := orchestrators.NewProfileCache()
	web.SetProfileCache(cache)
	watcher := orchestrators.NewSessionWatcher(client.Notifier().Subscribe(), client, cache)
	go watcher.Run(ctx)

	web.SetBackendConfig(params.URL, params.AnonKey)
	mux := web.NewMux(client)

	addr := envOrDefault("CANTEEN_ADDR", ":8080")
	log.Printf("Canteen %s starting on %s (backend=%s, env=%s)", version, addr, params.URL, envOrDefault("CANTEEN_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
