// Package devbackend is a self-hosted stand-in for the hosted auth + row
// service. It speaks the same wire protocol the backend client expects,
// persisting to SQLite, so the whole application can run without an
// external account.
package devbackend

import (
	"encoding/json"
	"net/http"
	"sync"

	"canteen/internal/adapters/email"
	accountStore "canteen/internal/adapters/storage/account"
	announcementStore "canteen/internal/adapters/storage/announcement"
	menuItemStore "canteen/internal/adapters/storage/menuitem"
	preferenceStore "canteen/internal/adapters/storage/preference"
	profileStore "canteen/internal/adapters/storage/profile"
)

// noRowCode is the wire code for a single-object request matching zero
// rows. Clients branch on it to distinguish "absent" from "failed".
const noRowCode = "PGRST116"

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	ProfileStore      profileStore.Store
	PreferenceStore   preferenceStore.Store
	MenuItemStore     menuItemStore.Store
	AnnouncementStore announcementStore.Store
}

// session is a live access token's identity.
type session struct {
	userID string
	email  string
}

// Server implements the auth and row endpoints over the stores. Access
// tokens are held in memory; restarting the server logs everyone out.
type Server struct {
	stores  Stores
	mail    email.Sender
	anonKey string

	mu     sync.Mutex
	tokens map[string]session
}

// NewServer creates a Server. mail may be a NoopSender.
func NewServer(stores Stores, mail email.Sender, anonKey string) *Server {
	return &Server{
		stores:  stores,
		mail:    mail,
		anonKey: anonKey,
		tokens:  make(map[string]session),
	}
}

// Handler returns the wired route multiplexer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/signup", s.handleSignup)
	mux.HandleFunc("/auth/v1/token", s.handleToken)
	mux.HandleFunc("/auth/v1/logout", s.handleLogout)
	mux.HandleFunc("/auth/v1/user", s.handleUser)
	mux.HandleFunc("/rest/v1/profiles", s.handleProfiles)
	mux.HandleFunc("/rest/v1/preferences", s.handlePreferences)
	mux.HandleFunc("/rest/v1/menu_items", s.handleMenuItems)
	mux.HandleFunc("/rest/v1/announcements", s.handleAnnouncements)
	return s.requireAPIKey(mux)
}

// requireAPIKey rejects requests that do not carry the configured
// project key. This mirrors the hosted service: the key identifies the
// app, the Bearer token identifies the user.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != s.anonKey {
			writeAuthError(w, http.StatusUnauthorized, "No API key found in request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeAuthError writes an auth-endpoint error body.
func writeAuthError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error_description": msg})
}

// writeRestError writes a row-endpoint error body.
func writeRestError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"code": code, "message": msg})
}
