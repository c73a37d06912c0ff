package devbackend

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"canteen/internal/adapters/email"
	accountDomain "canteen/internal/domain/account"
)

// credentials is the body of the signup and password-grant endpoints.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authBody is the success response of the signup and token endpoints.
type authBody struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        authUser `json:"user"`
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// issueToken mints an access token for the account.
func (s *Server) issueToken(id, email string) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.tokens[token] = session{userID: id, email: email}
	s.mu.Unlock()
	return token
}

// bearerSession resolves the request's Bearer token to a live session.
func (s *Server) bearerSession(r *http.Request) (session, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || token == s.anonKey {
		return session{}, false
	}
	s.mu.Lock()
	sess, live := s.tokens[token]
	s.mu.Unlock()
	return sess, live
}

// handleSignup creates an account and opens a session for it. A welcome
// email is sent in the background; delivery failure never fails signup.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var creds credentials
	if err := strictDecode(r, &creds); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct := accountDomain.Account{
		ID:        uuid.New().String(),
		Email:     strings.ToLower(strings.TrimSpace(creds.Email)),
		CreatedAt: time.Now().UTC(),
	}
	if err := acct.Validate(); err != nil {
		writeAuthError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := acct.SetPassword(creds.Password); err != nil {
		writeAuthError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if _, err := s.stores.AccountStore.GetByEmail(ctx, acct.Email); err == nil {
		writeAuthError(w, http.StatusBadRequest, "User already registered")
		return
	}
	if err := s.stores.AccountStore.Save(ctx, acct); err != nil {
		writeAuthError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := s.mail.Send(ctx, email.WelcomeEmail(acct.Email, "")); err != nil {
			slog.Warn("welcome_email_failed", "email", acct.Email, "error", err.Error())
		}
	}()

	token := s.issueToken(acct.ID, acct.Email)
	slog.Info("auth_event", "event", "signup", "user_id", acct.ID)
	writeJSON(w, http.StatusOK, authBody{
		AccessToken: token,
		TokenType:   "bearer",
		User:        authUser{ID: acct.ID, Email: acct.Email},
	})
}

// handleToken implements the password grant.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Query().Get("grant_type") != "password" {
		writeAuthError(w, http.StatusBadRequest, "unsupported grant type")
		return
	}
	var creds credentials
	if err := strictDecode(r, &creds); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := s.stores.AccountStore.GetByEmail(r.Context(),
		strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil || acct.CheckPassword(creds.Password) != nil {
		// Same message for unknown email and wrong password.
		writeAuthError(w, http.StatusBadRequest, "Invalid login credentials")
		return
	}

	token := s.issueToken(acct.ID, acct.Email)
	slog.Info("auth_event", "event", "login_success", "user_id", acct.ID)
	writeJSON(w, http.StatusOK, authBody{
		AccessToken: token,
		TokenType:   "bearer",
		User:        authUser{ID: acct.ID, Email: acct.Email},
	})
}

// handleLogout revokes the Bearer token. Revoking an unknown token is
// still a success: the caller's goal state is "no session".
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		s.mu.Lock()
		delete(s.tokens, token)
		s.mu.Unlock()
	}
	slog.Info("auth_event", "event", "logout")
	w.WriteHeader(http.StatusNoContent)
}

// handleUser resolves the Bearer token to its user.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := s.bearerSession(r)
	if !ok {
		writeAuthError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, authUser{ID: sess.userID, Email: sess.email})
}
