package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"canteen/internal/adapters/backend"
)

// AuthForLogin defines the backend operations needed by Login and Logout.
type AuthForLogin interface {
	SignInWithPassword(ctx context.Context, email, password string) (backend.Session, error)
	SignOut(ctx context.Context, token string) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Auth AuthForLogin
}

var ErrMissingCredentials = errors.New("email and password are required")

// ExecuteLogin authenticates against the hosted backend and returns the
// session. Backend errors surface verbatim to the caller; there is no
// retry; the user resubmits.
// PRE: credentials come from the auth form
// POST: on success a SessionEstablished event has been published by the client
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (backend.Session, error) {
	if input.Email == "" || input.Password == "" {
		return backend.Session{}, ErrMissingCredentials
	}

	sess, err := deps.Auth.SignInWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email)
		return backend.Session{}, err
	}
	return sess, nil
}

// ExecuteLogout revokes the backend session. Logout is best-effort: a
// failed revocation still clears the local session.
func ExecuteLogout(ctx context.Context, token string, deps LoginDeps) {
	if token == "" {
		return
	}
	if err := deps.Auth.SignOut(ctx, token); err != nil {
		slog.Warn("auth_event", "event", "logout_failed", "error", err.Error())
	}
}
