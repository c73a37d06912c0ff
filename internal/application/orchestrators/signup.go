package orchestrators

import (
	"context"
	"log/slog"
	"sync"

	"canteen/internal/adapters/backend"
	"canteen/internal/domain/profile"
)

// AuthForSignup defines the backend operations needed by Signup.
type AuthForSignup interface {
	SignUp(ctx context.Context, email, password string) (backend.Session, error)
}

// SignupInput carries the auth credentials plus the profile fields
// entered alongside them.
type SignupInput struct {
	Email    string
	Password string
	Profile  profile.Profile
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	Auth  AuthForSignup
	Cache *ProfileCache
}

// ExecuteSignup validates the profile fields, caches them, and creates
// the account. The profile row is NOT persisted here: the signup
// response may not include a usable session, so the cached fields wait
// for the SessionEstablished notification (see SessionWatcher).
// PRE: all signup form fields are present
// POST: profile fields cached under the email; account creation requested
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (backend.Session, error) {
	if input.Email == "" || input.Password == "" {
		return backend.Session{}, ErrMissingCredentials
	}
	if err := input.Profile.Validate(); err != nil {
		return backend.Session{}, err
	}

	// Cache before the remote call, mirroring the commit order of the
	// auth flow: a session event may arrive as soon as signup returns.
	deps.Cache.Put(input.Email, input.Profile)

	sess, err := deps.Auth.SignUp(ctx, input.Email, input.Password)
	if err != nil {
		deps.Cache.Take(input.Email)
		slog.Info("auth_event", "event", "signup_failed", "email", input.Email)
		return backend.Session{}, err
	}
	return sess, nil
}

// ProfileCache holds profile fields entered at signup until a session
// exists to persist them under. Entries are keyed by email because no
// user identifier exists before the session is established.
type ProfileCache struct {
	mu      sync.Mutex
	pending map[string]profile.Profile
}

// NewProfileCache creates an empty cache.
func NewProfileCache() *ProfileCache {
	return &ProfileCache{pending: make(map[string]profile.Profile)}
}

// Put stores profile fields for email, replacing any earlier entry.
func (c *ProfileCache) Put(email string, p profile.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[email] = p
}

// Take removes and returns the entry for email, if any. The entry is
// consumed: a second Take returns false.
func (c *ProfileCache) Take(email string) (profile.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[email]
	if ok {
		delete(c.pending, email)
	}
	return p, ok
}
