package orchestrators

import (
	"context"
	"log/slog"

	"canteen/internal/adapters/backend"
	"canteen/internal/domain/profile"
)

// ProfileWriterForWatcher defines the backend operation needed by the
// session watcher.
type ProfileWriterForWatcher interface {
	UpsertProfile(ctx context.Context, token string, p profile.Profile) error
}

// SessionWatcher subscribes once to session notifications and persists
// cached signup profiles when a session is confirmed. This is the piece
// that decouples "credentials submitted" from "profile saved": the
// signup call never writes the profile row itself.
type SessionWatcher struct {
	events   <-chan backend.Event
	profiles ProfileWriterForWatcher
	cache    *ProfileCache
}

// NewSessionWatcher wires a watcher to a notifier subscription.
func NewSessionWatcher(events <-chan backend.Event, profiles ProfileWriterForWatcher, cache *ProfileCache) *SessionWatcher {
	return &SessionWatcher{events: events, profiles: profiles, cache: cache}
}

// Run consumes session events until ctx is cancelled. Call in a
// goroutine from main.
func (w *SessionWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.events:
			if !ok {
				return
			}
			if ev.Type == backend.SessionEstablished {
				w.flushProfile(ctx, ev.Session)
			}
		}
	}
}

// flushProfile persists the cached profile for the session's email, if
// one is pending. A write failure is logged and the entry is dropped;
// the user can re-enter profile details from the profile page.
func (w *SessionWatcher) flushProfile(ctx context.Context, sess backend.Session) {
	cached, ok := w.cache.Take(sess.Email)
	if !ok {
		return
	}
	cached.ID = sess.UserID
	if cached.Role == "" {
		cached.Role = profile.RoleStudent
	}
	if err := w.profiles.UpsertProfile(ctx, sess.AccessToken, cached); err != nil {
		slog.Error("profile_save_failed", "user_id", sess.UserID, "error", err.Error())
		return
	}
	slog.Info("profile_saved", "user_id", sess.UserID)
}
