package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"canteen/internal/adapters/backend"
	"canteen/internal/domain/profile"
)

// ProfileReaderForStaffLogin defines the backend read needed by the
// staff gate.
type ProfileReaderForStaffLogin interface {
	GetProfile(ctx context.Context, token, userID string) (profile.Profile, error)
}

// StaffLoginDeps holds dependencies for StaffLogin.
type StaffLoginDeps struct {
	Auth     AuthForLogin
	Profiles ProfileReaderForStaffLogin
}

// ErrNotStaff is surfaced when an authenticated user lacks the staff
// role. The wording is shown to the user as-is.
var ErrNotStaff = errors.New("Access Denied. Not a staff account.")

// ExecuteStaffLogin authenticates, then authorizes against the profile
// role. The order is fixed: authenticate, authorize, revoke on deny. A
// failed staff check must never leave a live session behind.
// POST: returns a session only for staff-role profiles; otherwise the
// session has been signed out before the error is returned
func ExecuteStaffLogin(ctx context.Context, input LoginInput, deps StaffLoginDeps) (backend.Session, error) {
	sess, err := ExecuteLogin(ctx, input, LoginDeps{Auth: deps.Auth})
	if err != nil {
		return backend.Session{}, err
	}

	prof, err := deps.Profiles.GetProfile(ctx, sess.AccessToken, sess.UserID)
	if err != nil {
		// Cannot prove the role: tear the session down before failing.
		if soErr := deps.Auth.SignOut(ctx, sess.AccessToken); soErr != nil {
			slog.Warn("auth_event", "event", "staff_revoke_failed", "error", soErr.Error())
		}
		return backend.Session{}, err
	}

	if !prof.IsStaff() {
		if soErr := deps.Auth.SignOut(ctx, sess.AccessToken); soErr != nil {
			slog.Warn("auth_event", "event", "staff_revoke_failed", "error", soErr.Error())
		}
		slog.Info("auth_event", "event", "staff_login_denied", "user_id", sess.UserID, "role", prof.Role)
		return backend.Session{}, ErrNotStaff
	}

	slog.Info("auth_event", "event", "staff_login_success", "user_id", sess.UserID)
	return sess, nil
}
