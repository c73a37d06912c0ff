package projections

import (
	"context"
	"log/slog"

	"canteen/internal/domain/preference"
	"canteen/internal/domain/profile"
)

// UserDataReader defines the backend reads needed by the user-data
// projection.
type UserDataReader interface {
	GetProfile(ctx context.Context, token, userID string) (profile.Profile, error)
	GetPreferences(ctx context.Context, token, userID string) (preference.Preferences, error)
}

// FetchUserDataQuery carries input for the user-data projection.
type FetchUserDataQuery struct {
	Token  string
	UserID string
}

// FetchUserDataDeps holds dependencies for the user-data projection.
type FetchUserDataDeps struct {
	Backend UserDataReader
}

// UserDataResult carries the combined read. Both fields are nil when
// either read failed: callers render the empty state, they do not treat
// this as fatal.
type UserDataResult struct {
	Profile     *profile.Profile
	Preferences *preference.Preferences
}

// QueryFetchUserData reads the profile and preferences rows in parallel
// and joins the results. The first failing read poisons the combination;
// in-flight work is abandoned, not cancelled.
func QueryFetchUserData(ctx context.Context, q FetchUserDataQuery, deps FetchUserDataDeps) UserDataResult {
	profCh := make(chan struct {
		p   profile.Profile
		err error
	}, 1)
	prefCh := make(chan struct {
		p   preference.Preferences
		err error
	}, 1)

	go func() {
		p, err := deps.Backend.GetProfile(ctx, q.Token, q.UserID)
		profCh <- struct {
			p   profile.Profile
			err error
		}{p, err}
	}()
	go func() {
		p, err := deps.Backend.GetPreferences(ctx, q.Token, q.UserID)
		prefCh <- struct {
			p   preference.Preferences
			err error
		}{p, err}
	}()

	prof := <-profCh
	pref := <-prefCh

	if prof.err != nil || pref.err != nil {
		slog.Warn("user_data_fetch_failed", "user_id", q.UserID,
			"profile_err", errText(prof.err), "preferences_err", errText(pref.err))
		return UserDataResult{}
	}
	return UserDataResult{Profile: &prof.p, Preferences: &pref.p}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
