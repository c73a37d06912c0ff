package projections

import (
	"context"
	"errors"
	"log/slog"

	"canteen/internal/adapters/backend"
	"canteen/internal/domain/menu"
	"canteen/internal/domain/preference"
	"canteen/internal/domain/profile"
)

// ProfilePageReader defines the backend reads needed by the profile page.
type ProfilePageReader interface {
	UserDataReader
	ListMenuItems(ctx context.Context, token string) ([]menu.Item, error)
}

// GetProfilePageQuery carries input for the profile-page projection.
type GetProfilePageQuery struct {
	Token  string
	UserID string
}

// GetProfilePageDeps holds dependencies for the profile-page projection.
type GetProfilePageDeps struct {
	Backend ProfilePageReader
}

// ProfilePageResult carries everything the profile page renders.
type ProfilePageResult struct {
	Profile     *profile.Profile
	Preferences *preference.Preferences
	Menu        []menu.Item
}

// ErrNotOnboarded signals that the user has no preferences row yet; the
// profile page redirects such visitors back to the wizard entry.
var ErrNotOnboarded = errors.New("onboarding not completed")

// QueryGetProfilePage fans out the three page reads concurrently and
// joins them. A missing preferences row is the redirect signal
// ErrNotOnboarded; other failures degrade to empty values so the page
// still renders.
func QueryGetProfilePage(ctx context.Context, q GetProfilePageQuery, deps GetProfilePageDeps) (ProfilePageResult, error) {
	type profRes struct {
		p   profile.Profile
		err error
	}
	type prefRes struct {
		p   preference.Preferences
		err error
	}
	type menuRes struct {
		items []menu.Item
		err   error
	}

	profCh := make(chan profRes, 1)
	prefCh := make(chan prefRes, 1)
	menuCh := make(chan menuRes, 1)

	go func() {
		p, err := deps.Backend.GetProfile(ctx, q.Token, q.UserID)
		profCh <- profRes{p, err}
	}()
	go func() {
		p, err := deps.Backend.GetPreferences(ctx, q.Token, q.UserID)
		prefCh <- prefRes{p, err}
	}()
	go func() {
		items, err := deps.Backend.ListMenuItems(ctx, q.Token)
		menuCh <- menuRes{items, err}
	}()

	prof := <-profCh
	pref := <-prefCh
	mn := <-menuCh

	if errors.Is(pref.err, backend.ErrNoRows) {
		return ProfilePageResult{}, ErrNotOnboarded
	}

	result := ProfilePageResult{Menu: mn.items}
	if prof.err == nil {
		result.Profile = &prof.p
	}
	if pref.err == nil {
		result.Preferences = &pref.p
	}
	if prof.err != nil || pref.err != nil || mn.err != nil {
		slog.Warn("profile_page_fetch_degraded", "user_id", q.UserID,
			"profile_err", errText(prof.err), "preferences_err", errText(pref.err),
			"menu_err", errText(mn.err))
	}
	return result, nil
}
