package projections_test

import (
	"context"
	"errors"
	"testing"

	"canteen/internal/adapters/backend"
	"canteen/internal/application/projections"
	"canteen/internal/domain/announcement"
	"canteen/internal/domain/menu"
	"canteen/internal/domain/preference"
	"canteen/internal/domain/profile"
)

// mockReader implements the projection read interfaces over fixed data.
type mockReader struct {
	profiles    map[string]profile.Profile
	preferences map[string]preference.Preferences
	menu        []menu.Item
	anns        []announcement.Announcement

	profileErr error
	prefErr    error
	menuErr    error
	annErr     error
}

func (m *mockReader) GetProfile(ctx context.Context, token, userID string) (profile.Profile, error) {
	if m.profileErr != nil {
		return profile.Profile{}, m.profileErr
	}
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return profile.Profile{}, backend.ErrNoRows
}

func (m *mockReader) GetPreferences(ctx context.Context, token, userID string) (preference.Preferences, error) {
	if m.prefErr != nil {
		return preference.Preferences{}, m.prefErr
	}
	if p, ok := m.preferences[userID]; ok {
		return p, nil
	}
	return preference.Preferences{}, backend.ErrNoRows
}

func (m *mockReader) ListMenuItems(ctx context.Context, token string) ([]menu.Item, error) {
	if m.menuErr != nil {
		return nil, m.menuErr
	}
	return m.menu, nil
}

func (m *mockReader) ListAnnouncements(ctx context.Context, token string) ([]announcement.Announcement, error) {
	if m.annErr != nil {
		return nil, m.annErr
	}
	return m.anns, nil
}

func onboardedReader() *mockReader {
	return &mockReader{
		profiles: map[string]profile.Profile{
			"u1": {ID: "u1", Name: "Asha Nair", Role: profile.RoleStudent},
		},
		preferences: map[string]preference.Preferences{
			"u1": {ID: "u1", Diet: "Vegetarian", MenuItems: []string{"Dosa"}, IsRecurring: true},
		},
		menu: []menu.Item{{ID: 1, Name: "Dosa"}, {ID: 2, Name: "Idli"}},
		anns: []announcement.Announcement{{ID: "a1", Title: "Holiday", Body: "Closed Monday"}},
	}
}

// TestQueryFetchUserData_Combined tests the joined parallel read.
func TestQueryFetchUserData_Combined(t *testing.T) {
	deps := projections.FetchUserDataDeps{Backend: onboardedReader()}

	res := projections.QueryFetchUserData(context.Background(),
		projections.FetchUserDataQuery{Token: "tok", UserID: "u1"}, deps)

	if res.Profile == nil || res.Preferences == nil {
		t.Fatalf("result = %+v, want both halves populated", res)
	}
	if res.Profile.Name != "Asha Nair" {
		t.Errorf("profile = %+v", res.Profile)
	}
	if res.Preferences.Diet != "Vegetarian" {
		t.Errorf("preferences = %+v", res.Preferences)
	}
}

// TestQueryFetchUserData_PartialFailure tests that one failed read
// poisons the whole combination.
func TestQueryFetchUserData_PartialFailure(t *testing.T) {
	reader := onboardedReader()
	reader.prefErr = errors.New("backend: status 500")
	deps := projections.FetchUserDataDeps{Backend: reader}

	res := projections.QueryFetchUserData(context.Background(),
		projections.FetchUserDataQuery{Token: "tok", UserID: "u1"}, deps)

	if res.Profile != nil || res.Preferences != nil {
		t.Errorf("result = %+v, want both nil after a failed read", res)
	}
}

// TestQueryGetDashboard tests assembly of user data plus announcements
// and the degraded announcements panel.
func TestQueryGetDashboard(t *testing.T) {
	reader := onboardedReader()
	deps := projections.GetDashboardDeps{Backend: reader}

	res := projections.QueryGetDashboard(context.Background(),
		projections.GetDashboardQuery{Token: "tok", UserID: "u1"}, deps)
	if res.Profile == nil || len(res.Announcements) != 1 {
		t.Fatalf("result = %+v", res)
	}

	reader.annErr = errors.New("backend: status 500")
	res = projections.QueryGetDashboard(context.Background(),
		projections.GetDashboardQuery{Token: "tok", UserID: "u1"}, deps)
	if res.Profile == nil {
		t.Error("user data dropped because announcements failed")
	}
	if len(res.Announcements) != 0 {
		t.Errorf("announcements = %v, want empty panel", res.Announcements)
	}
}

// TestQueryGetProfilePage tests the three-way fan-out.
func TestQueryGetProfilePage(t *testing.T) {
	deps := projections.GetProfilePageDeps{Backend: onboardedReader()}

	res, err := projections.QueryGetProfilePage(context.Background(),
		projections.GetProfilePageQuery{Token: "tok", UserID: "u1"}, deps)
	if err != nil {
		t.Fatalf("QueryGetProfilePage: %v", err)
	}
	if res.Profile == nil || res.Preferences == nil {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Menu) != 2 || res.Menu[0].Name != "Dosa" {
		t.Errorf("menu = %v", res.Menu)
	}
}

// TestQueryGetProfilePage_NotOnboarded tests that a missing preferences
// row is the redirect signal, not a degraded render.
func TestQueryGetProfilePage_NotOnboarded(t *testing.T) {
	reader := onboardedReader()
	delete(reader.preferences, "u1")
	deps := projections.GetProfilePageDeps{Backend: reader}

	_, err := projections.QueryGetProfilePage(context.Background(),
		projections.GetProfilePageQuery{Token: "tok", UserID: "u1"}, deps)
	if !errors.Is(err, projections.ErrNotOnboarded) {
		t.Fatalf("QueryGetProfilePage = %v, want ErrNotOnboarded", err)
	}
}

// TestQueryGetProfilePage_MenuFailureDegrades tests that a failed menu
// read still renders the page.
func TestQueryGetProfilePage_MenuFailureDegrades(t *testing.T) {
	reader := onboardedReader()
	reader.menuErr = errors.New("backend: status 502")
	deps := projections.GetProfilePageDeps{Backend: reader}

	res, err := projections.QueryGetProfilePage(context.Background(),
		projections.GetProfilePageQuery{Token: "tok", UserID: "u1"}, deps)
	if err != nil {
		t.Fatalf("QueryGetProfilePage: %v", err)
	}
	if res.Profile == nil || res.Preferences == nil {
		t.Errorf("result = %+v, want page data despite menu failure", res)
	}
	if len(res.Menu) != 0 {
		t.Errorf("menu = %v, want empty", res.Menu)
	}
}
