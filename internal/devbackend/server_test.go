package devbackend_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"canteen/internal/adapters/backend"
	"canteen/internal/adapters/email"
	"canteen/internal/adapters/storage"
	accountStore "canteen/internal/adapters/storage/account"
	announcementStore "canteen/internal/adapters/storage/announcement"
	menuItemStore "canteen/internal/adapters/storage/menuitem"
	preferenceStore "canteen/internal/adapters/storage/preference"
	profileStore "canteen/internal/adapters/storage/profile"
	"canteen/internal/devbackend"
	"canteen/internal/domain/announcement"
	"canteen/internal/domain/preference"
	"canteen/internal/domain/profile"
)

const (
	testAnonKey   = "test-anon-key"
	staffEmail    = "staff@college.edu"
	staffPassword = "staffpass"
)

// newTestClient spins up the full stack: SQLite, stores, wire server,
// and the real client pointed at it.
func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// Each in-memory connection is its own database; keep the pool at one.
	db.SetMaxOpenConns(1)
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	stores := devbackend.Stores{
		AccountStore:      accountStore.NewSQLiteStore(db),
		ProfileStore:      profileStore.NewSQLiteStore(db),
		PreferenceStore:   preferenceStore.NewSQLiteStore(db),
		MenuItemStore:     menuItemStore.NewSQLiteStore(db),
		AnnouncementStore: announcementStore.NewSQLiteStore(db),
	}
	srv := devbackend.NewServer(stores, email.NewNoopSender(), testAnonKey)
	if err := srv.Seed(context.Background(), staffEmail, staffPassword); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return backend.New(backend.Config{URL: ts.URL, AnonKey: testAnonKey})
}

func signUpStudent(t *testing.T, client *backend.Client) backend.Session {
	t.Helper()
	sess, err := client.SignUp(context.Background(), "asha@college.edu", "secretitiki")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if sess.AccessToken == "" || sess.UserID == "" {
		t.Fatalf("signup session incomplete: %+v", sess)
	}
	return sess
}

func TestSignupThenLogin(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	sess := signUpStudent(t, client)

	// Token resolves back to the same user.
	got, err := client.GetUser(ctx, sess.AccessToken)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.UserID != sess.UserID || got.Email != "asha@college.edu" {
		t.Errorf("GetUser = %+v", got)
	}

	// A fresh login issues a distinct usable token.
	again, err := client.SignInWithPassword(ctx, "asha@college.edu", "secretitiki")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if again.UserID != sess.UserID {
		t.Errorf("login user = %q, want %q", again.UserID, sess.UserID)
	}

	// Wrong password surfaces the service's own message.
	_, err = client.SignInWithPassword(ctx, "asha@college.edu", "wrong")
	if err == nil {
		t.Fatal("expected login failure")
	}

	// Duplicate signup is rejected.
	_, err = client.SignUp(ctx, "asha@college.edu", "another")
	if err == nil {
		t.Fatal("expected duplicate signup failure")
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	sess := signUpStudent(t, client)
	if err := client.SignOut(ctx, sess.AccessToken); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := client.GetUser(ctx, sess.AccessToken); !errors.Is(err, backend.ErrNoSession) {
		t.Fatalf("GetUser after signout = %v, want ErrNoSession", err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	sess := signUpStudent(t, client)

	// No row yet.
	if _, err := client.GetProfile(ctx, sess.AccessToken, sess.UserID); !errors.Is(err, backend.ErrNoRows) {
		t.Fatalf("GetProfile = %v, want ErrNoRows", err)
	}

	p := profile.Profile{
		ID:              sess.UserID,
		Name:            "Asha Nair",
		Phone:           "9876543210",
		AdmissionNumber: "ADM-1042",
		Department:      "CSE",
		Semester:        "S5",
		Role:            profile.RoleStudent,
	}
	if err := client.UpsertProfile(ctx, sess.AccessToken, p); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	got, err := client.GetProfile(ctx, sess.AccessToken, sess.UserID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Name != "Asha Nair" || got.Role != profile.RoleStudent {
		t.Errorf("profile = %+v", got)
	}

	// Re-sending the same row is a no-op, not an error.
	if err := client.UpsertProfile(ctx, sess.AccessToken, p); err != nil {
		t.Fatalf("repeat UpsertProfile: %v", err)
	}
}

func TestPreferencesLifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	sess := signUpStudent(t, client)

	// Not onboarded yet.
	if _, err := client.GetPreferences(ctx, sess.AccessToken, sess.UserID); !errors.Is(err, backend.ErrNoRows) {
		t.Fatalf("GetPreferences = %v, want ErrNoRows", err)
	}

	prefs := preference.Preferences{
		ID:          sess.UserID,
		Diet:        "Vegetarian",
		MenuItems:   []string{"Dosa", "Idli"},
		IsRecurring: true,
	}
	if err := client.UpsertPreferences(ctx, sess.AccessToken, prefs); err != nil {
		t.Fatalf("UpsertPreferences: %v", err)
	}

	got, err := client.GetPreferences(ctx, sess.AccessToken, sess.UserID)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got.Diet != "Vegetarian" || len(got.MenuItems) != 2 || !got.IsRecurring {
		t.Errorf("preferences = %+v", got)
	}

	// Daily save touches only the three slot columns.
	sel := preference.DailySelections{Morning: "Dosa", Afternoon: "Meals"}
	if err := client.UpdateDailySelections(ctx, sess.AccessToken, sess.UserID, sel); err != nil {
		t.Fatalf("UpdateDailySelections: %v", err)
	}
	got, err = client.GetPreferences(ctx, sess.AccessToken, sess.UserID)
	if err != nil {
		t.Fatalf("GetPreferences after daily save: %v", err)
	}
	if got.DailyMorning != "Dosa" || got.DailyAfternoon != "Meals" || got.DailyEvening != "" {
		t.Errorf("daily slots = %q/%q/%q", got.DailyMorning, got.DailyAfternoon, got.DailyEvening)
	}
	if got.Diet != "Vegetarian" || len(got.MenuItems) != 2 || !got.IsRecurring {
		t.Errorf("daily save clobbered other columns: %+v", got)
	}
}

func TestMenuReference(t *testing.T) {
	client := newTestClient(t)

	items, err := client.ListMenuItems(context.Background(), "")
	if err != nil {
		t.Fatalf("ListMenuItems: %v", err)
	}
	if len(items) != len(devbackend.DefaultMenu) {
		t.Fatalf("items = %d, want %d", len(items), len(devbackend.DefaultMenu))
	}
	for i, want := range devbackend.DefaultMenu {
		if items[i].Name != want {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Name, want)
		}
	}
}

func TestAnnouncementsStaffOnly(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	student := signUpStudent(t, client)
	a := announcement.Announcement{ID: "a1", Title: "Holiday", Body: "Closed **Monday**"}

	// A student must not be able to post.
	if err := client.CreateAnnouncement(ctx, student.AccessToken, a); err == nil {
		t.Fatal("student was allowed to post an announcement")
	}

	staff, err := client.SignInWithPassword(ctx, staffEmail, staffPassword)
	if err != nil {
		t.Fatalf("staff login: %v", err)
	}
	if err := client.CreateAnnouncement(ctx, staff.AccessToken, a); err != nil {
		t.Fatalf("CreateAnnouncement: %v", err)
	}

	list, err := client.ListAnnouncements(ctx, student.AccessToken)
	if err != nil {
		t.Fatalf("ListAnnouncements: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Holiday" {
		t.Fatalf("announcements = %+v", list)
	}
	if list[0].CreatedBy != staff.UserID {
		t.Errorf("CreatedBy = %q, want staff id", list[0].CreatedBy)
	}
}

func TestRowAccessIsPerUser(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	sess := signUpStudent(t, client)
	other, err := client.SignUp(ctx, "ravi@college.edu", "secretitiki")
	if err != nil {
		t.Fatalf("second SignUp: %v", err)
	}

	// Reading someone else's row is denied, not empty.
	_, err = client.GetProfile(ctx, sess.AccessToken, other.UserID)
	if err == nil || errors.Is(err, backend.ErrNoRows) {
		t.Fatalf("GetProfile across users = %v, want access error", err)
	}
}
