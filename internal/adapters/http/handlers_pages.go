package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"canteen/internal/adapters/http/middleware"
	"canteen/internal/application/orchestrators"
	"canteen/internal/application/projections"
	"canteen/internal/domain/announcement"
	"canteen/internal/domain/menu"
	"canteen/internal/domain/preference"
	"canteen/internal/domain/profile"
)

// Backend connection config exposed via /api/config (set by SetBackendConfig)
var backendURL string
var backendAnonKey string

// SetBackendConfig records the connection parameters served to API
// consumers.
func SetBackendConfig(url, anonKey string) {
	backendURL = url
	backendAnonKey = anonKey
}

// handleAPIConfig serves the backend connection parameters as JSON.
func handleAPIConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if backendURL == "" || backendAnonKey == "" {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Missing backend configuration"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"url": backendURL, "anonKey": backendAnonKey})
}

// dashboardData is the template payload for the dashboard page.
type dashboardData struct {
	FirstName     string
	Profile       *profile.Profile
	Preferences   *preference.Preferences
	Announcements []announcement.Announcement
}

// handleDashboard renders the post-onboarding home page.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	res := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardQuery{Token: sess.AccessToken, UserID: sess.UserID},
		projections.GetDashboardDeps{Backend: client})

	data := dashboardData{
		Profile:       res.Profile,
		Preferences:   res.Preferences,
		Announcements: res.Announcements,
	}
	if res.Profile != nil {
		data.FirstName = res.Profile.FirstName()
	}
	renderTemplate(w, r, "dashboard.html", data)
}

// profileData is the template payload for the profile page.
type profileData struct {
	Profile     *profile.Profile
	Preferences *preference.Preferences
	Menu        []menu.Item
	Error       string
	Notice      string
}

// handleProfilePage renders profile details, committed preferences and
// the daily selection form. Visitors who never finished onboarding are
// sent back to the wizard.
func handleProfilePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	res, err := projections.QueryGetProfilePage(r.Context(),
		projections.GetProfilePageQuery{Token: sess.AccessToken, UserID: sess.UserID},
		projections.GetProfilePageDeps{Backend: client})
	if errors.Is(err, projections.ErrNotOnboarded) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	renderTemplate(w, r, "profile.html", profileData{
		Profile:     res.Profile,
		Preferences: res.Preferences,
		Menu:        res.Menu,
		Error:       r.URL.Query().Get("error"),
		Notice:      r.URL.Query().Get("notice"),
	})
}

// handleProfileDaily saves the three daily meal slots.
func handleProfileDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	err := orchestrators.ExecuteSaveDailySelections(r.Context(), orchestrators.SaveDailySelectionsInput{
		UserID: sess.UserID,
		Token:  sess.AccessToken,
		Selections: preference.DailySelections{
			Morning:   r.FormValue("daily_morning"),
			Afternoon: r.FormValue("daily_afternoon"),
			Evening:   r.FormValue("daily_evening"),
		},
	}, orchestrators.SaveDailySelectionsDeps{Preferences: client})
	if err != nil {
		http.Redirect(w, r, "/profile.html?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/profile.html?notice="+url.QueryEscape("Daily selections saved"), http.StatusSeeOther)
}

// handleTheme toggles the persisted display theme.
func handleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	theme := "light"
	if r.FormValue("theme") == "dark" {
		theme = "dark"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookieName,
		Value:    theme,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   86400 * 365,
	})

	target := r.Header.Get("Referer")
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
