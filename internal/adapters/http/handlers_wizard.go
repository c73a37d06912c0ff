package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"canteen/internal/adapters/backend"
	"canteen/internal/adapters/http/middleware"
	"canteen/internal/application/orchestrators"
	"canteen/internal/domain/menu"
	"canteen/internal/domain/profile"
	"canteen/internal/domain/wizard"
)

// Global profile cache instance (set by SetProfileCache)
var profileCache *orchestrators.ProfileCache

// SetProfileCache sets the signup profile cache shared with the session
// watcher.
func SetProfileCache(c *orchestrators.ProfileCache) {
	profileCache = c
}

const wizardCookieName = "canteen_wizard"

// machineStore holds one wizard machine per visitor, keyed by a cookie
// token. Machines are collected after 24 hours of existence, matching
// the session lifetime.
type machineStore struct {
	mu       sync.Mutex
	machines map[string]*machineEntry
}

type machineEntry struct {
	machine   *wizard.Machine
	createdAt time.Time
}

func newMachineStore() *machineStore {
	return &machineStore{machines: make(map[string]*machineEntry)}
}

// get returns the machine for token, or nil.
func (ms *machineStore) get(token string) *wizard.Machine {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	entry, ok := ms.machines[token]
	if !ok {
		return nil
	}
	if time.Since(entry.createdAt) > 24*time.Hour {
		delete(ms.machines, token)
		return nil
	}
	return entry.machine
}

// create stores a fresh machine and returns its token.
func (ms *machineStore) create() (string, *wizard.Machine) {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	token := hex.EncodeToString(bytes)

	m := wizard.NewMachine()
	ms.mu.Lock()
	ms.machines[token] = &machineEntry{machine: m, createdAt: time.Now()}
	ms.mu.Unlock()
	return token, m
}

// visitorMachine returns the request's wizard machine, creating one and
// setting its cookie when absent.
func visitorMachine(w http.ResponseWriter, r *http.Request) *wizard.Machine {
	if cookie, err := r.Cookie(wizardCookieName); err == nil {
		if m := wizards.get(cookie.Value); m != nil {
			return m
		}
	}
	token, m := wizards.create()
	http.SetCookie(w, &http.Cookie{
		Name:     wizardCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   86400,
	})
	return m
}

// redirectWizard sends the browser back to the wizard, optionally with a
// flash message.
func redirectWizard(w http.ResponseWriter, r *http.Request, flash string) {
	target := "/"
	if flash != "" {
		target = "/?error=" + url.QueryEscape(flash)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// wizardData is the template payload for the wizard page.
type wizardData struct {
	Step          wizard.Step
	StepName      string
	Progress      int
	ShowsProgress bool
	CanAdvance    bool
	Draft         wizard.Draft
	Menu          []menu.Item
	Error         string
	Notice        string
}

// handleWizard serves the onboarding wizard at the site root, applying
// the entry gate: an onboarded user goes straight to the dashboard, an
// authenticated user resumes past the auth step, everyone else starts
// at the beginning.
func handleWizard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	m := visitorMachine(w, r)

	if sess, ok := middleware.GetSessionFromContext(ctx); ok {
		_, err := client.GetPreferences(ctx, sess.AccessToken, sess.UserID)
		switch {
		case err == nil:
			// Already onboarded.
			if m.Step() != wizard.StepSuccess {
				http.Redirect(w, r, "/dashboard.html", http.StatusSeeOther)
				return
			}
		case errors.Is(err, backend.ErrNoRows):
			m.SkipAuth()
		default:
			slog.Warn("entry_gate_check_failed", "user_id", sess.UserID, "error", err.Error())
			m.SkipAuth()
		}
	} else {
		m.OnSessionCleared()
	}

	data := wizardData{
		Step:          m.Step(),
		StepName:      m.Step().String(),
		Progress:      wizard.Progress(m.Step()),
		ShowsProgress: wizard.ShowsProgress(m.Step()),
		CanAdvance:    m.CanAdvance(),
		Draft:         m.Draft,
		Error:         r.URL.Query().Get("error"),
		Notice:        r.URL.Query().Get("notice"),
	}
	if m.Step() == wizard.StepMenu {
		items, err := client.ListMenuItems(ctx, "")
		if err != nil {
			slog.Warn("menu_fetch_failed", "error", err.Error())
		}
		data.Menu = items
	}
	renderTemplate(w, r, "wizard.html", data)
}

// establishSession creates the browser session for an authenticated
// backend session, resolving the role from the profile row when one
// exists.
func establishSession(w http.ResponseWriter, r *http.Request, sess backend.Session) error {
	role := profile.RoleStudent
	if p, err := client.GetProfile(r.Context(), sess.AccessToken, sess.UserID); err == nil && p.Role != "" {
		role = p.Role
	}
	token, err := sessions.Create(sess.UserID, sess.Email, role, sess.AccessToken)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(w, token)
	return nil
}

// handleWizardAuth handles both login and signup from the wizard's auth
// step, switched by the mode field.
func handleWizardAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	m := visitorMachine(w, r)

	var sess backend.Session
	var err error
	switch r.FormValue("mode") {
	case "signup":
		input := orchestrators.SignupInput{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Profile: profile.Profile{
				Name:            r.FormValue("name"),
				Phone:           r.FormValue("phone"),
				AdmissionNumber: r.FormValue("admission_number"),
				Department:      r.FormValue("department"),
				Semester:        r.FormValue("semester"),
			},
		}
		sess, err = orchestrators.ExecuteSignup(ctx, input,
			orchestrators.SignupDeps{Auth: client, Cache: profileCache})
		if err == nil && sess.AccessToken == "" {
			// The service deferred the session to an email confirmation.
			redirectWizardNotice(w, r, "Check your email to confirm your account, then log in.")
			return
		}
	default:
		sess, err = orchestrators.ExecuteLogin(ctx,
			orchestrators.LoginInput{Email: r.FormValue("email"), Password: r.FormValue("password")},
			orchestrators.LoginDeps{Auth: client})
	}
	if err != nil {
		redirectWizard(w, r, err.Error())
		return
	}

	if err := establishSession(w, r, sess); err != nil {
		redirectWizard(w, r, "could not establish session")
		return
	}
	m.OnSessionEstablished()
	redirectWizard(w, r, "")
}

func redirectWizardNotice(w http.ResponseWriter, r *http.Request, notice string) {
	http.Redirect(w, r, "/?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

// handleWizardDiet records the diet selection.
func handleWizardDiet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m := visitorMachine(w, r)
	if err := m.Draft.SelectDiet(r.FormValue("diet")); err != nil {
		redirectWizard(w, r, err.Error())
		return
	}
	redirectWizard(w, r, "")
}

// handleWizardMenuAdd adds a favourite item, from the reference list or
// free text.
func handleWizardMenuAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m := visitorMachine(w, r)
	m.Draft.AddMenuItem(r.FormValue("item"))
	redirectWizard(w, r, "")
}

// handleWizardMenuRemove removes a favourite item.
func handleWizardMenuRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m := visitorMachine(w, r)
	m.Draft.RemoveMenuItem(r.FormValue("item"))
	redirectWizard(w, r, "")
}

// handleWizardNext advances one step. Moving onto the review step
// captures the recurring checkbox into the draft.
func handleWizardNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m := visitorMachine(w, r)
	if err := m.Next(); err != nil {
		redirectWizard(w, r, err.Error())
		return
	}
	if m.Step() == wizard.StepReview {
		m.PrepareReview(r.FormValue("recurring") == "on")
	}
	redirectWizard(w, r, "")
}

// handleWizardBack moves one step back.
func handleWizardBack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m := visitorMachine(w, r)
	if err := m.Back(); err != nil {
		redirectWizard(w, r, err.Error())
		return
	}
	redirectWizard(w, r, "")
}

// handleWizardCommit persists the reviewed draft. On failure the user
// stays on the review step with the draft intact.
func handleWizardCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		redirectWizard(w, r, "log in to save your preferences")
		return
	}
	m := visitorMachine(w, r)

	err := orchestrators.ExecuteFinishOnboarding(r.Context(), orchestrators.FinishOnboardingInput{
		UserID: sess.UserID,
		Token:  sess.AccessToken,
		Draft:  m.Draft,
	}, orchestrators.FinishOnboardingDeps{Preferences: client})
	if err != nil {
		redirectWizard(w, r, "could not save preferences: "+err.Error())
		return
	}
	if err := m.Next(); err != nil {
		slog.Warn("wizard_advance_failed", "step", m.Step().String(), "error", err.Error())
	}
	redirectWizard(w, r, "")
}

// handleLogout revokes the backend session, drops the browser session
// and returns to the wizard.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		orchestrators.ExecuteLogout(r.Context(), sess.AccessToken, orchestrators.LoginDeps{Auth: client})
	}
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)

	m := visitorMachine(w, r)
	m.OnSessionCleared()
	redirectWizard(w, r, "")
}
