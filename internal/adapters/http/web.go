package web

import (
	"bytes"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"html/template"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"canteen/internal/adapters/backend"
	"canteen/internal/adapters/http/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Global backend client instance (set by NewMux)
var client *backend.Client

// Global session store instance
var sessions *middleware.SessionStore

// Global wizard machine store instance
var wizards *machineStore

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// loadCSRFKey reads the CSRF secret from CANTEEN_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("CANTEEN_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("CANTEEN_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("CANTEEN_ENV") == "production" {
		log.Fatal("CANTEEN_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set CANTEEN_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(c *backend.Client) http.Handler {
	client = c
	sessions = middleware.NewSessionStore()
	wizards = newMachineStore()
	middleware.SecureCookies = os.Getenv("CANTEEN_ENV") == "production"

	mux := http.NewServeMux()
	registerRoutes(mux)

	csrfKey := loadCSRFKey()

	// Apply middleware: Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
	)
}

// registerRoutes attaches all application routes to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", handleWizard)
	mux.HandleFunc("/wizard/auth", handleWizardAuth)
	mux.HandleFunc("/wizard/diet", handleWizardDiet)
	mux.HandleFunc("/wizard/menu/add", handleWizardMenuAdd)
	mux.HandleFunc("/wizard/menu/remove", handleWizardMenuRemove)
	mux.HandleFunc("/wizard/next", handleWizardNext)
	mux.HandleFunc("/wizard/back", handleWizardBack)
	mux.HandleFunc("/wizard/commit", handleWizardCommit)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/theme", handleTheme)
	mux.HandleFunc("/api/config", handleAPIConfig)

	mux.Handle("/dashboard.html", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/profile.html", middleware.RequireAuth(http.HandlerFunc(handleProfilePage)))
	mux.Handle("/profile/daily", middleware.RequireAuth(http.HandlerFunc(handleProfileDaily)))

	mux.HandleFunc("/staff_login.html", handleStaffLogin)
	mux.Handle("/staff.html", middleware.RequireStaff(http.HandlerFunc(handleStaffPage)))
	mux.Handle("/staff/announcements", middleware.RequireStaff(http.HandlerFunc(handleStaffAnnouncements)))
}

const themeCookieName = "canteen_theme"

// currentTheme reads the theme cookie, defaulting to light.
func currentTheme(r *http.Request) string {
	cookie, err := r.Cookie(themeCookieName)
	if err != nil || cookie.Value != "dark" {
		return "light"
	}
	return "dark"
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())

	funcMap := template.FuncMap{
		"currentEmail": func() string { return sess.Email },
		"isLoggedIn":   func() bool { return loggedIn },
		"isStaff":      func() bool { return loggedIn && sess.Role == "staff" },
		"csrfToken":    func() string { return csrf.Token(r) },
		"theme":        func() string { return currentTheme(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templatesFS,
		"templates/layout.html", "templates/"+templateName)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}
