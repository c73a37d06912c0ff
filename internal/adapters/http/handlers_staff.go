package web

import (
	"net/http"
	"net/url"

	"canteen/internal/adapters/http/middleware"
	"canteen/internal/application/orchestrators"
	"canteen/internal/domain/announcement"
	"canteen/internal/domain/profile"
)

// staffLoginData is the template payload for the staff login page.
type staffLoginData struct {
	Error string
}

// handleStaffLogin renders the staff login form and processes it. A
// valid login without the staff role is torn down before the denial is
// shown.
func handleStaffLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "staff_login.html", staffLoginData{
			Error: r.URL.Query().Get("error"),
		})

	case http.MethodPost:
		sess, err := orchestrators.ExecuteStaffLogin(r.Context(), orchestrators.LoginInput{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}, orchestrators.StaffLoginDeps{Auth: client, Profiles: client})
		if err != nil {
			http.Redirect(w, r, "/staff_login.html?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}

		token, err := sessions.Create(sess.UserID, sess.Email, profile.RoleStaff, sess.AccessToken)
		if err != nil {
			http.Redirect(w, r, "/staff_login.html?error="+url.QueryEscape("could not establish session"), http.StatusSeeOther)
			return
		}
		middleware.SetSessionCookie(w, token)
		http.Redirect(w, r, "/staff.html", http.StatusSeeOther)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// staffData is the template payload for the staff page.
type staffData struct {
	Email         string
	Announcements []announcement.Announcement
	Error         string
	Notice        string
}

// handleStaffPage renders the staff tools: the announcement feed and the
// posting form.
func handleStaffPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	anns, err := client.ListAnnouncements(r.Context(), sess.AccessToken)
	data := staffData{
		Email:         sess.Email,
		Announcements: anns,
		Error:         r.URL.Query().Get("error"),
		Notice:        r.URL.Query().Get("notice"),
	}
	if err != nil && data.Error == "" {
		data.Error = "could not load announcements"
	}
	renderTemplate(w, r, "staff.html", data)
}

// handleStaffAnnouncements posts a new announcement.
func handleStaffAnnouncements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	_, err := orchestrators.ExecutePostAnnouncement(r.Context(), orchestrators.PostAnnouncementInput{
		Title:    r.FormValue("title"),
		Body:     r.FormValue("body"),
		AuthorID: sess.UserID,
		Token:    sess.AccessToken,
	}, orchestrators.PostAnnouncementDeps{Announcements: client})
	if err != nil {
		http.Redirect(w, r, "/staff.html?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/staff.html?notice="+url.QueryEscape("Announcement posted"), http.StatusSeeOther)
}
