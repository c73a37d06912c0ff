package devbackend

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	announcementDomain "canteen/internal/domain/announcement"
	preferenceDomain "canteen/internal/domain/preference"
	profileDomain "canteen/internal/domain/profile"
)

// eqID extracts the row id from an "id=eq.<value>" query filter.
func eqID(r *http.Request) (string, bool) {
	return strings.CutPrefix(r.URL.Query().Get("id"), "eq.")
}

// ownRow resolves the caller's session and checks the id filter targets
// the caller's own row. Row access is per-user: no session reads or
// writes another user's profile or preferences.
func (s *Server) ownRow(w http.ResponseWriter, r *http.Request) (session, string, bool) {
	sess, ok := s.bearerSession(r)
	if !ok {
		writeRestError(w, http.StatusUnauthorized, "401", "JWT required")
		return session{}, "", false
	}
	id, ok := eqID(r)
	if !ok || id == "" {
		id = sess.userID
	}
	if id != sess.userID {
		writeRestError(w, http.StatusForbidden, "42501", "row access denied")
		return session{}, "", false
	}
	return sess, id, true
}

// handleProfiles serves reads and upserts of the caller's profile row.
func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		_, id, ok := s.ownRow(w, r)
		if !ok {
			return
		}
		p, err := s.stores.ProfileStore.GetByID(r.Context(), id)
		if errors.Is(err, sql.ErrNoRows) {
			writeRestError(w, http.StatusNotAcceptable, noRowCode, "The result contains 0 rows")
			return
		}
		if err != nil {
			writeRestError(w, http.StatusInternalServerError, "500", "profile read failed")
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodPost:
		sess, ok := s.bearerSession(r)
		if !ok {
			writeRestError(w, http.StatusUnauthorized, "401", "JWT required")
			return
		}
		var p profileDomain.Profile
		if err := strictDecode(r, &p); err != nil {
			writeRestError(w, http.StatusBadRequest, "400", "invalid request body")
			return
		}
		if p.ID != sess.userID {
			writeRestError(w, http.StatusForbidden, "42501", "row access denied")
			return
		}
		if err := p.Validate(); err != nil {
			writeRestError(w, http.StatusBadRequest, "400", err.Error())
			return
		}
		if err := s.stores.ProfileStore.Save(r.Context(), p); err != nil {
			writeRestError(w, http.StatusInternalServerError, "500", "profile write failed")
			return
		}
		w.WriteHeader(http.StatusCreated)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePreferences serves reads, full upserts and the daily-column
// partial update of the caller's preferences row.
func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		_, id, ok := s.ownRow(w, r)
		if !ok {
			return
		}
		p, err := s.stores.PreferenceStore.GetByID(r.Context(), id)
		if errors.Is(err, sql.ErrNoRows) {
			writeRestError(w, http.StatusNotAcceptable, noRowCode, "The result contains 0 rows")
			return
		}
		if err != nil {
			writeRestError(w, http.StatusInternalServerError, "500", "preferences read failed")
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodPost:
		sess, ok := s.bearerSession(r)
		if !ok {
			writeRestError(w, http.StatusUnauthorized, "401", "JWT required")
			return
		}
		var p preferenceDomain.Preferences
		if err := strictDecode(r, &p); err != nil {
			writeRestError(w, http.StatusBadRequest, "400", "invalid request body")
			return
		}
		if p.ID != sess.userID {
			writeRestError(w, http.StatusForbidden, "42501", "row access denied")
			return
		}
		if err := p.Validate(); err != nil {
			writeRestError(w, http.StatusBadRequest, "400", err.Error())
			return
		}
		if err := s.stores.PreferenceStore.Save(r.Context(), p); err != nil {
			writeRestError(w, http.StatusInternalServerError, "500", "preferences write failed")
			return
		}
		w.WriteHeader(http.StatusCreated)

	case http.MethodPatch:
		_, id, ok := s.ownRow(w, r)
		if !ok {
			return
		}
		var sel preferenceDomain.DailySelections
		if err := strictDecode(r, &sel); err != nil {
			writeRestError(w, http.StatusBadRequest, "400", "invalid request body")
			return
		}
		err := s.stores.PreferenceStore.UpdateDaily(r.Context(), id, sel)
		if errors.Is(err, sql.ErrNoRows) {
			writeRestError(w, http.StatusNotFound, noRowCode, "The result contains 0 rows")
			return
		}
		if err != nil {
			writeRestError(w, http.StatusInternalServerError, "500", "preferences update failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleMenuItems serves the read-only menu reference. The list is
// public: the wizard shows it before any row access is personalised.
func (s *Server) handleMenuItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	items, err := s.stores.MenuItemStore.List(r.Context())
	if err != nil {
		writeRestError(w, http.StatusInternalServerError, "500", "menu read failed")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleAnnouncements serves the announcement feed and staff posting.
func (s *Server) handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.stores.AnnouncementStore.List(r.Context())
		if err != nil {
			writeRestError(w, http.StatusInternalServerError, "500", "announcements read failed")
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		sess, ok := s.bearerSession(r)
		if !ok {
			writeRestError(w, http.StatusUnauthorized, "401", "JWT required")
			return
		}
		prof, err := s.stores.ProfileStore.GetByID(r.Context(), sess.userID)
		if err != nil || !prof.IsStaff() {
			writeRestError(w, http.StatusForbidden, "42501", "staff role required")
			return
		}
		var a announcementDomain.Announcement
		if err := strictDecode(r, &a); err != nil {
			writeRestError(w, http.StatusBadRequest, "400", "invalid request body")
			return
		}
		a.CreatedBy = sess.userID
		if err := a.Validate(); err != nil {
			writeRestError(w, http.StatusBadRequest, "400", err.Error())
			return
		}
		if err := s.stores.AnnouncementStore.Save(r.Context(), a); err != nil {
			writeRestError(w, http.StatusInternalServerError, "500", "announcement write failed")
			return
		}
		slog.Info("announcement_stored", "id", a.ID, "author", sess.userID)
		w.WriteHeader(http.StatusCreated)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
