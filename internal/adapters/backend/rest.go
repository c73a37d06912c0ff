package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"canteen/internal/domain/announcement"
	"canteen/internal/domain/menu"
	"canteen/internal/domain/preference"
	"canteen/internal/domain/profile"
)

// Row-service request headers. Upserts must merge by column so a partial
// write never clobbers columns it does not carry.
const (
	preferMerge     = "resolution=merge-duplicates,return=minimal"
	acceptSingleRow = "application/vnd.pgrst.object+json"
)

// getSingle reads the one row of table whose id equals id into dest.
// Zero matching rows yields ErrNoRows.
func (c *Client) getSingle(ctx context.Context, token, table, id string, dest any) error {
	path := "/rest/v1/" + table + "?select=*&id=eq." + url.QueryEscape(id)
	headers := map[string]string{"Accept": acceptSingleRow}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	resp, err := c.do(ctx, http.MethodGet, path, headers, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// upsert inserts or updates one row keyed by its id column. The merge
// preference makes re-sending identical fields a no-op.
func (c *Client) upsert(ctx context.Context, token, table string, row any) error {
	headers := map[string]string{"Prefer": preferMerge}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	resp, err := c.do(ctx, http.MethodPost, "/rest/v1/"+table, headers, row)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK &&
		resp.StatusCode != http.StatusNoContent {
		return decodeError(resp)
	}
	return nil
}

// patch updates only the columns present in body on the row matching id.
func (c *Client) patch(ctx context.Context, token, table, id string, body any) error {
	path := "/rest/v1/" + table + "?id=eq." + url.QueryEscape(id)
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	resp, err := c.do(ctx, http.MethodPatch, path, headers, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return decodeError(resp)
	}
	return nil
}

// GetProfile reads the profile row for userID. ErrNoRows when absent.
func (c *Client) GetProfile(ctx context.Context, token, userID string) (profile.Profile, error) {
	var p profile.Profile
	err := c.getSingle(ctx, token, "profiles", userID, &p)
	return p, err
}

// UpsertProfile persists a profile row keyed by its ID. Idempotent.
func (c *Client) UpsertProfile(ctx context.Context, token string, p profile.Profile) error {
	return c.upsert(ctx, token, "profiles", p)
}

// GetPreferences reads the preferences row for userID. ErrNoRows when the
// user has not completed onboarding.
func (c *Client) GetPreferences(ctx context.Context, token, userID string) (preference.Preferences, error) {
	var p preference.Preferences
	err := c.getSingle(ctx, token, "preferences", userID, &p)
	return p, err
}

// UpsertPreferences commits a full preferences row in one atomic upsert.
// No partial commit is possible: the row either lands whole or the call
// fails.
func (c *Client) UpsertPreferences(ctx context.Context, token string, p preference.Preferences) error {
	return c.upsert(ctx, token, "preferences", p)
}

// UpdateDailySelections blind-overwrites only the three daily-slot
// columns, leaving diet, menu items and the recurring flag untouched.
func (c *Client) UpdateDailySelections(ctx context.Context, token, userID string, sel preference.DailySelections) error {
	return c.patch(ctx, token, "preferences", userID, sel)
}

// ListMenuItems reads the read-only menu reference, ordered by id.
func (c *Client) ListMenuItems(ctx context.Context, token string) ([]menu.Item, error) {
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	resp, err := c.do(ctx, http.MethodGet, "/rest/v1/menu_items?select=id,name&order=id", headers, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var items []menu.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListAnnouncements reads staff announcements, newest first.
func (c *Client) ListAnnouncements(ctx context.Context, token string) ([]announcement.Announcement, error) {
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	resp, err := c.do(ctx, http.MethodGet, "/rest/v1/announcements?select=*&order=created_at.desc", headers, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var list []announcement.Announcement
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateAnnouncement inserts a staff announcement.
func (c *Client) CreateAnnouncement(ctx context.Context, token string, a announcement.Announcement) error {
	return c.upsert(ctx, token, "announcements", a)
}
