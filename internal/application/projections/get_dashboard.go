package projections

import (
	"context"
	"log/slog"

	"canteen/internal/domain/announcement"
)

// AnnouncementReader defines the backend read needed by the dashboard
// announcements panel.
type AnnouncementReader interface {
	ListAnnouncements(ctx context.Context, token string) ([]announcement.Announcement, error)
}

// DashboardReader combines the reads the dashboard needs.
type DashboardReader interface {
	UserDataReader
	AnnouncementReader
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Token  string
	UserID string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Backend DashboardReader
}

// DashboardResult carries the dashboard's data. Nil Profile/Preferences
// render as placeholders.
type DashboardResult struct {
	UserDataResult
	Announcements []announcement.Announcement
}

// QueryGetDashboard assembles the dashboard: the combined user data plus
// staff announcements. An announcements failure degrades to an empty
// panel.
func QueryGetDashboard(ctx context.Context, q GetDashboardQuery, deps GetDashboardDeps) DashboardResult {
	data := QueryFetchUserData(ctx, FetchUserDataQuery{Token: q.Token, UserID: q.UserID}, FetchUserDataDeps{Backend: deps.Backend})

	anns, err := deps.Backend.ListAnnouncements(ctx, q.Token)
	if err != nil {
		slog.Warn("announcements_fetch_failed", "error", err.Error())
		anns = nil
	}

	return DashboardResult{UserDataResult: data, Announcements: anns}
}
