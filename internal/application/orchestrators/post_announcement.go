package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"canteen/internal/domain/announcement"

	"github.com/google/uuid"
)

// AnnouncementWriter defines the backend write needed by announcement
// publishing.
type AnnouncementWriter interface {
	CreateAnnouncement(ctx context.Context, token string, a announcement.Announcement) error
}

// PostAnnouncementInput carries a new staff announcement.
type PostAnnouncementInput struct {
	Title    string
	Body     string
	AuthorID string
	Token    string
}

// PostAnnouncementDeps holds dependencies for PostAnnouncement.
type PostAnnouncementDeps struct {
	Announcements AnnouncementWriter
}

// ExecutePostAnnouncement validates and publishes a staff announcement.
// PRE: the caller has passed the staff gate
// POST: announcement stored with a fresh ID and timestamp
func ExecutePostAnnouncement(ctx context.Context, input PostAnnouncementInput, deps PostAnnouncementDeps) (announcement.Announcement, error) {
	if input.AuthorID == "" {
		return announcement.Announcement{}, ErrNotAuthenticated
	}

	a := announcement.Announcement{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Body:      input.Body,
		CreatedBy: input.AuthorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return announcement.Announcement{}, err
	}

	if err := deps.Announcements.CreateAnnouncement(ctx, input.Token, a); err != nil {
		slog.Error("announcement_post_failed", "author", input.AuthorID, "error", err.Error())
		return announcement.Announcement{}, err
	}
	slog.Info("announcement_posted", "id", a.ID, "author", input.AuthorID)
	return a, nil
}
