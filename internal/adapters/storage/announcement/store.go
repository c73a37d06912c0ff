package announcement

import (
	"context"

	domain "canteen/internal/domain/announcement"
)

// Store persists Announcement state.
type Store interface {
	Save(ctx context.Context, value domain.Announcement) error
	List(ctx context.Context) ([]domain.Announcement, error)
}
