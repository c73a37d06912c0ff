package preference

import (
	"context"

	domain "canteen/internal/domain/preference"
)

// Store persists Preferences state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Preferences, error)
	Save(ctx context.Context, value domain.Preferences) error
	UpdateDaily(ctx context.Context, id string, sel domain.DailySelections) error
}
