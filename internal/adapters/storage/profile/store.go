package profile

import (
	"context"

	domain "canteen/internal/domain/profile"
)

// Store persists Profile state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
}
