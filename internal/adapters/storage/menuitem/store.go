package menuitem

import (
	"context"

	domain "canteen/internal/domain/menu"
)

// Store reads the menu reference list.
type Store interface {
	List(ctx context.Context) ([]domain.Item, error)
	Seed(ctx context.Context, names []string) error
}
