package menuitem

import (
	"context"
	"database/sql"

	domain "canteen/internal/domain/menu"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// List retrieves all menu items in reference order.
// POST: items are ordered by id ascending
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM menu_items ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// Seed inserts the reference items if they are not present. Existing
// rows keep their IDs, so reference order is stable across restarts.
// POST: every name has a row; duplicates are ignored
func (s *SQLiteStore) Seed(ctx context.Context, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO menu_items (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name); err != nil {
			return err
		}
	}
	return tx.Commit()
}
