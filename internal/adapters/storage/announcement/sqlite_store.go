package announcement

import (
	"context"
	"database/sql"
	"time"

	domain "canteen/internal/domain/announcement"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an Announcement.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Announcement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO announcements (id, title, body, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, body=excluded.body`,
		entity.ID, entity.Title, entity.Body, entity.CreatedBy,
		entity.CreatedAt.Format(timeLayout))
	return err
}

// List retrieves all announcements, newest first.
// POST: results are ordered by created_at descending
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Announcement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, body, created_by, created_at FROM announcements ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Announcement
	for rows.Next() {
		var entity domain.Announcement
		var createdAt string
		if err := rows.Scan(&entity.ID, &entity.Title, &entity.Body, &entity.CreatedBy, &createdAt); err != nil {
			return nil, err
		}
		entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		results = append(results, entity)
	}
	return results, rows.Err()
}
