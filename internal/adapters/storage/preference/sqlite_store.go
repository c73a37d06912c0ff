package preference

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	domain "canteen/internal/domain/preference"
)

// SQLiteStore implements Store using SQLite. The menu item list is
// stored as a JSON array in a single column; it is only ever read and
// written whole.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves the Preferences row for a user.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Preferences, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, diet, menu_items, is_recurring, daily_morning, daily_afternoon, daily_evening
		 FROM preferences WHERE id = ?`, id)

	var entity domain.Preferences
	var items string
	var recurring int
	err := row.Scan(&entity.ID, &entity.Diet, &items, &recurring,
		&entity.DailyMorning, &entity.DailyAfternoon, &entity.DailyEvening)
	if err == sql.ErrNoRows {
		return domain.Preferences{}, fmt.Errorf("preferences not found: %w", err)
	}
	if err != nil {
		return domain.Preferences{}, err
	}
	entity.IsRecurring = recurring != 0
	if err := json.Unmarshal([]byte(items), &entity.MenuItems); err != nil {
		return domain.Preferences{}, fmt.Errorf("corrupt menu_items for %s: %w", id, err)
	}
	return entity, nil
}

// Save persists a full Preferences row. The three daily columns are part
// of the row and are overwritten too; the wizard commit is the only
// caller and always carries them.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Preferences) error {
	items, err := json.Marshal(entity.MenuItems)
	if err != nil {
		return err
	}
	recurring := 0
	if entity.IsRecurring {
		recurring = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences (id, diet, menu_items, is_recurring, daily_morning, daily_afternoon, daily_evening)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   diet=excluded.diet, menu_items=excluded.menu_items,
		   is_recurring=excluded.is_recurring, daily_morning=excluded.daily_morning,
		   daily_afternoon=excluded.daily_afternoon, daily_evening=excluded.daily_evening`,
		entity.ID, entity.Diet, string(items), recurring,
		entity.DailyMorning, entity.DailyAfternoon, entity.DailyEvening)
	return err
}

// UpdateDaily overwrites only the three daily-slot columns. Diet, menu
// items and the recurring flag are left untouched.
// PRE: a preferences row exists for id
// POST: daily columns match sel; all other columns unchanged
func (s *SQLiteStore) UpdateDaily(ctx context.Context, id string, sel domain.DailySelections) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE preferences SET daily_morning = ?, daily_afternoon = ?, daily_evening = ?
		 WHERE id = ?`,
		sel.Morning, sel.Afternoon, sel.Evening, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("preferences not found: %w", sql.ErrNoRows)
	}
	return nil
}
