package profile

import (
	"context"
	"database/sql"
	"fmt"

	domain "canteen/internal/domain/profile"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Profile by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, admission_number, department, semester, role
		 FROM profiles WHERE id = ?`, id)

	var entity domain.Profile
	err := row.Scan(&entity.ID, &entity.Name, &entity.Phone, &entity.AdmissionNumber,
		&entity.Department, &entity.Semester, &entity.Role)
	if err == sql.ErrNoRows {
		return domain.Profile{}, fmt.Errorf("profile not found: %w", err)
	}
	return entity, err
}

// Save persists a Profile to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, phone, admission_number, department, semester, role)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, phone=excluded.phone,
		   admission_number=excluded.admission_number, department=excluded.department,
		   semester=excluded.semester, role=excluded.role`,
		entity.ID, entity.Name, entity.Phone, entity.AdmissionNumber,
		entity.Department, entity.Semester, entity.Role)
	return err
}
