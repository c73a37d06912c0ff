package preference

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"canteen/internal/adapters/storage"
	domain "canteen/internal/domain/preference"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return NewSQLiteStore(db)
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := domain.Preferences{
		ID:          "u1",
		Diet:        "Vegetarian",
		MenuItems:   []string{"Dosa", "Idli"},
		IsRecurring: true,
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Diet != "Vegetarian" || !got.IsRecurring {
		t.Errorf("got %+v", got)
	}
	if len(got.MenuItems) != 2 || got.MenuItems[0] != "Dosa" || got.MenuItems[1] != "Idli" {
		t.Errorf("menu items = %v", got.MenuItems)
	}
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(context.Background(), "nobody")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("GetByID = %v, want ErrNoRows", err)
	}
}

// TestSQLiteStore_SaveReplacesRow verifies the one-row-per-user upsert:
// a second commit overwrites the first.
func TestSQLiteStore_SaveReplacesRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := domain.Preferences{ID: "u1", Diet: "Vegetarian", MenuItems: []string{"Dosa"}}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second := domain.Preferences{ID: "u1", Diet: "Both", MenuItems: []string{"Biryani"}, IsRecurring: true}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Diet != "Both" || len(got.MenuItems) != 1 || got.MenuItems[0] != "Biryani" {
		t.Errorf("got %+v, want second commit to win", got)
	}
}

// TestSQLiteStore_UpdateDaily verifies the column-level merge: the daily
// update must not touch diet, menu items or the recurring flag.
func TestSQLiteStore_UpdateDaily(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := domain.Preferences{ID: "u1", Diet: "Non-Vegetarian", MenuItems: []string{"Biryani"}, IsRecurring: true}
	if err := store.Save(ctx, base); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sel := domain.DailySelections{Morning: "Dosa", Afternoon: "Meals", Evening: ""}
	if err := store.UpdateDaily(ctx, "u1", sel); err != nil {
		t.Fatalf("UpdateDaily: %v", err)
	}

	got, err := store.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DailyMorning != "Dosa" || got.DailyAfternoon != "Meals" || got.DailyEvening != "" {
		t.Errorf("daily columns = %q/%q/%q", got.DailyMorning, got.DailyAfternoon, got.DailyEvening)
	}
	if got.Diet != "Non-Vegetarian" || !got.IsRecurring || len(got.MenuItems) != 1 {
		t.Errorf("non-daily columns mutated: %+v", got)
	}
}

func TestSQLiteStore_UpdateDailyMissingRow(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateDaily(context.Background(), "nobody", domain.DailySelections{Morning: "Dosa"})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("UpdateDaily = %v, want ErrNoRows", err)
	}
}
