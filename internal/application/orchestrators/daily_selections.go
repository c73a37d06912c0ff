package orchestrators

import (
	"context"
	"log/slog"

	"canteen/internal/domain/preference"
)

// DailySelectionsWriter defines the backend write needed by the daily
// preference save.
type DailySelectionsWriter interface {
	UpdateDailySelections(ctx context.Context, token, userID string, sel preference.DailySelections) error
}

// SaveDailySelectionsInput carries the three daily-slot values. An empty
// string clears a slot.
type SaveDailySelectionsInput struct {
	UserID     string
	Token      string
	Selections preference.DailySelections
}

// SaveDailySelectionsDeps holds dependencies for SaveDailySelections.
type SaveDailySelectionsDeps struct {
	Preferences DailySelectionsWriter
}

// ExecuteSaveDailySelections writes only the three daily-slot columns.
// The update merges by column: diet, menu items and the recurring flag
// are never touched by this path.
func ExecuteSaveDailySelections(ctx context.Context, input SaveDailySelectionsInput, deps SaveDailySelectionsDeps) error {
	if input.UserID == "" {
		return ErrNotAuthenticated
	}
	if err := deps.Preferences.UpdateDailySelections(ctx, input.Token, input.UserID, input.Selections); err != nil {
		slog.Error("daily_selections_save_failed", "user_id", input.UserID, "error", err.Error())
		return err
	}
	slog.Info("daily_selections_saved", "user_id", input.UserID)
	return nil
}
