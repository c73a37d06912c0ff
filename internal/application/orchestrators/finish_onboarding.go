package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"canteen/internal/domain/preference"
	"canteen/internal/domain/wizard"
)

// PreferenceWriterForCommit defines the backend write needed by the
// wizard commit.
type PreferenceWriterForCommit interface {
	UpsertPreferences(ctx context.Context, token string, p preference.Preferences) error
}

// FinishOnboardingInput carries the final wizard commit.
type FinishOnboardingInput struct {
	UserID string
	Token  string
	Draft  wizard.Draft
}

// FinishOnboardingDeps holds dependencies for FinishOnboarding.
type FinishOnboardingDeps struct {
	Preferences PreferenceWriterForCommit
}

var ErrNotAuthenticated = errors.New("not authenticated")

// ExecuteFinishOnboarding commits the collected draft as a single atomic
// upsert. On failure the caller keeps the draft and stays on the review
// step. Nothing is lost; the user resubmits.
// PRE: the draft passed the wizard's step gates
// POST: on success, exactly one preferences row mirrors the draft
func ExecuteFinishOnboarding(ctx context.Context, input FinishOnboardingInput, deps FinishOnboardingDeps) error {
	if input.UserID == "" {
		return ErrNotAuthenticated
	}

	prefs := preference.FromDraft(input.UserID, input.Draft)
	if err := prefs.Validate(); err != nil {
		return err
	}

	if err := deps.Preferences.UpsertPreferences(ctx, input.Token, prefs); err != nil {
		slog.Error("preferences_commit_failed", "user_id", input.UserID, "error", err.Error())
		return err
	}

	slog.Info("preferences_committed", "user_id", input.UserID, "diet", prefs.Diet, "items", len(prefs.MenuItems))
	return nil
}
