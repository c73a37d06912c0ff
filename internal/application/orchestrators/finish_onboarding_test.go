package orchestrators_test

import (
	"context"
	"errors"
	"testing"

	"canteen/internal/application/orchestrators"
	"canteen/internal/domain/preference"
	"canteen/internal/domain/wizard"
)

// mockPreferenceWriter records preference writes.
type mockPreferenceWriter struct {
	saved   []preference.Preferences
	daily   []preference.DailySelections
	err     error
	dailyID string
}

func (m *mockPreferenceWriter) UpsertPreferences(ctx context.Context, token string, p preference.Preferences) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, p)
	return nil
}

func (m *mockPreferenceWriter) UpdateDailySelections(ctx context.Context, token, userID string, sel preference.DailySelections) error {
	if m.err != nil {
		return m.err
	}
	m.dailyID = userID
	m.daily = append(m.daily, sel)
	return nil
}

func onboardingDraft() wizard.Draft {
	d := wizard.Draft{}
	d.SelectDiet(wizard.DietVegetarian)
	d.AddMenuItem("Dosa")
	d.AddMenuItem("Idli")
	d.IsRecurring = true
	return d
}

// TestExecuteFinishOnboarding_SingleUpsert tests that the commit writes
// the whole draft in one operation.
func TestExecuteFinishOnboarding_SingleUpsert(t *testing.T) {
	writer := &mockPreferenceWriter{}
	deps := orchestrators.FinishOnboardingDeps{Preferences: writer}

	err := orchestrators.ExecuteFinishOnboarding(context.Background(), orchestrators.FinishOnboardingInput{
		UserID: "u1",
		Token:  "tok-1",
		Draft:  onboardingDraft(),
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteFinishOnboarding: %v", err)
	}

	if len(writer.saved) != 1 {
		t.Fatalf("writes = %d, want 1", len(writer.saved))
	}
	got := writer.saved[0]
	if got.ID != "u1" || got.Diet != wizard.DietVegetarian || !got.IsRecurring {
		t.Errorf("committed preferences = %+v", got)
	}
	if len(got.MenuItems) != 2 || got.MenuItems[0] != "Dosa" || got.MenuItems[1] != "Idli" {
		t.Errorf("committed items = %v", got.MenuItems)
	}
}

// TestExecuteFinishOnboarding_WriteFailure tests that a failed commit
// surfaces the error and leaves the draft untouched for resubmission.
func TestExecuteFinishOnboarding_WriteFailure(t *testing.T) {
	writer := &mockPreferenceWriter{err: errors.New("backend: status 500")}
	deps := orchestrators.FinishOnboardingDeps{Preferences: writer}

	draft := onboardingDraft()
	err := orchestrators.ExecuteFinishOnboarding(context.Background(), orchestrators.FinishOnboardingInput{
		UserID: "u1",
		Token:  "tok-1",
		Draft:  draft,
	}, deps)
	if err == nil {
		t.Fatal("expected commit error")
	}
	if draft.Diet != wizard.DietVegetarian || len(draft.MenuItems) != 2 {
		t.Errorf("draft mutated by failed commit: %+v", draft)
	}
}

// TestExecuteFinishOnboarding_NoSession tests the authentication guard.
func TestExecuteFinishOnboarding_NoSession(t *testing.T) {
	writer := &mockPreferenceWriter{}
	deps := orchestrators.FinishOnboardingDeps{Preferences: writer}

	err := orchestrators.ExecuteFinishOnboarding(context.Background(), orchestrators.FinishOnboardingInput{
		Draft: onboardingDraft(),
	}, deps)
	if !errors.Is(err, orchestrators.ErrNotAuthenticated) {
		t.Fatalf("ExecuteFinishOnboarding = %v, want ErrNotAuthenticated", err)
	}
	if len(writer.saved) != 0 {
		t.Error("write attempted without a session")
	}
}

// TestExecuteFinishOnboarding_NoDiet tests that a draft without a diet
// never reaches the backend.
func TestExecuteFinishOnboarding_NoDiet(t *testing.T) {
	writer := &mockPreferenceWriter{}
	deps := orchestrators.FinishOnboardingDeps{Preferences: writer}

	err := orchestrators.ExecuteFinishOnboarding(context.Background(), orchestrators.FinishOnboardingInput{
		UserID: "u1",
		Token:  "tok-1",
		Draft:  wizard.Draft{},
	}, deps)
	if !errors.Is(err, preference.ErrInvalidDiet) {
		t.Fatalf("ExecuteFinishOnboarding = %v, want ErrInvalidDiet", err)
	}
	if len(writer.saved) != 0 {
		t.Error("invalid draft was written")
	}
}

// TestExecuteSaveDailySelections tests that the daily save only carries
// the three slot values.
func TestExecuteSaveDailySelections(t *testing.T) {
	writer := &mockPreferenceWriter{}
	deps := orchestrators.SaveDailySelectionsDeps{Preferences: writer}

	sel := preference.DailySelections{Morning: "Dosa", Afternoon: "Meals", Evening: ""}
	err := orchestrators.ExecuteSaveDailySelections(context.Background(), orchestrators.SaveDailySelectionsInput{
		UserID:     "u1",
		Token:      "tok-1",
		Selections: sel,
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteSaveDailySelections: %v", err)
	}
	if writer.dailyID != "u1" {
		t.Errorf("target user = %q, want u1", writer.dailyID)
	}
	if len(writer.daily) != 1 || writer.daily[0] != sel {
		t.Errorf("daily writes = %v", writer.daily)
	}
}
