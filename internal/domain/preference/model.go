package preference

import (
	"errors"

	"canteen/internal/domain/wizard"
)

// Domain errors
var (
	ErrEmptyID     = errors.New("preferences must carry a user id")
	ErrInvalidDiet = errors.New("diet must be Vegetarian, Non-Vegetarian or Both")
)

// Preferences is the one-per-user preference row. Its existence signals
// completed onboarding. The three daily slots are optional; an empty
// string means unset.
type Preferences struct {
	ID             string   `json:"id"`
	Diet           string   `json:"diet"`
	MenuItems      []string `json:"menu_items"`
	IsRecurring    bool     `json:"is_recurring"`
	DailyMorning   string   `json:"daily_morning,omitempty"`
	DailyAfternoon string   `json:"daily_afternoon,omitempty"`
	DailyEvening   string   `json:"daily_evening,omitempty"`
}

// DailySelections carries only the three daily-slot columns for the
// partial save on the profile page. The update must merge by column,
// leaving diet, menu items and the recurring flag untouched.
type DailySelections struct {
	Morning   string `json:"daily_morning"`
	Afternoon string `json:"daily_afternoon"`
	Evening   string `json:"daily_evening"`
}

// FromDraft builds a committable preferences row for userID from a wizard
// draft. The commit is a single atomic upsert of this value.
func FromDraft(userID string, d wizard.Draft) Preferences {
	return Preferences{
		ID:          userID,
		Diet:        d.Diet,
		MenuItems:   d.MenuItems,
		IsRecurring: d.IsRecurring,
	}
}

// Validate checks the row before commit.
// PRE: Preferences built from a completed wizard draft
// POST: Returns nil if committable
func (p *Preferences) Validate() error {
	if p.ID == "" {
		return ErrEmptyID
	}
	if !wizard.IsValidDiet(p.Diet) {
		return ErrInvalidDiet
	}
	return nil
}
