package announcement

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength = 120
	MaxBodyLength  = 4000
)

// Domain errors
var (
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrEmptyBody    = errors.New("body cannot be empty")
	ErrTitleTooLong = errors.New("title cannot exceed 120 characters")
	ErrBodyTooLong  = errors.New("body cannot exceed 4000 characters")
)

// Announcement is a staff-authored notice shown on the dashboard. The
// body is markdown, rendered at display time.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the Announcement has publishable content.
// PRE: Announcement struct is populated from form input
// POST: Returns nil if valid, error otherwise
func (a *Announcement) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if len(a.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(a.Body) == "" {
		return ErrEmptyBody
	}
	if len(a.Body) > MaxBodyLength {
		return ErrBodyTooLong
	}
	return nil
}
