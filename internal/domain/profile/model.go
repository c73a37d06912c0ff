package profile

import (
	"errors"
	"strings"
)

// Role constants. Staff accounts gain access to the staff area; every
// other profile defaults to the student role.
const (
	RoleStudent = "student"
	RoleStaff   = "staff"
)

// Domain errors
var (
	ErrEmptyName            = errors.New("name cannot be empty")
	ErrEmptyPhone           = errors.New("phone cannot be empty")
	ErrEmptyAdmissionNumber = errors.New("admission number cannot be empty")
	ErrEmptyDepartment      = errors.New("department cannot be empty")
	ErrEmptySemester        = errors.New("semester cannot be empty")
	ErrInvalidRole          = errors.New("role must be student or staff")
)

// Profile holds the per-user profile row. ID is the backend's user
// identifier; exactly one profile exists per user. A profile existing
// does not imply onboarding completion; that is signalled by the
// preferences row.
type Profile struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	AdmissionNumber string `json:"admission_number"`
	Department      string `json:"department"`
	Semester        string `json:"semester"`
	Role            string `json:"role"`
}

// Validate checks the signup-required fields. Role may be empty; the
// backend defaults it to student.
// PRE: Profile struct is populated from form input
// POST: Returns nil if valid, first failing field error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(p.Phone) == "" {
		return ErrEmptyPhone
	}
	if strings.TrimSpace(p.AdmissionNumber) == "" {
		return ErrEmptyAdmissionNumber
	}
	if strings.TrimSpace(p.Department) == "" {
		return ErrEmptyDepartment
	}
	if strings.TrimSpace(p.Semester) == "" {
		return ErrEmptySemester
	}
	if p.Role != "" && p.Role != RoleStudent && p.Role != RoleStaff {
		return ErrInvalidRole
	}
	return nil
}

// IsStaff returns true for staff-role profiles.
// INVARIANT: Profile fields are not mutated
func (p *Profile) IsStaff() bool {
	return p.Role == RoleStaff
}

// FirstName returns the leading word of the profile name, used for
// dashboard greetings.
func (p *Profile) FirstName() string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return "User"
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
