package wizard

import (
	"errors"
	"math"
	"strings"
)

// Step identifies one screen of the onboarding wizard.
type Step int

// Wizard steps in order. Auth and Success bracket the three
// progress-bearing steps.
const (
	StepAuth Step = iota + 1
	StepDiet
	StepMenu
	StepReview
	StepSuccess
)

// TotalSteps is the number of wizard steps including Auth and Success.
const TotalSteps = 5

// Diet choices. Selection is mutually exclusive, last write wins.
const (
	DietVegetarian    = "Vegetarian"
	DietNonVegetarian = "Non-Vegetarian"
	DietBoth          = "Both"
)

// ValidDiets contains all accepted diet values.
var ValidDiets = []string{DietVegetarian, DietNonVegetarian, DietBoth}

// Domain errors
var (
	ErrNoForwardStep   = errors.New("no forward step from here")
	ErrNoBackStep      = errors.New("no back step from here")
	ErrDietNotSelected = errors.New("select a dietary preference to continue")
	ErrInvalidDiet     = errors.New("diet must be Vegetarian, Non-Vegetarian or Both")
)

// String returns the step name.
func (s Step) String() string {
	switch s {
	case StepAuth:
		return "auth"
	case StepDiet:
		return "diet"
	case StepMenu:
		return "menu"
	case StepReview:
		return "review"
	case StepSuccess:
		return "success"
	}
	return "unknown"
}

// Draft holds the in-memory, not-yet-persisted preference data collected
// across wizard steps. It mirrors exactly one preferences row once
// committed.
type Draft struct {
	Diet        string
	MenuItems   []string
	IsRecurring bool
}

// SelectDiet records a diet choice.
// PRE: diet is one of ValidDiets
// POST: Draft.Diet is replaced; previous selection is discarded
func (d *Draft) SelectDiet(diet string) error {
	if !IsValidDiet(diet) {
		return ErrInvalidDiet
	}
	d.Diet = diet
	return nil
}

// AddMenuItem appends a favourite item to the draft list.
// Items are trimmed and deduplicated by exact string match; free-text
// entries are not validated against the menu reference.
// POST: item appears at most once in MenuItems
func (d *Draft) AddMenuItem(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, item := range d.MenuItems {
		if item == name {
			return false
		}
	}
	d.MenuItems = append(d.MenuItems, name)
	return true
}

// RemoveMenuItem removes all occurrences matching name.
// POST: no element of MenuItems equals name
func (d *Draft) RemoveMenuItem(name string) {
	kept := d.MenuItems[:0]
	for _, item := range d.MenuItems {
		if item != name {
			kept = append(kept, item)
		}
	}
	d.MenuItems = kept
}

// Machine is the explicit wizard state machine: the current step plus the
// draft being collected. One Machine exists per visitor session.
type Machine struct {
	step     Step
	Draft    Draft
	prepared bool // review preparation has captured current control state
}

// NewMachine returns a Machine positioned on the auth step.
func NewMachine() *Machine {
	return &Machine{step: StepAuth}
}

// Step returns the current step.
// INVARIANT: Machine fields are not mutated
func (m *Machine) Step() Step {
	return m.step
}

// forward is the transition table for the "next" control. Success is
// terminal: navigation away happens outside the machine.
var forward = map[Step]Step{
	StepAuth:   StepDiet,
	StepDiet:   StepMenu,
	StepMenu:   StepReview,
	StepReview: StepSuccess,
}

// backward is the transition table for the "back" control. Auth has no
// predecessor and Success is one-way.
var backward = map[Step]Step{
	StepDiet:   StepAuth,
	StepMenu:   StepDiet,
	StepReview: StepMenu,
}

// Next advances to the following step, enforcing per-step gates:
// leaving Diet requires a diet selection.
// POST: on success, Step() is the next step in sequence
func (m *Machine) Next() error {
	next, ok := forward[m.step]
	if !ok {
		return ErrNoForwardStep
	}
	if m.step == StepDiet && m.Draft.Diet == "" {
		return ErrDietNotSelected
	}
	m.step = next
	return nil
}

// Back moves to the previous step. Success is one-way.
// POST: on success, Step() is the previous step in sequence
func (m *Machine) Back() error {
	prev, ok := backward[m.step]
	if !ok {
		return ErrNoBackStep
	}
	m.step = prev
	m.prepared = false
	return nil
}

// PrepareReview captures the recurring checkbox state into the draft.
// The review screen renders from the draft assembled here, not from a
// previously saved snapshot; re-forwarding re-captures control state.
// POST: Draft.IsRecurring reflects recurring; review gate is satisfied
func (m *Machine) PrepareReview(recurring bool) {
	m.Draft.IsRecurring = recurring
	m.prepared = true
}

// Prepared reports whether review preparation has run since the last
// backward navigation.
func (m *Machine) Prepared() bool {
	return m.prepared
}

// CanAdvance reports whether the "next" control should be enabled for the
// current step.
func (m *Machine) CanAdvance() bool {
	if _, ok := forward[m.step]; !ok {
		return false
	}
	if m.step == StepDiet {
		return m.Draft.Diet != ""
	}
	return true
}

// OnSessionEstablished reacts to a session-established notification:
// a visitor sitting on the auth step is moved forward to Diet. The auth
// action itself never calls Next.
// POST: Step() is at least StepDiet
func (m *Machine) OnSessionEstablished() {
	if m.step == StepAuth {
		m.step = StepDiet
	}
}

// OnSessionCleared reacts to logout or session expiry by returning to the
// auth step. The draft is kept; re-authenticating resumes it.
// POST: Step() == StepAuth
func (m *Machine) OnSessionCleared() {
	m.step = StepAuth
	m.prepared = false
}

// SkipAuth positions a machine for an already-authenticated visitor who
// has not completed onboarding.
// POST: Step() is at least StepDiet
func (m *Machine) SkipAuth() {
	if m.step == StepAuth {
		m.step = StepDiet
	}
}

// ShowsProgress reports whether the progress indicator is visible for s.
// Only the three middle steps carry the indicator.
func ShowsProgress(s Step) bool {
	return s > StepAuth && s < StepSuccess
}

// Progress returns the progress percentage for s: how far through the
// progress-bearing steps the visitor is, clamped to [0,100] and rounded
// to the nearest integer. Diet is 0%, Review is 100%.
func Progress(s Step) int {
	userFacing := TotalSteps - 2
	pct := float64(s-StepDiet) / float64(userFacing-1) * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return int(math.Round(pct))
}

// IsValidDiet reports whether diet is an accepted value.
func IsValidDiet(diet string) bool {
	for _, d := range ValidDiets {
		if d == diet {
			return true
		}
	}
	return false
}
