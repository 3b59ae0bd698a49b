package models

import (
	"time"

	"github.com/juju/collections/set"
)

type FrequencyKind string

const (
	FrequencyDaily    FrequencyKind = "daily"
	FrequencyWeekdays FrequencyKind = "weekdays"
	FrequencyWeekends FrequencyKind = "weekends"
	FrequencyWeekly   FrequencyKind = "weekly"
	FrequencyCustom   FrequencyKind = "custom"
)

// CompletionState is the outcome recorded for a multi-state habit entry.
type CompletionState int

const (
	StateNone CompletionState = iota
	StateSuccess
	StatePartial
	StateFailure
)

func (s CompletionState) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StatePartial:
		return "partial"
	case StateFailure:
		return "failure"
	default:
		return "none"
	}
}

// Valid reports whether s is one of the known states.
func (s CompletionState) Valid() bool {
	return s >= StateNone && s <= StateFailure
}

// Habit represents a recurring practice to track
type Habit struct {
	ID                string
	Name              string
	Icon              string
	Color             string
	Frequency         FrequencyKind
	CustomDays        []int // weekday numbers, 1=Sunday .. 7=Saturday
	StartDate         time.Time
	Notes             string
	DisplayOrder      int
	TrackDetails      bool
	DetailKind        string
	UseMultipleStates bool
	CollectionID      string // empty when the habit has no collection
	CreatedAt         time.Time
}

// CustomDaySet returns the habit's custom weekday numbers as a set.
func (h Habit) CustomDaySet() set.Ints {
	return set.NewInts(h.CustomDays...)
}

// HabitEntry represents a single day's record of a habit
type HabitEntry struct {
	ID        string
	HabitID   string
	Date      time.Time
	Completed bool
	State     CompletionState
	Details   Details
}

// IsSuccess reports whether the entry counts as done for reporting.
func (e HabitEntry) IsSuccess() bool {
	return e.Completed || e.State == StateSuccess
}

// WeekdayNumber converts a date to the 1=Sunday .. 7=Saturday numbering used
// by custom habit day sets.
func WeekdayNumber(t time.Time) int {
	return int(t.Weekday()) + 1
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
