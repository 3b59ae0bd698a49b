package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/juju/collections/set"

	"github.com/julianstephens/daylog/internal/constants"
)

// Details is the free-form payload attached to a habit entry. It is either
// PlainText or a WorkoutLog.
type Details interface {
	isDetails()
	// Summary is a single-line, human readable rendering used by exports.
	Summary() string
}

// PlainText is free text entered for an entry.
type PlainText string

func (PlainText) isDetails() {}

func (p PlainText) Summary() string { return string(p) }

// WorkoutLog is the structured payload recorded for workout habits.
type WorkoutLog struct {
	Types           set.Strings
	DurationMinutes int
	Intensity       int // 1..5
	Notes           string
}

func (WorkoutLog) isDetails() {}

func (w WorkoutLog) Summary() string {
	var parts []string
	if w.Types.Size() > 0 {
		parts = append(parts, strings.Join(w.Types.SortedValues(), "/"))
	}
	if w.DurationMinutes > 0 {
		parts = append(parts, strconv.Itoa(w.DurationMinutes)+" min")
	}
	if w.Intensity > 0 {
		parts = append(parts, "intensity "+strconv.Itoa(w.Intensity))
	}
	if w.Notes != "" {
		parts = append(parts, w.Notes)
	}
	return strings.Join(parts, "; ")
}

// workoutWire is the stored form of a WorkoutLog.
type workoutWire struct {
	Types     []string `json:"types"`
	Duration  int      `json:"duration"`
	Intensity int      `json:"intensity"`
	Notes     string   `json:"notes,omitempty"`
}

// ParseDetails decodes a stored details string. A JSON object carrying
// workout keys becomes a WorkoutLog; anything else is PlainText. An empty
// string yields nil.
func ParseDetails(raw string) Details {
	if raw == "" {
		return nil
	}
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &probe); err == nil && isWorkoutShape(probe) {
			var w workoutWire
			if err := json.Unmarshal([]byte(trimmed), &w); err == nil {
				return WorkoutLog{
					Types:           set.NewStrings(w.Types...),
					DurationMinutes: max(w.Duration, 0),
					Intensity:       clampIntensity(w.Intensity),
					Notes:           w.Notes,
				}
			}
		}
	}
	return PlainText(raw)
}

// EncodeDetails is the inverse of ParseDetails.
func EncodeDetails(d Details) string {
	switch v := d.(type) {
	case nil:
		return constants.DefaultDetailsText
	case PlainText:
		return string(v)
	case WorkoutLog:
		types := v.Types.SortedValues()
		if types == nil {
			types = []string{}
		}
		data, err := json.Marshal(workoutWire{
			Types:     types,
			Duration:  v.DurationMinutes,
			Intensity: clampIntensity(v.Intensity),
			Notes:     v.Notes,
		})
		if err != nil {
			return v.Notes
		}
		return string(data)
	default:
		return d.Summary()
	}
}

func isWorkoutShape(m map[string]json.RawMessage) bool {
	_, hasTypes := m["types"]
	_, hasDuration := m["duration"]
	_, hasIntensity := m["intensity"]
	return hasTypes || hasDuration || hasIntensity
}

func clampIntensity(i int) int {
	if i < constants.MinWorkoutIntensity {
		return constants.MinWorkoutIntensity
	}
	if i > constants.MaxWorkoutIntensity {
		return constants.MaxWorkoutIntensity
	}
	return i
}

