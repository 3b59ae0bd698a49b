package utils

import (
	"time"

	"github.com/julianstephens/daylog/internal/models"
)

// ShouldOccur determines if a habit is expected on the given date based on
// its frequency kind. The rule is shared by the exporter and the live views
// so both report the same expectations.
func ShouldOccur(habit models.Habit, date time.Time) bool {
	switch habit.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekdays:
		wd := date.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	case models.FrequencyWeekends:
		wd := date.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	case models.FrequencyWeekly:
		if habit.StartDate.IsZero() {
			return false
		}
		return date.Weekday() == habit.StartDate.Weekday()
	case models.FrequencyCustom:
		return habit.CustomDaySet().Contains(models.WeekdayNumber(date))
	default:
		return false
	}
}

// CountOccurrences returns how many days in [start, end] the habit is
// expected on. Both bounds are inclusive and compared by calendar day.
func CountOccurrences(habit models.Habit, start, end time.Time) int {
	count := 0
	for d := models.Day(start); !d.After(models.Day(end)); d = d.AddDate(0, 0, 1) {
		if ShouldOccur(habit, d) {
			count++
		}
	}
	return count
}

// DaysInMonth returns every calendar day of the month containing t.
func DaysInMonth(t time.Time) []time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	var days []time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
