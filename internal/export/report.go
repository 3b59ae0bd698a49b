package export

import (
	"io"
	"strconv"
	"time"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/utils"
)

var reportHeader = []string{
	"Habit", "Frequency", "Expected Days", "Completed Days",
	"Success", "Partial", "Failure", "Success Rate",
}

// HabitStats is one habit's line in a monthly report.
type HabitStats struct {
	Habit     models.Habit
	Expected  int
	Completed int
	// Per-state day counts, only filled for multi-state habits.
	Success int
	Partial int
	Failure int
}

func (s HabitStats) Rate() float64 {
	return rate(s.Completed, s.Expected)
}

// Report holds per-habit statistics for one calendar month, in display order.
type Report struct {
	Month  time.Time
	Habits []HabitStats
}

// BuildMonthlyReport counts, for each habit, the days of month it was
// expected on and how many of those days were completed. Days before a
// habit's start date are not expected.
func BuildMonthlyReport(habits []models.Habit, entries []models.HabitEntry, month time.Time) Report {
	byDay := make(map[string]models.HabitEntry, len(entries))
	for _, e := range entries {
		key := e.HabitID + "|" + date(e.Date)
		if _, ok := byDay[key]; !ok {
			byDay[key] = e
		}
	}

	days := utils.DaysInMonth(month)
	report := Report{Month: days[0]}
	for _, h := range sortHabits(habits) {
		stats := HabitStats{Habit: h}
		start := models.Day(h.StartDate)
		for _, d := range days {
			if !h.StartDate.IsZero() && d.Before(start) {
				continue
			}
			if !utils.ShouldOccur(h, d) {
				continue
			}
			stats.Expected++

			e, ok := byDay[h.ID+"|"+date(d)]
			if !ok {
				continue
			}
			if e.IsSuccess() {
				stats.Completed++
			}
			if h.UseMultipleStates {
				switch e.State {
				case models.StateSuccess:
					stats.Success++
				case models.StatePartial:
					stats.Partial++
				case models.StateFailure:
					stats.Failure++
				}
			}
		}
		report.Habits = append(report.Habits, stats)
	}
	return report
}

func (r Report) TotalExpected() int {
	n := 0
	for _, s := range r.Habits {
		n += s.Expected
	}
	return n
}

func (r Report) TotalCompleted() int {
	n := 0
	for _, s := range r.Habits {
		n += s.Completed
	}
	return n
}

func (r Report) OverallRate() float64 {
	return rate(r.TotalCompleted(), r.TotalExpected())
}

// MostSuccessful returns the habit with the highest success rate among
// those expected at least once. Ties go to the earlier habit.
func (r Report) MostSuccessful() (HabitStats, bool) {
	return r.pick(func(a, b float64) bool { return a > b })
}

// LeastSuccessful is MostSuccessful's counterpart.
func (r Report) LeastSuccessful() (HabitStats, bool) {
	return r.pick(func(a, b float64) bool { return a < b })
}

func (r Report) pick(better func(a, b float64) bool) (HabitStats, bool) {
	var best HabitStats
	found := false
	for _, s := range r.Habits {
		if s.Expected == 0 {
			continue
		}
		if !found || better(s.Rate(), best.Rate()) {
			best, found = s, true
		}
	}
	return best, found
}

func describe(s HabitStats, ok bool) string {
	if !ok {
		return "N/A"
	}
	return s.Habit.Name + " (" + percent(s.Rate()) + ")"
}

// MonthlyReport writes r as CSV followed by the month summary.
func MonthlyReport(w io.Writer, r Report) error {
	cw := NewWriter(w)
	cw.Row(reportHeader...)

	for _, s := range r.Habits {
		success, partial, failure := "", "", ""
		if s.Habit.UseMultipleStates {
			success = strconv.Itoa(s.Success)
			partial = strconv.Itoa(s.Partial)
			failure = strconv.Itoa(s.Failure)
		}
		cw.Row(
			s.Habit.Name,
			string(s.Habit.Frequency),
			strconv.Itoa(s.Expected),
			strconv.Itoa(s.Completed),
			success,
			partial,
			failure,
			percent(s.Rate()),
		)
	}

	cw.Section("Month Summary")
	cw.Row("Month", r.Month.Format(constants.MonthFormat))
	cw.Row("Total Expected", strconv.Itoa(r.TotalExpected()))
	cw.Row("Total Completed", strconv.Itoa(r.TotalCompleted()))
	cw.Row("Overall Success Rate", percent(r.OverallRate()))
	cw.Row("Most Successful", describe(r.MostSuccessful()))
	cw.Row("Least Successful", describe(r.LeastSuccessful()))
	return cw.Flush()
}
