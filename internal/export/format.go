package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/models"
)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(constants.DateFormat)
}

func percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// rate is part/whole as a percentage, 0 when whole is 0.
func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

var dayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// customDays renders weekday numbers 1..7 as short names, Sunday first.
func customDays(h models.Habit) string {
	days := h.CustomDaySet().SortedValues()
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 1 && d <= 7 {
			names = append(names, dayNames[d-1])
		} else {
			names = append(names, strconv.Itoa(d))
		}
	}
	return strings.Join(names, " ")
}

func stateLabel(s models.CompletionState) string {
	if s == models.StateNone {
		return ""
	}
	return strings.ToUpper(s.String()[:1]) + s.String()[1:]
}
