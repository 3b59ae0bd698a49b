package export

import (
	"io"
	"sort"
	"strconv"

	"github.com/julianstephens/daylog/internal/models"
)

var entryHeader = []string{"Habit", "Date", "Completed", "State", "Details"}

// HabitEntries writes one row per entry, ordered by date then habit name,
// followed by summary statistics.
func HabitEntries(w io.Writer, entries []models.HabitEntry, habits []models.Habit) error {
	names := make(map[string]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Name
	}

	sorted := append([]models.HabitEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return names[sorted[i].HabitID] < names[sorted[j].HabitID]
	})

	cw := NewWriter(w)
	cw.Row(entryHeader...)

	completed := 0
	for _, e := range sorted {
		if e.IsSuccess() {
			completed++
		}
		details := ""
		if e.Details != nil {
			details = e.Details.Summary()
		}
		cw.Row(names[e.HabitID], date(e.Date), yesNo(e.Completed), stateLabel(e.State), details)
	}

	cw.Section("Summary Statistics")
	cw.Row("Total Entries", strconv.Itoa(len(entries)))
	cw.Row("Completed Entries", strconv.Itoa(completed))
	cw.Row("Completion Rate", percent(rate(completed, len(entries))))
	return cw.Flush()
}
