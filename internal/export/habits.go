package export

import (
	"io"
	"sort"
	"strconv"

	"github.com/julianstephens/daylog/internal/models"
)

var habitHeader = []string{
	"Name", "Icon", "Color", "Frequency", "Custom Days", "Start Date", "Notes",
	"Display Order", "Track Details", "Detail Type", "Multiple States", "Collection",
}

// sortHabits orders habits by display order, then name.
func sortHabits(habits []models.Habit) []models.Habit {
	sorted := append([]models.Habit(nil), habits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// Habits writes one row per habit followed by summary statistics.
func Habits(w io.Writer, habits []models.Habit, collections []models.Collection) error {
	names := make(map[string]string, len(collections))
	for _, c := range collections {
		names[c.ID] = c.Name
	}

	cw := NewWriter(w)
	cw.Row(habitHeader...)

	tracking, multiState := 0, 0
	for _, h := range sortHabits(habits) {
		if h.TrackDetails {
			tracking++
		}
		if h.UseMultipleStates {
			multiState++
		}
		cw.Row(
			h.Name,
			h.Icon,
			h.Color,
			string(h.Frequency),
			customDays(h),
			date(h.StartDate),
			h.Notes,
			strconv.Itoa(h.DisplayOrder),
			yesNo(h.TrackDetails),
			h.DetailKind,
			yesNo(h.UseMultipleStates),
			names[h.CollectionID],
		)
	}

	cw.Section("Summary Statistics")
	cw.Row("Total Habits", strconv.Itoa(len(habits)))
	cw.Row("Tracking Details", strconv.Itoa(tracking))
	cw.Row("Multi-State", strconv.Itoa(multiState))
	return cw.Flush()
}
