package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/collections/set"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage/memory"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{" leading space", " leading space"},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"two\nlines", "\"two\nlines\""},
		{"cr\r", "\"cr\r\""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

func TestHabitsCSV(t *testing.T) {
	habits := []models.Habit{
		{
			ID: "h2", Name: `Say "no"`, Frequency: models.FrequencyDaily,
			DisplayOrder: 1, UseMultipleStates: true,
		},
		{
			ID: "h1", Name: "Read", Icon: "book", Color: "#4A90D9",
			Frequency: models.FrequencyCustom, CustomDays: []int{6, 2, 4},
			StartDate: day("2026-03-01"), Notes: "20 pages, minimum",
			TrackDetails: true, DetailKind: "general", CollectionID: "col-1",
		},
	}
	collections := []models.Collection{{ID: "col-1", Name: "Daily Log"}}

	var buf bytes.Buffer
	require.NoError(t, Habits(&buf, habits, collections))

	want := strings.Join([]string{
		"Name,Icon,Color,Frequency,Custom Days,Start Date,Notes,Display Order,Track Details,Detail Type,Multiple States,Collection",
		`Read,book,#4A90D9,custom,Mon Wed Fri,2026-03-01,"20 pages, minimum",0,Yes,general,No,Daily Log`,
		`"Say ""no""",,,daily,,,,1,No,,Yes,`,
		"",
		"# Summary Statistics",
		"Total Habits,2",
		"Tracking Details,1",
		"Multi-State,1",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestHabitEntriesCSV(t *testing.T) {
	habits := []models.Habit{
		{ID: "h1", Name: "Read"},
		{ID: "h2", Name: "Walk"},
	}
	entries := []models.HabitEntry{
		{
			ID: "e1", HabitID: "h2", Date: day("2026-03-02"), Completed: true,
			Details: models.WorkoutLog{Types: set.NewStrings("run"), DurationMinutes: 30, Intensity: 3},
		},
		{ID: "e2", HabitID: "h1", Date: day("2026-03-02"), State: models.StatePartial, Details: models.PlainText("felt, tired")},
		{ID: "e3", HabitID: "h1", Date: day("2026-03-01"), Completed: true},
	}

	var buf bytes.Buffer
	require.NoError(t, HabitEntries(&buf, entries, habits))

	want := strings.Join([]string{
		"Habit,Date,Completed,State,Details",
		"Read,2026-03-01,Yes,,",
		`Read,2026-03-02,No,Partial,"felt, tired"`,
		"Walk,2026-03-02,Yes,,run; 30 min; intensity 3",
		"",
		"# Summary Statistics",
		"Total Entries,3",
		"Completed Entries,2",
		"Completion Rate,66.7%",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestHabitEntriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HabitEntries(&buf, nil, nil))
	assert.Contains(t, buf.String(), "Completion Rate,0.0%")
}

// reportFixture covers March 2026, which starts on a Sunday and has 22
// weekdays.
func reportFixture() ([]models.Habit, []models.HabitEntry) {
	habits := []models.Habit{
		{ID: "run", Name: "Run", Frequency: models.FrequencyDaily, StartDate: day("2026-03-10")},
		{ID: "stretch", Name: "Stretch", Frequency: models.FrequencyWeekdays, DisplayOrder: 1, UseMultipleStates: true},
		{ID: "review", Name: "Weekly review", Frequency: models.FrequencyWeekly, DisplayOrder: 2},
	}
	entries := []models.HabitEntry{
		{ID: "1", HabitID: "run", Date: day("2026-03-10"), Completed: true},
		{ID: "2", HabitID: "run", Date: day("2026-03-10")},
		{ID: "3", HabitID: "run", Date: day("2026-03-11"), Completed: true},
		{ID: "4", HabitID: "run", Date: day("2026-03-05"), Completed: true},
		{ID: "5", HabitID: "run", Date: day("2026-04-01"), Completed: true},
		{ID: "6", HabitID: "stretch", Date: day("2026-03-02"), State: models.StateSuccess},
		{ID: "7", HabitID: "stretch", Date: day("2026-03-03"), State: models.StatePartial},
		{ID: "8", HabitID: "stretch", Date: day("2026-03-04"), State: models.StateFailure},
		{ID: "9", HabitID: "stretch", Date: day("2026-03-07"), State: models.StateSuccess},
	}
	return habits, entries
}

func TestBuildMonthlyReport(t *testing.T) {
	habits, entries := reportFixture()
	report := BuildMonthlyReport(habits, entries, day("2026-03-14"))

	assert.Equal(t, day("2026-03-01"), report.Month)
	require.Len(t, report.Habits, 3)

	run := report.Habits[0]
	assert.Equal(t, "Run", run.Habit.Name)
	assert.Equal(t, 22, run.Expected, "days before the start date are not expected")
	assert.Equal(t, 2, run.Completed, "first entry of a day wins; other months are ignored")

	stretch := report.Habits[1]
	assert.Equal(t, 22, stretch.Expected)
	assert.Equal(t, 1, stretch.Completed)
	assert.Equal(t, []int{1, 1, 1}, []int{stretch.Success, stretch.Partial, stretch.Failure}, "weekend entry is not counted")

	review := report.Habits[2]
	assert.Zero(t, review.Expected, "weekly habit without a start date never occurs")
	assert.Zero(t, review.Rate())

	assert.Equal(t, 44, report.TotalExpected())
	assert.Equal(t, 3, report.TotalCompleted())

	most, ok := report.MostSuccessful()
	require.True(t, ok)
	assert.Equal(t, "Run", most.Habit.Name)
	least, ok := report.LeastSuccessful()
	require.True(t, ok)
	assert.Equal(t, "Stretch", least.Habit.Name)
}

func TestMonthlyReportCSV(t *testing.T) {
	habits, entries := reportFixture()

	var buf bytes.Buffer
	require.NoError(t, MonthlyReport(&buf, BuildMonthlyReport(habits, entries, day("2026-03-01"))))

	want := strings.Join([]string{
		"Habit,Frequency,Expected Days,Completed Days,Success,Partial,Failure,Success Rate",
		"Run,daily,22,2,,,,9.1%",
		"Stretch,weekdays,22,1,1,1,1,4.5%",
		"Weekly review,weekly,0,0,,,,0.0%",
		"",
		"# Month Summary",
		"Month,2026-03",
		"Total Expected,44",
		"Total Completed,3",
		"Overall Success Rate,6.8%",
		"Most Successful,Run (9.1%)",
		"Least Successful,Stretch (4.5%)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestMonthlyReportTiesAndEmpty(t *testing.T) {
	habits := []models.Habit{
		{ID: "b", Name: "Second", Frequency: models.FrequencyDaily, DisplayOrder: 2},
		{ID: "a", Name: "First", Frequency: models.FrequencyDaily, DisplayOrder: 1},
	}
	report := BuildMonthlyReport(habits, nil, day("2026-02-10"))

	most, ok := report.MostSuccessful()
	require.True(t, ok)
	assert.Equal(t, "First", most.Habit.Name)
	least, ok := report.LeastSuccessful()
	require.True(t, ok)
	assert.Equal(t, "First", least.Habit.Name)
	assert.Equal(t, 28, most.Expected)

	var buf bytes.Buffer
	require.NoError(t, MonthlyReport(&buf, BuildMonthlyReport(nil, nil, day("2026-02-10"))))
	assert.Contains(t, buf.String(), "Most Successful,N/A\n")
	assert.Contains(t, buf.String(), "Least Successful,N/A\n")
	assert.Contains(t, buf.String(), "Overall Success Rate,0.0%\n")
}

func TestExporterWritesFiles(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.AddCollection(models.Collection{ID: "col-1", Name: "Daily Log"}))
	require.NoError(t, store.AddHabit(models.Habit{ID: "h1", Name: "Read", Frequency: models.FrequencyDaily, CollectionID: "col-1"}))
	require.NoError(t, store.AddHabitEntry(models.HabitEntry{ID: "e1", HabitID: "h1", Date: day("2026-03-01"), Completed: true}))

	dir := filepath.Join(t.TempDir(), "exports")
	clk := testclock.NewClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local))
	exp := NewExporter(store, clk, dir)

	path, err := exp.Habits()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "habits-20260314.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Read,,,daily,,,,0,No,,No,Daily Log\n")

	path, err = exp.HabitEntries()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "habit-entries-20260314.csv"), path)

	path, err = exp.Report(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report-2026-03-20260314.csv"), path)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Read,daily,31,1,,,,3.2%\n")
}
