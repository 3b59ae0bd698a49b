package backup

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/collections/set"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
	"github.com/julianstephens/daylog/internal/storage/memory"
)

var epoch = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestEngine(store storage.Provider) *Engine {
	return NewEngine(store, WithClock(testclock.NewClock(epoch)))
}

// seedScenario fills s with one collection, two tags, one daily habit with
// three completed days and one journal entry carrying both tags.
func seedScenario(t *testing.T, s *memory.Store) {
	t.Helper()
	require.NoError(t, s.AddCollection(models.Collection{ID: "col-1", Name: "Daily Log", CreatedAt: epoch}))
	require.NoError(t, s.AddTag(models.Tag{ID: "tag-work", Name: "work"}))
	require.NoError(t, s.AddTag(models.Tag{ID: "tag-home", Name: "home"}))
	require.NoError(t, s.AddHabit(models.Habit{
		ID: "habit-read", Name: "Read", Frequency: models.FrequencyDaily,
		CollectionID: "col-1", StartDate: day("2026-03-01"), CreatedAt: epoch,
	}))
	for i, d := range []string{"2026-03-10", "2026-03-11", "2026-03-12"} {
		require.NoError(t, s.AddHabitEntry(models.HabitEntry{
			ID: fmt.Sprintf("entry-%d", i), HabitID: "habit-read", Date: day(d), Completed: true,
		}))
	}
	require.NoError(t, s.AddJournalEntry(models.JournalEntry{
		ID: "journal-1", Content: "Plan the week", Date: day("2026-03-12"),
		Kind: models.EntryKindTask, Status: models.TaskStatusPending,
		CollectionID: "col-1", TagIDs: []string{"tag-work", "tag-home"},
	}))
}

func counts(t *testing.T, s storage.Provider) []int {
	t.Helper()
	c, err := s.Counts()
	require.NoError(t, err)
	out := make([]int, len(storage.AllKinds))
	for i, kind := range storage.AllKinds {
		out[i] = c[kind]
	}
	return out
}

func encodeToBytes(t *testing.T, e *Engine) []byte {
	t.Helper()
	env, err := e.Encode(nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, env))
	return buf.Bytes()
}

func tagNames(t *testing.T, s storage.Provider, ids []string) []string {
	t.Helper()
	tags, err := s.GetAllTags()
	require.NoError(t, err)
	byID := make(map[string]string, len(tags))
	for _, tag := range tags {
		byID[tag.ID] = tag.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, byID[id])
	}
	sort.Strings(names)
	return names
}

func TestEncodeScenario(t *testing.T) {
	src := memory.NewStore()
	seedScenario(t, src)

	env, err := newTestEngine(src).Encode(nil)
	require.NoError(t, err)

	assert.Equal(t, 1, env.Version)
	assert.True(t, env.Timestamp.Equal(epoch))
	assert.Len(t, env.Collections, 1)
	assert.Len(t, env.Tags, 2)
	assert.Len(t, env.Habits, 1)
	assert.Len(t, env.HabitEntries, 3)
	require.Len(t, env.JournalEntries, 1)
	assert.Len(t, env.JournalEntries[0].TagIDs, 2)
	assert.Equal(t, "col-1", env.JournalEntries[0].CollectionID)
	assert.Equal(t, "habit-read", env.HabitEntries[0].HabitID)
}

func TestRestoreScenarioIntoEmptyStore(t *testing.T) {
	src := memory.NewStore()
	seedScenario(t, src)
	data := encodeToBytes(t, newTestEngine(src))

	dst := memory.NewStore()
	result, err := newTestEngine(dst).Restore(bytes.NewReader(data), nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 1, 3, 1}, counts(t, dst))
	assert.Equal(t, 8, result.Total())
	assert.Zero(t, sum(result.Skipped))
	assert.Zero(t, sum(result.DroppedRefs))

	journal, err := dst.GetAllJournalEntries()
	require.NoError(t, err)
	require.Len(t, journal, 1)
	assert.Equal(t, []string{"home", "work"}, tagNames(t, dst, journal[0].TagIDs))
}

func TestRoundTripPreservesGraph(t *testing.T) {
	src := memory.NewStore()
	seedScenario(t, src)
	scheduled := day("2026-03-20")
	require.NoError(t, src.AddHabit(models.Habit{
		ID: "habit-gym", Name: "Gym", Icon: "dumbbell", Color: "#112233",
		Frequency: models.FrequencyCustom, CustomDays: []int{2, 4}, Notes: "legs on wed",
		DisplayOrder: 2, TrackDetails: true, DetailKind: "workout", UseMultipleStates: true,
		StartDate: day("2026-01-05"), CreatedAt: epoch,
	}))
	require.NoError(t, src.AddHabitEntry(models.HabitEntry{
		ID: "entry-gym", HabitID: "habit-gym", Date: day("2026-03-11"), State: models.StatePartial,
		Details: models.WorkoutLog{Types: set.NewStrings("run", "lift"), DurationMinutes: 45, Intensity: 4, Notes: "hot"},
	}))
	require.NoError(t, src.AddJournalEntry(models.JournalEntry{
		ID: "journal-2", Content: "Dentist", Date: day("2026-03-12"), Kind: models.EntryKindEvent,
		Status: models.TaskStatusScheduled, Priority: true, ScheduledDate: &scheduled,
		IsFutureEntry: true,
	}))

	dst := memory.NewStore()
	_, err := newTestEngine(dst).Restore(bytes.NewReader(encodeToBytes(t, newTestEngine(src))), nil)
	require.NoError(t, err)
	assert.Equal(t, counts(t, src), counts(t, dst))

	habits, err := dst.GetAllHabits()
	require.NoError(t, err)
	byName := make(map[string]models.Habit)
	for _, h := range habits {
		byName[h.Name] = h
	}
	gym := byName["Gym"]
	assert.Equal(t, []int{2, 4}, gym.CustomDays)
	assert.Equal(t, models.FrequencyCustom, gym.Frequency)
	assert.Equal(t, "#112233", gym.Color)
	assert.Equal(t, "workout", gym.DetailKind)
	assert.True(t, gym.TrackDetails)
	assert.True(t, gym.UseMultipleStates)
	assert.Equal(t, 2, gym.DisplayOrder)
	assert.True(t, gym.StartDate.Equal(day("2026-01-05")))
	assert.Empty(t, gym.CollectionID)
	assert.NotEmpty(t, byName["Read"].CollectionID)

	entries, err := dst.GetAllHabitEntries()
	require.NoError(t, err)
	for _, e := range entries {
		if e.HabitID != gym.ID {
			continue
		}
		assert.Equal(t, models.StatePartial, e.State)
		w, ok := e.Details.(models.WorkoutLog)
		require.True(t, ok, "details should decode as a workout log")
		assert.Equal(t, []string{"lift", "run"}, w.Types.SortedValues())
		assert.Equal(t, 45, w.DurationMinutes)
		assert.Equal(t, 4, w.Intensity)
	}

	journal, err := dst.GetAllJournalEntries()
	require.NoError(t, err)
	for _, j := range journal {
		if j.Content != "Dentist" {
			continue
		}
		require.NotNil(t, j.ScheduledDate)
		assert.True(t, j.ScheduledDate.Equal(scheduled))
		assert.Nil(t, j.OriginalDate)
		assert.True(t, j.Priority)
		assert.True(t, j.IsFutureEntry)
		assert.Equal(t, models.EntryKindEvent, j.Kind)
	}
}

func TestImportDropsDanglingHabitEntry(t *testing.T) {
	env := &Envelope{
		Version: 1,
		Habits:  []HabitRecord{{ID: "h1", Name: "Walk"}},
		HabitEntries: []HabitEntryRecord{
			{ID: "e1", HabitID: "h1", Date: "2026-03-01", Completed: true},
			{ID: "e2", HabitID: "ghost", Date: "2026-03-01", Completed: true},
		},
	}

	store := memory.NewStore()
	result, err := newTestEngine(store).Import(env, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created[storage.KindHabitEntries])
	assert.Equal(t, 1, result.DroppedRefs[storage.KindHabitEntries])
	entries, _ := store.GetAllHabitEntries()
	assert.Len(t, entries, 1)
}

func TestImportPartialTagResolution(t *testing.T) {
	env := &Envelope{
		Version: 1,
		Tags:    []TagRecord{{ID: "t1", Name: "work"}},
		JournalEntries: []JournalEntryRecord{
			{ID: "j1", Date: "2026-03-01", Content: "standup", TagIDs: []string{"t1", "missing"}},
		},
	}

	store := memory.NewStore()
	result, err := newTestEngine(store).Import(env, nil)
	require.NoError(t, err)

	journal, _ := store.GetAllJournalEntries()
	require.Len(t, journal, 1)
	assert.Equal(t, []string{"work"}, tagNames(t, store, journal[0].TagIDs))
	assert.Equal(t, 1, result.DroppedRefs[storage.KindJournalEntries])
}

func TestImportLeavesUnresolvedCollectionUnset(t *testing.T) {
	env := &Envelope{
		Version: 1,
		Habits:  []HabitRecord{{ID: "h1", Name: "Walk", CollectionID: "gone"}},
	}

	store := memory.NewStore()
	result, err := newTestEngine(store).Import(env, nil)
	require.NoError(t, err)

	habits, _ := store.GetAllHabits()
	require.Len(t, habits, 1)
	assert.Empty(t, habits[0].CollectionID)
	assert.Equal(t, 1, result.DroppedRefs[storage.KindHabits])
}

func TestRestoreRejectsNewerVersion(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	before := counts(t, store)

	doc := fmt.Sprintf(`{"version": %d, "timestamp": "2026-03-14T09:30:00Z", "collections": [], "tags": [{"id": "x", "name": "new"}]}`, SupportedVersion+1)
	_, err := newTestEngine(store).Restore(strings.NewReader(doc), nil)

	require.ErrorIs(t, err, derrors.ErrNewerVersion)
	assert.Equal(t, "backup is from a newer release", derrors.Message(err))
	assert.Equal(t, before, counts(t, store))
}

func TestImportRejectsNewerVersion(t *testing.T) {
	store := memory.NewStore()
	_, err := newTestEngine(store).Import(&Envelope{Version: SupportedVersion + 1, Tags: []TagRecord{{ID: "t", Name: "n"}}}, nil)
	require.ErrorIs(t, err, derrors.ErrNewerVersion)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, counts(t, store))
}

func TestAcceptsOlderVersions(t *testing.T) {
	for _, v := range []int{0, SupportedVersion} {
		assert.NoError(t, CheckVersion(v), "version %d", v)
	}
}

func TestRestoreFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "hello"},
		{"truncated", `{"version": 1, "tags": [`},
		{"missing version", `{"tags": []}`},
		{"array where object expected", `[1, 2, 3]`},
		{"version is a string", `{"version": "1"}`},
		{"habits is not an array", `{"version": 1, "habits": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			seedScenario(t, store)

			_, err := newTestEngine(store).Restore(strings.NewReader(tt.doc), nil)
			require.ErrorIs(t, err, derrors.ErrFormat)
			assert.Equal(t, "file is not in the correct format", derrors.Message(err))
			assert.Equal(t, []int{1, 2, 1, 3, 1}, counts(t, store))
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device not ready") }

func TestRestoreUnreadableInput(t *testing.T) {
	_, err := newTestEngine(memory.NewStore()).Restore(failingReader{}, nil)
	require.ErrorIs(t, err, derrors.ErrIO)
}

func TestRestoreCommitFailureKeepsPreviousData(t *testing.T) {
	src := memory.NewStore()
	seedScenario(t, src)
	data := encodeToBytes(t, newTestEngine(src))

	dst := memory.NewStore()
	require.NoError(t, dst.AddTag(models.Tag{ID: "keep", Name: "keep-me"}))
	dst.CommitErr = errors.New("disk I/O error")

	_, err := newTestEngine(dst).Restore(bytes.NewReader(data), nil)
	require.ErrorIs(t, err, derrors.ErrCommit)
	assert.Contains(t, derrors.Message(err), "disk I/O error")

	tags, _ := dst.GetAllTags()
	require.Len(t, tags, 1)
	assert.Equal(t, "keep-me", tags[0].Name)
	assert.Equal(t, []int{0, 1, 0, 0, 0}, counts(t, dst))
}

func TestRestoreReplacesExistingData(t *testing.T) {
	src := memory.NewStore()
	seedScenario(t, src)
	data := encodeToBytes(t, newTestEngine(src))

	dst := memory.NewStore()
	require.NoError(t, dst.AddTag(models.Tag{ID: "old", Name: "old"}))
	require.NoError(t, dst.AddHabit(models.Habit{ID: "old-habit", Name: "Old"}))

	result, err := newTestEngine(dst).Restore(bytes.NewReader(data), nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 1, 3, 1}, counts(t, dst))
	assert.Equal(t, 1, result.Cleared[storage.KindTags])
	assert.Equal(t, 1, result.Cleared[storage.KindHabits])
}

func TestImportSkipsMalformedRecords(t *testing.T) {
	doc := `{
		"version": 1,
		"timestamp": 1773480600,
		"collections": [{"id": "c1", "name": "Log"}, {"id": "c2"}, {"name": "no id"}],
		"tags": [{"id": "t1", "name": "work"}, {"id": "t1", "name": "dupe"}, 42],
		"habits": [{"id": "h1", "name": "Walk"}, {"id": "h2"}, {"id": "h3", "name": 7}],
		"habitEntries": [
			{"id": "e1", "habitId": "h1", "date": "2026-03-01"},
			{"id": "e2", "habitId": "h1"},
			{"id": "e3", "date": "2026-03-01"},
			{"id": "e4", "habitId": "h1", "date": "not a date"}
		],
		"journalEntries": [{"id": "j1", "date": "2026-03-01"}, {"id": "j2", "content": "no date"}]
	}`

	store := memory.NewStore()
	result, err := newTestEngine(store).Restore(strings.NewReader(doc), nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1, 1, 1, 1}, counts(t, store))
	assert.Equal(t, 2, result.Skipped[storage.KindCollections])
	assert.Equal(t, 2, result.Skipped[storage.KindTags])
	assert.Equal(t, 2, result.Skipped[storage.KindHabits])
	assert.Equal(t, 3, result.Skipped[storage.KindHabitEntries])
	assert.Equal(t, 1, result.Skipped[storage.KindJournalEntries])
	assert.Contains(t, result.Message(), "skipped 10 malformed records")
}

func TestImportAppliesDefaults(t *testing.T) {
	env := &Envelope{
		Version:      1,
		Habits:       []HabitRecord{{ID: "h1", Name: "Stretch", CustomDays: []int{9, 2, 2, 0}}},
		HabitEntries: []HabitEntryRecord{{ID: "e1", HabitID: "h1", Date: "2026-03-01T08:00:00Z", State: 7}},
	}

	store := memory.NewStore()
	_, err := newTestEngine(store).Import(env, nil)
	require.NoError(t, err)

	habits, _ := store.GetAllHabits()
	require.Len(t, habits, 1)
	assert.Equal(t, "#4A90D9", habits[0].Color)
	assert.Equal(t, models.FrequencyDaily, habits[0].Frequency)
	assert.Equal(t, "general", habits[0].DetailKind)
	assert.Equal(t, []int{2}, habits[0].CustomDays)

	entries, _ := store.GetAllHabitEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.StateNone, entries[0].State)
	assert.Nil(t, entries[0].Details)
	assert.Equal(t, "2026-03-01", entries[0].Date.Format("2006-01-02"))
}

func TestImportAddsOnTopOfExistingData(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.AddTag(models.Tag{ID: "t0", Name: "work"}))

	_, err := newTestEngine(store).Import(&Envelope{Version: 1, Tags: []TagRecord{{ID: "t0", Name: "work"}}}, nil)
	require.NoError(t, err)

	tags, _ := store.GetAllTags()
	assert.Len(t, tags, 2, "same-named tags stay distinct")
}

func TestEncodeAppliesDefaults(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.AddHabit(models.Habit{ID: "h1", Name: "Bare"}))

	env, err := newTestEngine(store).Encode(nil)
	require.NoError(t, err)
	require.Len(t, env.Habits, 1)
	assert.Equal(t, "#4A90D9", env.Habits[0].Color)
	assert.Equal(t, "daily", env.Habits[0].Frequency)
	assert.Equal(t, "general", env.Habits[0].DetailKind)
}

func TestEncodeGeneratesMissingIDs(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)

	e := NewEngine(store, WithClock(testclock.NewClock(epoch)), WithIDGenerator(func() string { return "generated" }))
	assert.Equal(t, "generated", e.idOrNew(""))
	assert.Equal(t, "kept", e.idOrNew("kept"))
}

func TestEncodeProgressCheckpoints(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)

	var got []float64
	_, err := newTestEngine(store).Encode(func(f float64) { got = append(got, f) })
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 0.4, 0.6, 0.8, 1.0}, got)
}

func TestRestoreProgressIsMonotonic(t *testing.T) {
	src := memory.NewStore()
	seedScenario(t, src)
	data := encodeToBytes(t, newTestEngine(src))

	var got []float64
	_, err := newTestEngine(memory.NewStore()).Restore(bytes.NewReader(data), func(f float64) { got = append(got, f) })
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.True(t, sort.Float64sAreSorted(got), "progress went backwards: %v", got)
	assert.Equal(t, 1.0, got[len(got)-1])
	for _, f := range got {
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, 1.0)
	}
}

func TestProgressClampsAndIgnoresRegressions(t *testing.T) {
	var got []float64
	p := newProgress(func(f float64) { got = append(got, f) })
	p.report(-0.5)
	p.report(0.5)
	p.report(0.3)
	p.report(1.7)
	assert.Equal(t, []float64{0, 0.5, 1}, got)

	newProgress(nil).report(0.5)
}

func TestResetIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	e := newTestEngine(store)

	cleared, err := e.Reset()
	require.NoError(t, err)
	assert.Equal(t, 3, cleared[storage.KindHabitEntries])
	assert.Equal(t, []int{0, 0, 0, 0, 0}, counts(t, store))

	cleared, err = e.Reset()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, counts(t, store))
	assert.Zero(t, sum(cleared))
}

func TestResetContinuesPastFailingKind(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	store.DeleteAllErr = map[storage.Kind]error{storage.KindTags: errors.New("locked")}

	_, err := Reset(store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear tags: locked")
	assert.Equal(t, []int{0, 2, 0, 0, 0}, counts(t, store))
}

func TestResultMessage(t *testing.T) {
	r := newResult()
	r.Created[storage.KindCollections] = 1
	r.Created[storage.KindTags] = 2
	r.Created[storage.KindHabits] = 1
	r.Created[storage.KindHabitEntries] = 3
	r.Created[storage.KindJournalEntries] = 1

	assert.Equal(t, "Restored 1 collection, 2 tags, 1 habit, 3 habit entries and 1 journal entry", r.Message())

	r.DroppedRefs[storage.KindHabitEntries] = 1
	assert.True(t, strings.HasSuffix(r.Message(), "; dropped 1 unresolved reference"))
}
