package backup

import (
	"fmt"
	"time"

	"github.com/juju/collections/set"

	"github.com/julianstephens/daylog/internal/constants"
	derrors "github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

// importer creates one envelope's graph through w. Each stage resolves
// references only through maps filled by earlier stages.
type importer struct {
	w      storage.Writer
	newID  func() string
	result Result

	collections map[string]string // backup id -> live id
	tags        map[string]string
	habits      map[string]string
}

func newImporter(w storage.Writer, newID func() string) *importer {
	return &importer{
		w:           w,
		newID:       newID,
		result:      newResult(),
		collections: make(map[string]string),
		tags:        make(map[string]string),
		habits:      make(map[string]string),
	}
}

func (im *importer) run(env *Envelope, p *progress) (Result, error) {
	for kind, n := range env.Malformed {
		im.result.Skipped[kind] += n
	}

	stages := []struct {
		checkpoint float64
		fn         func(*Envelope) error
	}{
		{constants.ProgressImportCollections, im.importCollections},
		{constants.ProgressImportTags, im.importTags},
		{constants.ProgressImportHabits, im.importHabits},
		{constants.ProgressImportHabitEntries, im.importHabitEntries},
		{constants.ProgressImportJournalEntries, im.importJournalEntries},
	}
	for _, stage := range stages {
		if err := stage.fn(env); err != nil {
			return im.result, fmt.Errorf("%w: %v", derrors.ErrCommit, err)
		}
		p.report(stage.checkpoint)
	}
	return im.result, nil
}

func (im *importer) skip(kind storage.Kind, id, reason string) {
	im.result.Skipped[kind]++
	logger.Debug("Skipping backup record", "kind", kind, "id", id, "reason", reason)
}

func (im *importer) drop(kind storage.Kind, id, ref string) {
	im.result.DroppedRefs[kind]++
	logger.Debug("Dropping unresolved reference", "kind", kind, "id", id, "ref", ref)
}

func (im *importer) importCollections(env *Envelope) error {
	for _, rec := range env.Collections {
		switch {
		case rec.ID == "":
			im.skip(storage.KindCollections, rec.ID, "missing id")
			continue
		case rec.Name == "":
			im.skip(storage.KindCollections, rec.ID, "missing name")
			continue
		case im.collections[rec.ID] != "":
			im.skip(storage.KindCollections, rec.ID, "duplicate id")
			continue
		}

		c := models.Collection{ID: im.newID(), Name: rec.Name, CreatedAt: recordTime(rec.CreatedAt)}
		if err := im.w.AddCollection(c); err != nil {
			return err
		}
		im.collections[rec.ID] = c.ID
		im.result.Created[storage.KindCollections]++
	}
	return nil
}

func (im *importer) importTags(env *Envelope) error {
	for _, rec := range env.Tags {
		switch {
		case rec.ID == "":
			im.skip(storage.KindTags, rec.ID, "missing id")
			continue
		case rec.Name == "":
			im.skip(storage.KindTags, rec.ID, "missing name")
			continue
		case im.tags[rec.ID] != "":
			im.skip(storage.KindTags, rec.ID, "duplicate id")
			continue
		}

		t := models.Tag{ID: im.newID(), Name: rec.Name}
		if err := im.w.AddTag(t); err != nil {
			return err
		}
		im.tags[rec.ID] = t.ID
		im.result.Created[storage.KindTags]++
	}
	return nil
}

func (im *importer) importHabits(env *Envelope) error {
	for _, rec := range env.Habits {
		switch {
		case rec.ID == "":
			im.skip(storage.KindHabits, rec.ID, "missing id")
			continue
		case rec.Name == "":
			im.skip(storage.KindHabits, rec.ID, "missing name")
			continue
		case im.habits[rec.ID] != "":
			im.skip(storage.KindHabits, rec.ID, "duplicate id")
			continue
		}

		h := models.Habit{
			ID:                im.newID(),
			Name:              rec.Name,
			Icon:              rec.Icon,
			Color:             rec.Color,
			Frequency:         models.FrequencyKind(rec.Frequency),
			CustomDays:        validDays(rec.CustomDays),
			Notes:             rec.Notes,
			DisplayOrder:      rec.DisplayOrder,
			TrackDetails:      rec.TrackDetails,
			DetailKind:        rec.DetailKind,
			UseMultipleStates: rec.UseMultipleStates,
			CreatedAt:         recordTime(rec.CreatedAt),
		}
		if h.Color == "" {
			h.Color = constants.DefaultHabitColor
		}
		if h.Frequency == "" {
			h.Frequency = models.FrequencyDaily
		}
		if h.DetailKind == "" {
			h.DetailKind = constants.DefaultDetailKind
		}
		if rec.StartDate != "" {
			start, err := parseDate(rec.StartDate)
			if err != nil {
				logger.Debug("Ignoring invalid habit start date", "id", rec.ID, "value", rec.StartDate)
			} else {
				h.StartDate = start
			}
		}
		if rec.CollectionID != "" {
			if live, ok := im.collections[rec.CollectionID]; ok {
				h.CollectionID = live
			} else {
				im.drop(storage.KindHabits, rec.ID, rec.CollectionID)
			}
		}

		if err := im.w.AddHabit(h); err != nil {
			return err
		}
		im.habits[rec.ID] = h.ID
		im.result.Created[storage.KindHabits]++
	}
	return nil
}

func (im *importer) importHabitEntries(env *Envelope) error {
	seen := set.NewStrings()
	for _, rec := range env.HabitEntries {
		switch {
		case rec.ID == "":
			im.skip(storage.KindHabitEntries, rec.ID, "missing id")
			continue
		case rec.HabitID == "":
			im.skip(storage.KindHabitEntries, rec.ID, "missing habitId")
			continue
		case rec.Date == "":
			im.skip(storage.KindHabitEntries, rec.ID, "missing date")
			continue
		case seen.Contains(rec.ID):
			im.skip(storage.KindHabitEntries, rec.ID, "duplicate id")
			continue
		}

		date, err := parseDate(rec.Date)
		if err != nil {
			im.skip(storage.KindHabitEntries, rec.ID, err.Error())
			continue
		}
		habitID, ok := im.habits[rec.HabitID]
		if !ok {
			// An entry without its habit is meaningless.
			im.drop(storage.KindHabitEntries, rec.ID, rec.HabitID)
			continue
		}
		seen.Add(rec.ID)

		state := models.CompletionState(rec.State)
		if !state.Valid() {
			state = models.StateNone
		}
		entry := models.HabitEntry{
			ID:        im.newID(),
			HabitID:   habitID,
			Date:      date,
			Completed: rec.Completed,
			State:     state,
			Details:   models.ParseDetails(rec.Details),
		}
		if err := im.w.AddHabitEntry(entry); err != nil {
			return err
		}
		im.result.Created[storage.KindHabitEntries]++
	}
	return nil
}

func (im *importer) importJournalEntries(env *Envelope) error {
	seen := set.NewStrings()
	for _, rec := range env.JournalEntries {
		switch {
		case rec.ID == "":
			im.skip(storage.KindJournalEntries, rec.ID, "missing id")
			continue
		case rec.Date == "":
			im.skip(storage.KindJournalEntries, rec.ID, "missing date")
			continue
		case seen.Contains(rec.ID):
			im.skip(storage.KindJournalEntries, rec.ID, "duplicate id")
			continue
		}

		date, err := parseDate(rec.Date)
		if err != nil {
			im.skip(storage.KindJournalEntries, rec.ID, err.Error())
			continue
		}
		seen.Add(rec.ID)

		entry := models.JournalEntry{
			ID:            im.newID(),
			Content:       rec.Content,
			Date:          date,
			Kind:          models.EntryKind(rec.Kind),
			Status:        models.TaskStatus(rec.Status),
			Priority:      rec.Priority,
			ScheduledDate: optionalDate(rec.ScheduledDate),
			OriginalDate:  optionalDate(rec.OriginalDate),
			IsMigrated:    rec.IsMigrated,
			IsFutureEntry: rec.IsFutureEntry,
		}
		if entry.Kind == "" {
			entry.Kind = models.EntryKindNote
		}
		if rec.CollectionID != "" {
			if live, ok := im.collections[rec.CollectionID]; ok {
				entry.CollectionID = live
			} else {
				im.drop(storage.KindJournalEntries, rec.ID, rec.CollectionID)
			}
		}

		attached := set.NewStrings()
		for _, tagID := range rec.TagIDs {
			live, ok := im.tags[tagID]
			if !ok {
				im.drop(storage.KindJournalEntries, rec.ID, tagID)
				continue
			}
			if attached.Contains(live) {
				continue
			}
			attached.Add(live)
			entry.TagIDs = append(entry.TagIDs, live)
		}

		if err := im.w.AddJournalEntry(entry); err != nil {
			return err
		}
		im.result.Created[storage.KindJournalEntries]++
	}
	return nil
}

func recordTime(ts *Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.Time
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

// validDays keeps weekday numbers 1..7, deduplicated and sorted.
func validDays(days []int) []int {
	valid := set.NewInts()
	for _, d := range days {
		if d >= 1 && d <= 7 {
			valid.Add(d)
		}
	}
	if valid.IsEmpty() {
		return nil
	}
	return valid.SortedValues()
}
