package backup

import (
	"fmt"
	"slices"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/models"
)

// Encode reads the whole store into an Envelope. It only fails when the
// store cannot be read. Live entities without an id get a generated one so
// the record still round trips.
func (e *Engine) Encode(fn ProgressFunc) (*Envelope, error) {
	p := newProgress(fn)
	env := &Envelope{
		Version:   SupportedVersion,
		Timestamp: Timestamp{e.clock.Now().UTC()},
	}

	collections, err := e.store.GetAllCollections()
	if err != nil {
		return nil, fmt.Errorf("failed to read collections: %w", err)
	}
	env.Collections = make([]CollectionRecord, 0, len(collections))
	for _, c := range collections {
		rec := CollectionRecord{ID: e.idOrNew(c.ID), Name: c.Name}
		if !c.CreatedAt.IsZero() {
			rec.CreatedAt = &Timestamp{c.CreatedAt.UTC()}
		}
		env.Collections = append(env.Collections, rec)
	}
	p.report(constants.ProgressEncodeCollections)

	tags, err := e.store.GetAllTags()
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	env.Tags = make([]TagRecord, 0, len(tags))
	for _, t := range tags {
		env.Tags = append(env.Tags, TagRecord{ID: e.idOrNew(t.ID), Name: t.Name})
	}
	p.report(constants.ProgressEncodeTags)

	habits, err := e.store.GetAllHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	env.Habits = make([]HabitRecord, 0, len(habits))
	for _, h := range habits {
		env.Habits = append(env.Habits, e.habitRecord(h))
	}
	p.report(constants.ProgressEncodeHabits)

	entries, err := e.store.GetAllHabitEntries()
	if err != nil {
		return nil, fmt.Errorf("failed to read habit entries: %w", err)
	}
	env.HabitEntries = make([]HabitEntryRecord, 0, len(entries))
	for _, entry := range entries {
		env.HabitEntries = append(env.HabitEntries, HabitEntryRecord{
			ID:        e.idOrNew(entry.ID),
			HabitID:   entry.HabitID,
			Date:      formatDate(entry.Date),
			Completed: entry.Completed,
			State:     int(entry.State),
			Details:   models.EncodeDetails(entry.Details),
		})
	}
	p.report(constants.ProgressEncodeHabitEntries)

	journal, err := e.store.GetAllJournalEntries()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal entries: %w", err)
	}
	env.JournalEntries = make([]JournalEntryRecord, 0, len(journal))
	for _, j := range journal {
		env.JournalEntries = append(env.JournalEntries, e.journalRecord(j))
	}
	p.report(constants.ProgressEncodeJournalEntries)

	return env, nil
}

func (e *Engine) idOrNew(id string) string {
	if id != "" {
		return id
	}
	return e.newID()
}

func (e *Engine) habitRecord(h models.Habit) HabitRecord {
	rec := HabitRecord{
		ID:                e.idOrNew(h.ID),
		Name:              h.Name,
		Icon:              h.Icon,
		Color:             h.Color,
		Frequency:         string(h.Frequency),
		CustomDays:        h.CustomDaySet().SortedValues(),
		StartDate:         formatDate(h.StartDate),
		Notes:             h.Notes,
		DisplayOrder:      h.DisplayOrder,
		TrackDetails:      h.TrackDetails,
		DetailKind:        h.DetailKind,
		UseMultipleStates: h.UseMultipleStates,
		CollectionID:      h.CollectionID,
	}
	if rec.Color == "" {
		rec.Color = constants.DefaultHabitColor
	}
	if rec.Frequency == "" {
		rec.Frequency = string(models.FrequencyDaily)
	}
	if rec.DetailKind == "" {
		rec.DetailKind = constants.DefaultDetailKind
	}
	if !h.CreatedAt.IsZero() {
		rec.CreatedAt = &Timestamp{h.CreatedAt.UTC()}
	}
	return rec
}

func (e *Engine) journalRecord(j models.JournalEntry) JournalEntryRecord {
	rec := JournalEntryRecord{
		ID:            e.idOrNew(j.ID),
		Content:       j.Content,
		Date:          formatDate(j.Date),
		Kind:          string(j.Kind),
		Status:        string(j.Status),
		Priority:      j.Priority,
		IsMigrated:    j.IsMigrated,
		IsFutureEntry: j.IsFutureEntry,
		CollectionID:  j.CollectionID,
		TagIDs:        slices.Clone(j.TagIDs),
	}
	if j.ScheduledDate != nil {
		rec.ScheduledDate = formatDate(*j.ScheduledDate)
	}
	if j.OriginalDate != nil {
		rec.OriginalDate = formatDate(*j.OriginalDate)
	}
	if rec.Kind == "" {
		rec.Kind = string(models.EntryKindNote)
	}
	return rec
}
