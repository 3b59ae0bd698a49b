package memory

import (
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

// dataset is one consistent copy of every table. The store owns the
// committed dataset and each transaction works on a clone.
type dataset struct {
	collections *table[models.Collection]
	tags        *table[models.Tag]
	habits      *table[models.Habit]
	entries     *table[models.HabitEntry]
	journal     *table[models.JournalEntry]
}

func newDataset() *dataset {
	return &dataset{
		collections: newTable[models.Collection](),
		tags:        newTable[models.Tag](),
		habits:      newTable[models.Habit](),
		entries:     newTable[models.HabitEntry](),
		journal:     newTable[models.JournalEntry](),
	}
}

func (d *dataset) clone() *dataset {
	return &dataset{
		collections: d.collections.clone(identity[models.Collection]),
		tags:        d.tags.clone(identity[models.Tag]),
		habits:      d.habits.clone(copyHabit),
		entries:     d.entries.clone(identity[models.HabitEntry]),
		journal:     d.journal.clone(copyJournalEntry),
	}
}

func identity[T any](v T) T { return v }

func copyHabit(h models.Habit) models.Habit {
	h.CustomDays = slices.Clone(h.CustomDays)
	return h
}

func copyJournalEntry(e models.JournalEntry) models.JournalEntry {
	e.TagIDs = slices.Clone(e.TagIDs)
	e.ScheduledDate = copyTime(e.ScheduledDate)
	e.OriginalDate = copyTime(e.OriginalDate)
	return e
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Collections

func (d *dataset) addCollection(c models.Collection) error {
	if c.ID == "" {
		return fmt.Errorf("collection id is required")
	}
	if d.collections.has(c.ID) {
		return fmt.Errorf("collection %s already exists", c.ID)
	}
	d.collections.insert(c.ID, c)
	return nil
}

func (d *dataset) updateCollection(c models.Collection) error {
	if !d.collections.has(c.ID) {
		return fmt.Errorf("collection %s: %w", c.ID, storage.ErrNotFound)
	}
	d.collections.replace(c.ID, c)
	return nil
}

func (d *dataset) deleteCollection(id string) error {
	if !d.collections.remove(id) {
		return fmt.Errorf("collection %s: %w", id, storage.ErrNotFound)
	}
	d.detachCollection(id)
	return nil
}

// detachCollection clears references to a removed collection.
func (d *dataset) detachCollection(id string) {
	d.habits.each(func(hid string, h models.Habit) {
		if h.CollectionID == id {
			h.CollectionID = ""
			d.habits.replace(hid, h)
		}
	})
	d.journal.each(func(eid string, e models.JournalEntry) {
		if e.CollectionID == id {
			e.CollectionID = ""
			d.journal.replace(eid, e)
		}
	})
}

// Tags

func (d *dataset) addTag(t models.Tag) error {
	if t.ID == "" {
		return fmt.Errorf("tag id is required")
	}
	if d.tags.has(t.ID) {
		return fmt.Errorf("tag %s already exists", t.ID)
	}
	d.tags.insert(t.ID, t)
	return nil
}

func (d *dataset) updateTag(t models.Tag) error {
	if !d.tags.has(t.ID) {
		return fmt.Errorf("tag %s: %w", t.ID, storage.ErrNotFound)
	}
	d.tags.replace(t.ID, t)
	return nil
}

func (d *dataset) deleteTag(id string) error {
	if !d.tags.remove(id) {
		return fmt.Errorf("tag %s: %w", id, storage.ErrNotFound)
	}
	d.journal.each(func(eid string, e models.JournalEntry) {
		if i := slices.Index(e.TagIDs, id); i >= 0 {
			e.TagIDs = slices.Delete(slices.Clone(e.TagIDs), i, i+1)
			d.journal.replace(eid, e)
		}
	})
	return nil
}

// Habits

func (d *dataset) checkCollection(id string) error {
	if id != "" && !d.collections.has(id) {
		return fmt.Errorf("collection %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (d *dataset) addHabit(h models.Habit) error {
	if h.ID == "" {
		return fmt.Errorf("habit id is required")
	}
	if d.habits.has(h.ID) {
		return fmt.Errorf("habit %s already exists", h.ID)
	}
	if err := d.checkCollection(h.CollectionID); err != nil {
		return err
	}
	d.habits.insert(h.ID, copyHabit(h))
	return nil
}

func (d *dataset) updateHabit(h models.Habit) error {
	if !d.habits.has(h.ID) {
		return fmt.Errorf("habit %s: %w", h.ID, storage.ErrNotFound)
	}
	if err := d.checkCollection(h.CollectionID); err != nil {
		return err
	}
	d.habits.replace(h.ID, copyHabit(h))
	return nil
}

func (d *dataset) deleteHabit(id string) error {
	if !d.habits.remove(id) {
		return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	var orphaned []string
	d.entries.each(func(eid string, e models.HabitEntry) {
		if e.HabitID == id {
			orphaned = append(orphaned, eid)
		}
	})
	for _, eid := range orphaned {
		d.entries.remove(eid)
	}
	return nil
}

// Habit entries

func (d *dataset) addHabitEntry(e models.HabitEntry) error {
	if e.ID == "" {
		return fmt.Errorf("habit entry id is required")
	}
	if d.entries.has(e.ID) {
		return fmt.Errorf("habit entry %s already exists", e.ID)
	}
	if !d.habits.has(e.HabitID) {
		return fmt.Errorf("habit %s: %w", e.HabitID, storage.ErrNotFound)
	}
	d.entries.insert(e.ID, e)
	return nil
}

func (d *dataset) updateHabitEntry(e models.HabitEntry) error {
	if !d.entries.has(e.ID) {
		return fmt.Errorf("habit entry %s: %w", e.ID, storage.ErrNotFound)
	}
	if !d.habits.has(e.HabitID) {
		return fmt.Errorf("habit %s: %w", e.HabitID, storage.ErrNotFound)
	}
	d.entries.replace(e.ID, e)
	return nil
}

func (d *dataset) deleteHabitEntry(id string) error {
	if !d.entries.remove(id) {
		return fmt.Errorf("habit entry %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// Journal entries

func (d *dataset) checkJournalRefs(e models.JournalEntry) error {
	if err := d.checkCollection(e.CollectionID); err != nil {
		return err
	}
	for _, tagID := range e.TagIDs {
		if !d.tags.has(tagID) {
			return fmt.Errorf("tag %s: %w", tagID, storage.ErrNotFound)
		}
	}
	return nil
}

func (d *dataset) addJournalEntry(e models.JournalEntry) error {
	if e.ID == "" {
		return fmt.Errorf("journal entry id is required")
	}
	if d.journal.has(e.ID) {
		return fmt.Errorf("journal entry %s already exists", e.ID)
	}
	if err := d.checkJournalRefs(e); err != nil {
		return err
	}
	d.journal.insert(e.ID, copyJournalEntry(e))
	return nil
}

func (d *dataset) updateJournalEntry(e models.JournalEntry) error {
	if !d.journal.has(e.ID) {
		return fmt.Errorf("journal entry %s: %w", e.ID, storage.ErrNotFound)
	}
	if err := d.checkJournalRefs(e); err != nil {
		return err
	}
	d.journal.replace(e.ID, copyJournalEntry(e))
	return nil
}

func (d *dataset) deleteJournalEntry(id string) error {
	if !d.journal.remove(id) {
		return fmt.Errorf("journal entry %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (d *dataset) deleteAll(kind storage.Kind) (int, error) {
	switch kind {
	case storage.KindCollections:
		ids := make([]string, 0, d.collections.len())
		d.collections.each(func(id string, _ models.Collection) { ids = append(ids, id) })
		for _, id := range ids {
			d.detachCollection(id)
		}
		return d.collections.clear(), nil
	case storage.KindTags:
		d.journal.each(func(eid string, e models.JournalEntry) {
			if len(e.TagIDs) > 0 {
				e.TagIDs = nil
				d.journal.replace(eid, e)
			}
		})
		return d.tags.clear(), nil
	case storage.KindHabits:
		d.entries.clear()
		return d.habits.clear(), nil
	case storage.KindHabitEntries:
		return d.entries.clear(), nil
	case storage.KindJournalEntries:
		return d.journal.clear(), nil
	default:
		return 0, fmt.Errorf("unknown entity kind %q", kind)
	}
}
