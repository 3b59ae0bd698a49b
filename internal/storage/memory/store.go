// Package memory provides an in-process storage.Provider. It honours the
// same transactional contract as the SQL providers and is used by tests and
// dry runs.
package memory

import (
	"fmt"
	"sync"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

type Store struct {
	mu     sync.RWMutex
	data   *dataset
	counts map[storage.Kind]int

	// CommitErr, when set, makes every Commit fail with it.
	CommitErr error
	// DeleteAllErr makes DeleteAll fail for the given kinds.
	DeleteAllErr map[storage.Kind]error
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) GetConfigPath() string { return ":memory:" }

// ResetCache drops the cached per-kind counts.
func (s *Store) ResetCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = nil
}

// Counts returns the number of stored entities per kind.
func (s *Store) Counts() (map[storage.Kind]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = map[storage.Kind]int{
			storage.KindCollections:    s.data.collections.len(),
			storage.KindTags:           s.data.tags.len(),
			storage.KindHabits:         s.data.habits.len(),
			storage.KindHabitEntries:   s.data.entries.len(),
			storage.KindJournalEntries: s.data.journal.len(),
		}
	}
	out := make(map[storage.Kind]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out, nil
}

// Reads

func (s *Store) GetAllCollections() ([]models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.collections.all(), nil
}

func (s *Store) GetAllTags() ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.tags.all(), nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	habits := s.data.habits.all()
	for i := range habits {
		habits[i] = copyHabit(habits[i])
	}
	return habits, nil
}

func (s *Store) GetAllHabitEntries() ([]models.HabitEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.entries.all(), nil
}

func (s *Store) GetAllJournalEntries() ([]models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.data.journal.all()
	for i := range entries {
		entries[i] = copyJournalEntry(entries[i])
	}
	return entries, nil
}

// write applies fn to the committed dataset.
func (s *Store) write(fn func(d *dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = nil
	return fn(s.data)
}

func (s *Store) AddCollection(c models.Collection) error {
	return s.write(func(d *dataset) error { return d.addCollection(c) })
}

func (s *Store) UpdateCollection(c models.Collection) error {
	return s.write(func(d *dataset) error { return d.updateCollection(c) })
}

func (s *Store) DeleteCollection(id string) error {
	return s.write(func(d *dataset) error { return d.deleteCollection(id) })
}

func (s *Store) AddTag(t models.Tag) error {
	return s.write(func(d *dataset) error { return d.addTag(t) })
}

func (s *Store) UpdateTag(t models.Tag) error {
	return s.write(func(d *dataset) error { return d.updateTag(t) })
}

func (s *Store) DeleteTag(id string) error {
	return s.write(func(d *dataset) error { return d.deleteTag(id) })
}

func (s *Store) AddHabit(h models.Habit) error {
	return s.write(func(d *dataset) error { return d.addHabit(h) })
}

func (s *Store) UpdateHabit(h models.Habit) error {
	return s.write(func(d *dataset) error { return d.updateHabit(h) })
}

func (s *Store) DeleteHabit(id string) error {
	return s.write(func(d *dataset) error { return d.deleteHabit(id) })
}

func (s *Store) AddHabitEntry(e models.HabitEntry) error {
	return s.write(func(d *dataset) error { return d.addHabitEntry(e) })
}

func (s *Store) UpdateHabitEntry(e models.HabitEntry) error {
	return s.write(func(d *dataset) error { return d.updateHabitEntry(e) })
}

func (s *Store) DeleteHabitEntry(id string) error {
	return s.write(func(d *dataset) error { return d.deleteHabitEntry(id) })
}

func (s *Store) AddJournalEntry(e models.JournalEntry) error {
	return s.write(func(d *dataset) error { return d.addJournalEntry(e) })
}

func (s *Store) UpdateJournalEntry(e models.JournalEntry) error {
	return s.write(func(d *dataset) error { return d.updateJournalEntry(e) })
}

func (s *Store) DeleteJournalEntry(id string) error {
	return s.write(func(d *dataset) error { return d.deleteJournalEntry(id) })
}

func (s *Store) DeleteAll(kind storage.Kind) (int, error) {
	if err := s.DeleteAllErr[kind]; err != nil {
		return 0, err
	}
	var n int
	err := s.write(func(d *dataset) error {
		var err error
		n, err = d.deleteAll(kind)
		return err
	})
	return n, err
}

// Begin snapshots the committed data; writes on the returned Tx are only
// visible after Commit.
func (s *Store) Begin() (storage.Tx, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &tx{store: s, data: s.data.clone()}, nil
}

type tx struct {
	store *Store
	data  *dataset
	done  bool
}

func (t *tx) apply(fn func(d *dataset) error) error {
	if t.done {
		return storage.ErrTxDone
	}
	return fn(t.data)
}

func (t *tx) Commit() error {
	if t.done {
		return storage.ErrTxDone
	}
	t.done = true
	if t.store.CommitErr != nil {
		return fmt.Errorf("commit failed: %w", t.store.CommitErr)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.data = t.data
	t.store.counts = nil
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return storage.ErrTxDone
	}
	t.done = true
	t.data = nil
	return nil
}

func (t *tx) AddCollection(c models.Collection) error {
	return t.apply(func(d *dataset) error { return d.addCollection(c) })
}

func (t *tx) UpdateCollection(c models.Collection) error {
	return t.apply(func(d *dataset) error { return d.updateCollection(c) })
}

func (t *tx) DeleteCollection(id string) error {
	return t.apply(func(d *dataset) error { return d.deleteCollection(id) })
}

func (t *tx) AddTag(tag models.Tag) error {
	return t.apply(func(d *dataset) error { return d.addTag(tag) })
}

func (t *tx) UpdateTag(tag models.Tag) error {
	return t.apply(func(d *dataset) error { return d.updateTag(tag) })
}

func (t *tx) DeleteTag(id string) error {
	return t.apply(func(d *dataset) error { return d.deleteTag(id) })
}

func (t *tx) AddHabit(h models.Habit) error {
	return t.apply(func(d *dataset) error { return d.addHabit(h) })
}

func (t *tx) UpdateHabit(h models.Habit) error {
	return t.apply(func(d *dataset) error { return d.updateHabit(h) })
}

func (t *tx) DeleteHabit(id string) error {
	return t.apply(func(d *dataset) error { return d.deleteHabit(id) })
}

func (t *tx) AddHabitEntry(e models.HabitEntry) error {
	return t.apply(func(d *dataset) error { return d.addHabitEntry(e) })
}

func (t *tx) UpdateHabitEntry(e models.HabitEntry) error {
	return t.apply(func(d *dataset) error { return d.updateHabitEntry(e) })
}

func (t *tx) DeleteHabitEntry(id string) error {
	return t.apply(func(d *dataset) error { return d.deleteHabitEntry(id) })
}

func (t *tx) AddJournalEntry(e models.JournalEntry) error {
	return t.apply(func(d *dataset) error { return d.addJournalEntry(e) })
}

func (t *tx) UpdateJournalEntry(e models.JournalEntry) error {
	return t.apply(func(d *dataset) error { return d.updateJournalEntry(e) })
}

func (t *tx) DeleteJournalEntry(id string) error {
	return t.apply(func(d *dataset) error { return d.deleteJournalEntry(id) })
}

func (t *tx) DeleteAll(kind storage.Kind) (int, error) {
	if err := t.store.DeleteAllErr[kind]; err != nil {
		return 0, err
	}
	var n int
	err := t.apply(func(d *dataset) error {
		var err error
		n, err = d.deleteAll(kind)
		return err
	})
	return n, err
}
