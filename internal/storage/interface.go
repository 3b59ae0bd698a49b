package storage

import (
	"errors"

	"github.com/julianstephens/daylog/internal/models"
)

// Kind names one managed entity kind.
type Kind string

const (
	KindCollections    Kind = "collections"
	KindTags           Kind = "tags"
	KindHabits         Kind = "habits"
	KindHabitEntries   Kind = "habit_entries"
	KindJournalEntries Kind = "journal_entries"
)

// AllKinds lists every managed kind, dependents last.
var AllKinds = []Kind{
	KindCollections,
	KindTags,
	KindHabits,
	KindHabitEntries,
	KindJournalEntries,
}

var (
	// ErrNotFound is returned when a single entity lookup or mutation misses.
	ErrNotFound = errors.New("not found")
	// ErrNotLoaded is returned when the provider is used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrTxDone is returned when a finished transaction is used again.
	ErrTxDone = errors.New("transaction has already been committed or rolled back")
)

// Reader exposes the bulk reads used by backups and exports.
type Reader interface {
	GetAllCollections() ([]models.Collection, error)
	GetAllTags() ([]models.Tag, error)
	GetAllHabits() ([]models.Habit, error)
	GetAllHabitEntries() ([]models.HabitEntry, error)
	GetAllJournalEntries() ([]models.JournalEntry, error)
}

// Writer exposes per-entity mutations. Callers assign IDs before Add.
type Writer interface {
	AddCollection(models.Collection) error
	UpdateCollection(models.Collection) error
	DeleteCollection(id string) error

	AddTag(models.Tag) error
	UpdateTag(models.Tag) error
	DeleteTag(id string) error

	AddHabit(models.Habit) error
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error

	AddHabitEntry(models.HabitEntry) error
	UpdateHabitEntry(models.HabitEntry) error
	DeleteHabitEntry(id string) error

	AddJournalEntry(models.JournalEntry) error
	UpdateJournalEntry(models.JournalEntry) error
	DeleteJournalEntry(id string) error

	// DeleteAll removes every instance of kind and returns how many were removed.
	DeleteAll(kind Kind) (int, error)
}

// Tx is a pending batch of writes. Commit persists all of them or none.
type Tx interface {
	Writer
	Commit() error
	Rollback() error
}

// CacheResetter is implemented by providers that keep state derived from
// the stored data. Reset calls it once every kind has been cleared.
type CacheResetter interface {
	ResetCache()
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	Reader
	Writer

	// Counts returns the number of stored entities per kind.
	Counts() (map[Kind]int, error)

	// Begin starts a batch of writes committed as one unit.
	Begin() (Tx, error)

	// Utils
	GetConfigPath() string
}
