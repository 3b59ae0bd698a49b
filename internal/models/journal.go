package models

import "time"

// Collection groups habits and journal entries.
type Collection struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Tag labels journal entries.
type Tag struct {
	ID   string
	Name string
}

type EntryKind string

const (
	EntryKindTask  EntryKind = "task"
	EntryKindEvent EntryKind = "event"
	EntryKindNote  EntryKind = "note"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusMigrated  TaskStatus = "migrated"
	TaskStatusScheduled TaskStatus = "scheduled"
)

// JournalEntry is a bullet journal item: a task, an event or a note.
type JournalEntry struct {
	ID            string
	Content       string
	Date          time.Time
	Kind          EntryKind
	Status        TaskStatus
	Priority      bool
	ScheduledDate *time.Time
	OriginalDate  *time.Time
	IsMigrated    bool
	IsFutureEntry bool
	CollectionID  string   // empty when the entry has no collection
	TagIDs        []string // order carries no meaning
}
