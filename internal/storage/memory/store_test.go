package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	if err := s.AddCollection(models.Collection{ID: "c1", Name: "Daily Log"}); err != nil {
		t.Fatalf("failed to add collection: %v", err)
	}
	if err := s.AddTag(models.Tag{ID: "t1", Name: "work"}); err != nil {
		t.Fatalf("failed to add tag: %v", err)
	}
	if err := s.AddHabit(models.Habit{ID: "h1", Name: "Read", CollectionID: "c1", CustomDays: []int{2}}); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if err := s.AddHabitEntry(models.HabitEntry{ID: "e1", HabitID: "h1", Date: time.Now()}); err != nil {
		t.Fatalf("failed to add habit entry: %v", err)
	}
	if err := s.AddJournalEntry(models.JournalEntry{ID: "j1", Content: "hi", CollectionID: "c1", TagIDs: []string{"t1"}}); err != nil {
		t.Fatalf("failed to add journal entry: %v", err)
	}
}

func TestTxCommitAndRollback(t *testing.T) {
	s := NewStore()

	tx, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := tx.AddTag(models.Tag{ID: "t1", Name: "work"}); err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}

	tags, _ := s.GetAllTags()
	if len(tags) != 0 {
		t.Errorf("uncommitted tag is visible: %v", tags)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	tags, _ = s.GetAllTags()
	if len(tags) != 1 {
		t.Errorf("expected 1 tag after commit, got %d", len(tags))
	}

	if err := tx.AddTag(models.Tag{ID: "t2"}); !errors.Is(err, storage.ErrTxDone) {
		t.Errorf("expected ErrTxDone after commit, got %v", err)
	}

	tx, _ = s.Begin()
	if err := tx.AddTag(models.Tag{ID: "t2", Name: "home"}); err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	tags, _ = s.GetAllTags()
	if len(tags) != 1 {
		t.Errorf("rolled back tag is visible: %v", tags)
	}
}

func TestCommitErrKeepsCommittedData(t *testing.T) {
	s := NewStore()
	seed(t, s)
	s.CommitErr = errors.New("disk full")

	tx, _ := s.Begin()
	if _, err := tx.DeleteAll(storage.KindHabits); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if err := tx.Commit(); err == nil {
		t.Fatal("expected commit to fail")
	}

	habits, _ := s.GetAllHabits()
	if len(habits) != 1 {
		t.Errorf("expected habit to survive failed commit, got %d", len(habits))
	}
}

func TestDeleteCascades(t *testing.T) {
	s := NewStore()
	seed(t, s)

	if err := s.DeleteHabit("h1"); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	entries, _ := s.GetAllHabitEntries()
	if len(entries) != 0 {
		t.Errorf("expected entries of deleted habit to be removed, got %d", len(entries))
	}

	if err := s.DeleteTag("t1"); err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}
	if err := s.DeleteCollection("c1"); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}
	journal, _ := s.GetAllJournalEntries()
	if len(journal[0].TagIDs) != 0 || journal[0].CollectionID != "" {
		t.Errorf("expected references to be cleared, got %+v", journal[0])
	}
}

func TestReferentialChecks(t *testing.T) {
	s := NewStore()
	if err := s.AddHabitEntry(models.HabitEntry{ID: "e1", HabitID: "missing"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown habit, got %v", err)
	}
	if err := s.AddJournalEntry(models.JournalEntry{ID: "j1", TagIDs: []string{"missing"}}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown tag, got %v", err)
	}
	if err := s.AddHabit(models.Habit{ID: "h1", CollectionID: "missing"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown collection, got %v", err)
	}
}

func TestCountsCache(t *testing.T) {
	s := NewStore()
	seed(t, s)

	counts, err := s.Counts()
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	for _, kind := range storage.AllKinds {
		if counts[kind] != 1 {
			t.Errorf("expected 1 %s, got %d", kind, counts[kind])
		}
	}

	if _, err := s.DeleteAll(storage.KindJournalEntries); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	counts, _ = s.Counts()
	if counts[storage.KindJournalEntries] != 0 {
		t.Errorf("expected counts to refresh after a write, got %d", counts[storage.KindJournalEntries])
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := NewStore()
	seed(t, s)

	habits, _ := s.GetAllHabits()
	habits[0].CustomDays[0] = 7

	again, _ := s.GetAllHabits()
	if again[0].CustomDays[0] != 2 {
		t.Errorf("mutating a read result changed stored data")
	}
}
