package sqlstore

import (
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

// Store methods run each statement outside any transaction.

func (s *Store) GetAllCollections() ([]models.Collection, error) {
	c, err := s.conn()
	if err != nil {
		return nil, err
	}
	return c.GetAllCollections()
}

func (s *Store) GetAllTags() ([]models.Tag, error) {
	c, err := s.conn()
	if err != nil {
		return nil, err
	}
	return c.GetAllTags()
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	c, err := s.conn()
	if err != nil {
		return nil, err
	}
	return c.GetAllHabits()
}

func (s *Store) GetAllHabitEntries() ([]models.HabitEntry, error) {
	c, err := s.conn()
	if err != nil {
		return nil, err
	}
	return c.GetAllHabitEntries()
}

func (s *Store) GetAllJournalEntries() ([]models.JournalEntry, error) {
	c, err := s.conn()
	if err != nil {
		return nil, err
	}
	return c.GetAllJournalEntries()
}

func (s *Store) AddCollection(col models.Collection) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.AddCollection(col)
}

func (s *Store) UpdateCollection(col models.Collection) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.UpdateCollection(col)
}

func (s *Store) DeleteCollection(id string) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.DeleteCollection(id)
}

func (s *Store) AddTag(t models.Tag) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.AddTag(t)
}

func (s *Store) UpdateTag(t models.Tag) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.UpdateTag(t)
}

func (s *Store) DeleteTag(id string) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.DeleteTag(id)
}

func (s *Store) AddHabit(h models.Habit) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.AddHabit(h)
}

func (s *Store) UpdateHabit(h models.Habit) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.UpdateHabit(h)
}

func (s *Store) DeleteHabit(id string) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.DeleteHabit(id)
}

func (s *Store) AddHabitEntry(e models.HabitEntry) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.AddHabitEntry(e)
}

func (s *Store) UpdateHabitEntry(e models.HabitEntry) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.UpdateHabitEntry(e)
}

func (s *Store) DeleteHabitEntry(id string) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.DeleteHabitEntry(id)
}

func (s *Store) AddJournalEntry(e models.JournalEntry) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.AddJournalEntry(e)
}

func (s *Store) UpdateJournalEntry(e models.JournalEntry) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.UpdateJournalEntry(e)
}

func (s *Store) DeleteJournalEntry(id string) error {
	c, err := s.conn()
	if err != nil {
		return err
	}
	return c.DeleteJournalEntry(id)
}

func (s *Store) DeleteAll(kind storage.Kind) (int, error) {
	c, err := s.conn()
	if err != nil {
		return 0, err
	}
	return c.DeleteAll(kind)
}
