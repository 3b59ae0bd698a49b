package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

// Collections

func (c *conn) GetAllCollections() ([]models.Collection, error) {
	rows, err := c.query("SELECT id, name, created_at FROM collections ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var col models.Collection
		var createdAt string
		if err := rows.Scan(&col.ID, &col.Name, &createdAt); err != nil {
			return nil, err
		}
		if col.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		collections = append(collections, col)
	}
	return collections, rows.Err()
}

func (c *conn) AddCollection(col models.Collection) error {
	_, err := c.exec("INSERT INTO collections (id, name, created_at) VALUES (?, ?, ?)",
		col.ID, col.Name, formatTime(col.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add collection %s: %w", col.ID, err)
	}
	return nil
}

func (c *conn) UpdateCollection(col models.Collection) error {
	res, err := c.exec("UPDATE collections SET name = ?, created_at = ? WHERE id = ?",
		col.Name, formatTime(col.CreatedAt), col.ID)
	if err != nil {
		return fmt.Errorf("failed to update collection %s: %w", col.ID, err)
	}
	return requireRow(res, "collection", col.ID)
}

func (c *conn) DeleteCollection(id string) error {
	res, err := c.exec("DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", id, err)
	}
	return requireRow(res, "collection", id)
}

// Tags

func (c *conn) GetAllTags() ([]models.Tag, error) {
	rows, err := c.query("SELECT id, name FROM tags ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (c *conn) AddTag(t models.Tag) error {
	if _, err := c.exec("INSERT INTO tags (id, name) VALUES (?, ?)", t.ID, t.Name); err != nil {
		return fmt.Errorf("failed to add tag %s: %w", t.ID, err)
	}
	return nil
}

func (c *conn) UpdateTag(t models.Tag) error {
	res, err := c.exec("UPDATE tags SET name = ? WHERE id = ?", t.Name, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update tag %s: %w", t.ID, err)
	}
	return requireRow(res, "tag", t.ID)
}

func (c *conn) DeleteTag(id string) error {
	res, err := c.exec("DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", id, err)
	}
	return requireRow(res, "tag", id)
}

// Habits

const habitColumns = `id, name, icon, color, frequency, custom_days, start_date, notes,
	display_order, track_details, detail_kind, use_multiple_states, collection_id, created_at`

func (c *conn) GetAllHabits() ([]models.Habit, error) {
	rows, err := c.query("SELECT " + habitColumns + " FROM habits ORDER BY display_order, created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		var frequency, customDays, createdAt string
		var startDate, collectionID sql.NullString

		err := rows.Scan(&h.ID, &h.Name, &h.Icon, &h.Color, &frequency, &customDays, &startDate, &h.Notes,
			&h.DisplayOrder, &h.TrackDetails, &h.DetailKind, &h.UseMultipleStates, &collectionID, &createdAt)
		if err != nil {
			return nil, err
		}

		h.Frequency = models.FrequencyKind(frequency)
		h.CollectionID = collectionID.String
		if h.CustomDays, err = parseDays(customDays); err != nil {
			return nil, err
		}
		start, err := parseNullDate("start_date", startDate)
		if err != nil {
			return nil, err
		}
		if start != nil {
			h.StartDate = *start
		}
		if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func habitArgs(h models.Habit) []any {
	return []any{
		h.Name, h.Icon, h.Color, string(h.Frequency), formatDays(h.CustomDays), nullDate(&h.StartDate), h.Notes,
		h.DisplayOrder, h.TrackDetails, h.DetailKind, h.UseMultipleStates, nullID(h.CollectionID), formatTime(h.CreatedAt),
	}
}

func (c *conn) AddHabit(h models.Habit) error {
	args := append([]any{h.ID}, habitArgs(h)...)
	_, err := c.exec("INSERT INTO habits ("+habitColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", args...)
	if err != nil {
		return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
	}
	return nil
}

func (c *conn) UpdateHabit(h models.Habit) error {
	args := append(habitArgs(h), h.ID)
	res, err := c.exec(`UPDATE habits SET name = ?, icon = ?, color = ?, frequency = ?, custom_days = ?,
		start_date = ?, notes = ?, display_order = ?, track_details = ?, detail_kind = ?,
		use_multiple_states = ?, collection_id = ?, created_at = ? WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update habit %s: %w", h.ID, err)
	}
	return requireRow(res, "habit", h.ID)
}

func (c *conn) DeleteHabit(id string) error {
	res, err := c.exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit %s: %w", id, err)
	}
	return requireRow(res, "habit", id)
}

// Habit entries

func (c *conn) GetAllHabitEntries() ([]models.HabitEntry, error) {
	rows, err := c.query("SELECT id, habit_id, date, completed, state, details FROM habit_entries ORDER BY date, habit_id, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.HabitEntry
	for rows.Next() {
		var e models.HabitEntry
		var date, details string
		var state int
		if err := rows.Scan(&e.ID, &e.HabitID, &date, &e.Completed, &state, &details); err != nil {
			return nil, err
		}
		if e.Date, err = parseDate("date", date); err != nil {
			return nil, err
		}
		e.State = models.CompletionState(state)
		e.Details = models.ParseDetails(details)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (c *conn) AddHabitEntry(e models.HabitEntry) error {
	_, err := c.exec("INSERT INTO habit_entries (id, habit_id, date, completed, state, details) VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, e.HabitID, formatDate(e.Date), e.Completed, int(e.State), models.EncodeDetails(e.Details))
	if err != nil {
		return fmt.Errorf("failed to add habit entry %s: %w", e.ID, err)
	}
	return nil
}

func (c *conn) UpdateHabitEntry(e models.HabitEntry) error {
	res, err := c.exec("UPDATE habit_entries SET habit_id = ?, date = ?, completed = ?, state = ?, details = ? WHERE id = ?",
		e.HabitID, formatDate(e.Date), e.Completed, int(e.State), models.EncodeDetails(e.Details), e.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit entry %s: %w", e.ID, err)
	}
	return requireRow(res, "habit entry", e.ID)
}

func (c *conn) DeleteHabitEntry(id string) error {
	res, err := c.exec("DELETE FROM habit_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit entry %s: %w", id, err)
	}
	return requireRow(res, "habit entry", id)
}

// Journal entries

func (c *conn) GetAllJournalEntries() ([]models.JournalEntry, error) {
	rows, err := c.query(`SELECT id, content, date, kind, status, priority, scheduled_date, original_date,
		is_migrated, is_future_entry, collection_id FROM journal_entries ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.JournalEntry
	index := make(map[string]int)
	for rows.Next() {
		var e models.JournalEntry
		var date, kind, status string
		var scheduled, original, collectionID sql.NullString

		err := rows.Scan(&e.ID, &e.Content, &date, &kind, &status, &e.Priority, &scheduled, &original,
			&e.IsMigrated, &e.IsFutureEntry, &collectionID)
		if err != nil {
			return nil, err
		}
		if e.Date, err = parseDate("date", date); err != nil {
			return nil, err
		}
		if e.ScheduledDate, err = parseNullDate("scheduled_date", scheduled); err != nil {
			return nil, err
		}
		if e.OriginalDate, err = parseNullDate("original_date", original); err != nil {
			return nil, err
		}
		e.Kind = models.EntryKind(kind)
		e.Status = models.TaskStatus(status)
		e.CollectionID = collectionID.String

		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	tagRows, err := c.query("SELECT entry_id, tag_id FROM journal_entry_tags ORDER BY entry_id, tag_id")
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var entryID, tagID string
		if err := tagRows.Scan(&entryID, &tagID); err != nil {
			return nil, err
		}
		if i, ok := index[entryID]; ok {
			entries[i].TagIDs = append(entries[i].TagIDs, tagID)
		}
	}
	return entries, tagRows.Err()
}

func (c *conn) AddJournalEntry(e models.JournalEntry) error {
	_, err := c.exec(`INSERT INTO journal_entries (id, content, date, kind, status, priority, scheduled_date,
		original_date, is_migrated, is_future_entry, collection_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Content, formatDate(e.Date), string(e.Kind), string(e.Status), e.Priority,
		nullDate(e.ScheduledDate), nullDate(e.OriginalDate), e.IsMigrated, e.IsFutureEntry, nullID(e.CollectionID))
	if err != nil {
		return fmt.Errorf("failed to add journal entry %s: %w", e.ID, err)
	}
	return c.insertEntryTags(e)
}

func (c *conn) UpdateJournalEntry(e models.JournalEntry) error {
	res, err := c.exec(`UPDATE journal_entries SET content = ?, date = ?, kind = ?, status = ?, priority = ?,
		scheduled_date = ?, original_date = ?, is_migrated = ?, is_future_entry = ?, collection_id = ? WHERE id = ?`,
		e.Content, formatDate(e.Date), string(e.Kind), string(e.Status), e.Priority,
		nullDate(e.ScheduledDate), nullDate(e.OriginalDate), e.IsMigrated, e.IsFutureEntry, nullID(e.CollectionID), e.ID)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", e.ID, err)
	}
	if err := requireRow(res, "journal entry", e.ID); err != nil {
		return err
	}
	if _, err := c.exec("DELETE FROM journal_entry_tags WHERE entry_id = ?", e.ID); err != nil {
		return fmt.Errorf("failed to clear tags of journal entry %s: %w", e.ID, err)
	}
	return c.insertEntryTags(e)
}

func (c *conn) insertEntryTags(e models.JournalEntry) error {
	seen := make(map[string]bool, len(e.TagIDs))
	for _, tagID := range e.TagIDs {
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		if _, err := c.exec("INSERT INTO journal_entry_tags (entry_id, tag_id) VALUES (?, ?)", e.ID, tagID); err != nil {
			return fmt.Errorf("failed to tag journal entry %s with %s: %w", e.ID, tagID, err)
		}
	}
	return nil
}

func (c *conn) DeleteJournalEntry(id string) error {
	res, err := c.exec("DELETE FROM journal_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", id, err)
	}
	return requireRow(res, "journal entry", id)
}

// DeleteAll removes every row of kind. Dependent rows follow the schema's
// ON DELETE rules.
func (c *conn) DeleteAll(kind storage.Kind) (int, error) {
	table, ok := tables[kind]
	if !ok {
		return 0, fmt.Errorf("unknown kind %q", kind)
	}
	res, err := c.exec("DELETE FROM " + table)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}
