package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/daylog/internal/constants"
	derrors "github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/storage"
)

// Envelope is the top-level backup document. Later arrays only reference
// identifiers from earlier ones.
type Envelope struct {
	Version        int                  `json:"version"`
	Timestamp      Timestamp            `json:"timestamp"`
	Collections    []CollectionRecord   `json:"collections"`
	Tags           []TagRecord          `json:"tags"`
	Habits         []HabitRecord        `json:"habits"`
	HabitEntries   []HabitEntryRecord   `json:"habitEntries"`
	JournalEntries []JournalEntryRecord `json:"journalEntries"`

	// Undecodable records found by Decode, per kind.
	Malformed map[storage.Kind]int `json:"-"`
}

// Counts returns how many records of each kind the envelope holds.
func (e *Envelope) Counts() map[storage.Kind]int {
	return map[storage.Kind]int{
		storage.KindCollections:    len(e.Collections),
		storage.KindTags:           len(e.Tags),
		storage.KindHabits:         len(e.Habits),
		storage.KindHabitEntries:   len(e.HabitEntries),
		storage.KindJournalEntries: len(e.JournalEntries),
	}
}

type CollectionRecord struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
}

type TagRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type HabitRecord struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Icon              string     `json:"icon,omitempty"`
	Color             string     `json:"color,omitempty"`
	Frequency         string     `json:"frequency,omitempty"`
	CustomDays        []int      `json:"customDays,omitempty"`
	StartDate         string     `json:"startDate,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	DisplayOrder      int        `json:"displayOrder,omitempty"`
	TrackDetails      bool       `json:"trackDetails,omitempty"`
	DetailKind        string     `json:"detailKind,omitempty"`
	UseMultipleStates bool       `json:"useMultipleStates,omitempty"`
	CollectionID      string     `json:"collectionId,omitempty"`
	CreatedAt         *Timestamp `json:"createdAt,omitempty"`
}

type HabitEntryRecord struct {
	ID        string `json:"id"`
	HabitID   string `json:"habitId"`
	Date      string `json:"date"`
	Completed bool   `json:"completed,omitempty"`
	State     int    `json:"completionState,omitempty"`
	Details   string `json:"details,omitempty"`
}

type JournalEntryRecord struct {
	ID            string   `json:"id"`
	Content       string   `json:"content,omitempty"`
	Date          string   `json:"date"`
	Kind          string   `json:"entryType,omitempty"`
	Status        string   `json:"taskStatus,omitempty"`
	Priority      bool     `json:"priority,omitempty"`
	ScheduledDate string   `json:"scheduledDate,omitempty"`
	OriginalDate  string   `json:"originalDate,omitempty"`
	IsMigrated    bool     `json:"isMigrated,omitempty"`
	IsFutureEntry bool     `json:"isFutureEntry,omitempty"`
	CollectionID  string   `json:"collectionId,omitempty"`
	TagIDs        []string `json:"tagIds,omitempty"`
}

// Timestamp is written as RFC 3339 and read from either RFC 3339 or a
// number of seconds since the epoch.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	whole, frac := math.Modf(secs)
	t.Time = time.Unix(int64(whole), int64(frac*1e9)).UTC()
	return nil
}

// wireEnvelope defers record decoding so one bad record does not sink the file.
type wireEnvelope struct {
	Version        *int              `json:"version"`
	Timestamp      *Timestamp        `json:"timestamp"`
	Collections    []json.RawMessage `json:"collections"`
	Tags           []json.RawMessage `json:"tags"`
	Habits         []json.RawMessage `json:"habits"`
	HabitEntries   []json.RawMessage `json:"habitEntries"`
	JournalEntries []json.RawMessage `json:"journalEntries"`
}

// Decode reads a backup document. It fails with ErrIO when r cannot be read
// and ErrFormat when the document is not an envelope. Individual records
// that do not decode are counted in Envelope.Malformed and left out.
func Decode(r io.Reader) (*Envelope, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}

	var wire wireEnvelope
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", derrors.ErrFormat, err)
	}
	if wire.Version == nil {
		return nil, fmt.Errorf("%w: missing version", derrors.ErrFormat)
	}

	env := &Envelope{
		Version:   *wire.Version,
		Malformed: make(map[storage.Kind]int),
	}
	if wire.Timestamp != nil {
		env.Timestamp = *wire.Timestamp
	}

	env.Collections = decodeRecords[CollectionRecord](wire.Collections, storage.KindCollections, env.Malformed)
	env.Tags = decodeRecords[TagRecord](wire.Tags, storage.KindTags, env.Malformed)
	env.Habits = decodeRecords[HabitRecord](wire.Habits, storage.KindHabits, env.Malformed)
	env.HabitEntries = decodeRecords[HabitEntryRecord](wire.HabitEntries, storage.KindHabitEntries, env.Malformed)
	env.JournalEntries = decodeRecords[JournalEntryRecord](wire.JournalEntries, storage.KindJournalEntries, env.Malformed)

	return env, nil
}

func decodeRecords[T any](raw []json.RawMessage, kind storage.Kind, malformed map[storage.Kind]int) []T {
	out := make([]T, 0, len(raw))
	for _, msg := range raw {
		var rec T
		if err := json.Unmarshal(msg, &rec); err != nil {
			malformed[kind]++
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Write encodes env as indented JSON.
func Write(w io.Writer, env *Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	return nil
}

// formatDate renders a calendar date the way records carry it.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(constants.DateFormat)
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and returns
// local midnight of that calendar day.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(constants.DateFormat, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
}
