package backup

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize/english"
	"github.com/google/uuid"
	"github.com/juju/clock"

	"github.com/julianstephens/daylog/internal/constants"
	derrors "github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/storage"
)

// Engine encodes a store into an Envelope and rebuilds a store from one.
type Engine struct {
	store storage.Provider
	clock clock.Clock
	newID func() string
}

type Option func(*Engine)

// WithClock sets the clock used for envelope timestamps.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDGenerator sets how live ids are minted for imported entities.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func NewEngine(store storage.Provider, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		clock: clock.WallClock,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Import adds env's graph on top of the existing data as one transaction.
func (e *Engine) Import(env *Envelope, fn ProgressFunc) (Result, error) {
	if err := CheckVersion(env.Version); err != nil {
		return newResult(), err
	}

	tx, err := e.store.Begin()
	if err != nil {
		return newResult(), fmt.Errorf("%w: %v", derrors.ErrCommit, err)
	}

	p := newProgress(fn)
	result, err := newImporter(tx, e.newID).run(env, p)
	if err != nil {
		rollback(tx)
		return result, err
	}
	if err := e.commit(tx); err != nil {
		return result, err
	}
	p.report(constants.ProgressImportCommitted)
	return result, nil
}

// Restore replaces the store's contents with the backup read from r. The
// file is decoded and its version checked before anything is touched; the
// reset and the import then share one transaction, so a failure leaves the
// previous data in place.
func (e *Engine) Restore(r io.Reader, fn ProgressFunc) (Result, error) {
	env, err := Decode(r)
	if err != nil {
		return newResult(), err
	}
	if err := CheckVersion(env.Version); err != nil {
		return newResult(), err
	}

	tx, err := e.store.Begin()
	if err != nil {
		return newResult(), fmt.Errorf("%w: %v", derrors.ErrCommit, err)
	}

	p := newProgress(fn)
	p.report(0)
	cleared, err := Reset(tx)
	if err != nil {
		rollback(tx)
		return newResult(), fmt.Errorf("%w: %v", derrors.ErrCommit, err)
	}
	p.report(constants.ProgressImportReset)

	result, err := newImporter(tx, e.newID).run(env, p)
	result.Cleared = cleared
	if err != nil {
		rollback(tx)
		return result, err
	}
	if err := e.commit(tx); err != nil {
		return result, err
	}
	p.report(constants.ProgressImportCommitted)

	logger.Info("Restored backup", "version", env.Version, "timestamp", env.Timestamp.Time, "created", result.Total())
	return result, nil
}

// Reset clears the live store outside any transaction.
func (e *Engine) Reset() (map[storage.Kind]int, error) {
	return Reset(e.store)
}

func (e *Engine) commit(tx storage.Tx) error {
	if err := tx.Commit(); err != nil {
		rollback(tx)
		return fmt.Errorf("%w: %v", derrors.ErrCommit, err)
	}
	if cr, ok := e.store.(storage.CacheResetter); ok {
		cr.ResetCache()
	}
	return nil
}

func rollback(tx storage.Tx) {
	if err := tx.Rollback(); err != nil {
		logger.Debug("Rollback after failed restore", "error", err)
	}
}

// Result summarises an import.
type Result struct {
	Created map[storage.Kind]int
	// Skipped counts records left out because they were malformed.
	Skipped map[storage.Kind]int
	// DroppedRefs counts unresolved references, keyed by the kind holding
	// them. Habit entries whose habit is missing are counted here and not created.
	DroppedRefs map[storage.Kind]int
	// Cleared is filled by Restore with what the reset removed.
	Cleared map[storage.Kind]int
}

func newResult() Result {
	return Result{
		Created:     make(map[storage.Kind]int),
		Skipped:     make(map[storage.Kind]int),
		DroppedRefs: make(map[storage.Kind]int),
	}
}

func (r Result) Total() int {
	n := 0
	for _, v := range r.Created {
		n += v
	}
	return n
}

func sum(m map[storage.Kind]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

var kindNouns = map[storage.Kind][2]string{
	storage.KindCollections:    {"collection", "collections"},
	storage.KindTags:           {"tag", "tags"},
	storage.KindHabits:         {"habit", "habits"},
	storage.KindHabitEntries:   {"habit entry", "habit entries"},
	storage.KindJournalEntries: {"journal entry", "journal entries"},
}

// Message is the one-line summary shown after a successful import.
func (r Result) Message() string {
	parts := make([]string, 0, len(storage.AllKinds))
	for _, kind := range storage.AllKinds {
		noun := kindNouns[kind]
		parts = append(parts, english.Plural(r.Created[kind], noun[0], noun[1]))
	}
	msg := "Restored " + english.WordSeries(parts, "and")

	if n := sum(r.Skipped); n > 0 {
		msg += fmt.Sprintf("; skipped %s", english.Plural(n, "malformed record", ""))
	}
	if n := sum(r.DroppedRefs); n > 0 {
		msg += fmt.Sprintf("; dropped %s", english.Plural(n, "unresolved reference", ""))
	}
	return msg
}
