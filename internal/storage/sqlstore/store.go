// Package sqlstore implements storage reads, writes and transactions over
// database/sql. The sqlite and postgres providers wrap it with their own
// connection and migration handling.
package sqlstore

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/julianstephens/daylog/internal/storage"
)

type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// queryer is the part of *sql.DB and *sql.Tx the queries need.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

var tables = map[storage.Kind]string{
	storage.KindCollections:    "collections",
	storage.KindTags:           "tags",
	storage.KindHabits:         "habits",
	storage.KindHabitEntries:   "habit_entries",
	storage.KindJournalEntries: "journal_entries",
}

// Store serves every storage operation from an open *sql.DB. A nil *Store
// reports storage.ErrNotLoaded.
type Store struct {
	db      *sql.DB
	dialect Dialect

	mu     sync.Mutex
	counts map[storage.Kind]int
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// Dialect reports which SQL flavour the store speaks.
func (s *Store) Dialect() Dialect {
	if s == nil {
		return SQLite
	}
	return s.dialect
}

func (s *Store) conn() (*conn, error) {
	if s == nil || s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	return &conn{q: s.db, dialect: s.dialect, onWrite: s.ResetCache}, nil
}

// ResetCache drops the cached per-kind counts.
func (s *Store) ResetCache() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = nil
}

// Counts returns the number of stored entities per kind.
func (s *Store) Counts() (map[storage.Kind]int, error) {
	c, err := s.conn()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		counts := make(map[storage.Kind]int, len(storage.AllKinds))
		for _, kind := range storage.AllKinds {
			var n int
			if err := c.queryRow("SELECT COUNT(*) FROM " + tables[kind]).Scan(&n); err != nil {
				return nil, fmt.Errorf("failed to count %s: %w", kind, err)
			}
			counts[kind] = n
		}
		s.counts = counts
	}

	out := make(map[storage.Kind]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out, nil
}

// Begin starts a database transaction. Writes on the returned Tx are only
// visible to other readers after Commit.
func (s *Store) Begin() (storage.Tx, error) {
	if s == nil || s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	sqlTx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &tx{
		conn:  conn{q: sqlTx, dialect: s.dialect, onWrite: func() {}},
		sqlTx: sqlTx,
		store: s,
	}, nil
}

type tx struct {
	conn
	sqlTx *sql.Tx
	store *Store
}

func (t *tx) Commit() error {
	if err := t.sqlTx.Commit(); err != nil {
		if err == sql.ErrTxDone {
			return storage.ErrTxDone
		}
		return fmt.Errorf("commit failed: %w", err)
	}
	t.store.ResetCache()
	return nil
}

func (t *tx) Rollback() error {
	if err := t.sqlTx.Rollback(); err != nil {
		if err == sql.ErrTxDone {
			return storage.ErrTxDone
		}
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// conn runs the shared queries against a db or a tx.
type conn struct {
	q       queryer
	dialect Dialect
	onWrite func()
}

func (c *conn) exec(query string, args ...any) (sql.Result, error) {
	c.onWrite()
	return c.q.Exec(Rebind(c.dialect, query), args...)
}

func (c *conn) query(query string, args ...any) (*sql.Rows, error) {
	return c.q.Query(Rebind(c.dialect, query), args...)
}

func (c *conn) queryRow(query string, args ...any) *sql.Row {
	return c.q.QueryRow(Rebind(c.dialect, query), args...)
}

// Rebind rewrites ? placeholders to $1, $2 ... for postgres.
func Rebind(d Dialect, query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// requireRow maps a zero-row update or delete to storage.ErrNotFound.
func requireRow(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return nil
}
