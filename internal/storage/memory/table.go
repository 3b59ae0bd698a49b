package memory

import "sort"

// table keeps rows keyed by id and remembers insertion order so reads are
// stable.
type table[T any] struct {
	rows map[string]row[T]
	next int
}

type row[T any] struct {
	seq int
	val T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]row[T])}
}

func (t *table[T]) has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *table[T]) get(id string) (T, bool) {
	r, ok := t.rows[id]
	return r.val, ok
}

func (t *table[T]) insert(id string, v T) {
	t.next++
	t.rows[id] = row[T]{seq: t.next, val: v}
}

// replace keeps the original insertion position.
func (t *table[T]) replace(id string, v T) {
	r := t.rows[id]
	r.val = v
	t.rows[id] = r
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

func (t *table[T]) clear() int {
	n := len(t.rows)
	t.rows = make(map[string]row[T])
	return n
}

func (t *table[T]) len() int {
	return len(t.rows)
}

func (t *table[T]) all() []T {
	ordered := make([]row[T], 0, len(t.rows))
	for _, r := range t.rows {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	out := make([]T, len(ordered))
	for i, r := range ordered {
		out[i] = r.val
	}
	return out
}

func (t *table[T]) each(fn func(id string, v T)) {
	for id, r := range t.rows {
		fn(id, r.val)
	}
}

func (t *table[T]) clone(copyFn func(T) T) *table[T] {
	c := &table[T]{rows: make(map[string]row[T], len(t.rows)), next: t.next}
	for id, r := range t.rows {
		c.rows[id] = row[T]{seq: r.seq, val: copyFn(r.val)}
	}
	return c
}
