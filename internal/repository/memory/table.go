// Package memory holds the in-process reference implementation of every
// repository. Each table guards its rows with one RWMutex and hands out deep
// copies, so a reader never sees a record halfway through a write.
package memory

import (
	"alcyxob/fitcoach/internal/repository"
	"sync"
)

type table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]*T
	order []string
	clone func(*T) *T
}

func newTable[T any](clone func(*T) *T) *table[T] {
	return &table[T]{
		rows:  make(map[string]*T),
		clone: clone,
	}
}

// shallow is the clone func for records without reference-typed fields.
func shallow[T any](v *T) *T {
	out := *v
	return &out
}

func (t *table[T]) get(id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t.clone(row), nil
}

// insertLocked stores a copy of v. Caller holds the write lock.
func (t *table[T]) insertLocked(id string, v *T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = t.clone(v)
}

func (t *table[T]) insert(id string, v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.insertLocked(id, v)
}

// filter returns copies of matching rows in insertion order.
func (t *table[T]) filter(match func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0)
	for _, id := range t.order {
		row := t.rows[id]
		if match == nil || match(row) {
			out = append(out, *t.clone(row))
		}
	}
	return out
}

// findLocked returns the first stored row matching. Caller holds a lock.
func (t *table[T]) findLocked(match func(*T) bool) *T {
	for _, id := range t.order {
		if row := t.rows[id]; match(row) {
			return row
		}
	}
	return nil
}

// update runs fn against a private copy and swaps it in only if fn succeeds.
func (t *table[T]) update(id string, fn func(*T) error) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := t.clone(row)
	if err := fn(next); err != nil {
		return nil, err
	}
	t.rows[id] = next
	return t.clone(next), nil
}

func (t *table[T]) delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}
