package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"backend-trailhub/internal/apperr"
)

// NewMemory returns a store kept entirely in process memory.
func NewMemory() *Store {
	return &Store{
		Pins:      newMemoryTable(pinKind),
		Users:     newMemoryTable(userKind),
		Posts:     newMemoryTable(postKind),
		Ratings:   newMemoryTable(ratingKind),
		Analytics: newMemoryTable(analyticsKind),
		Events:    newMemoryTable(eventKind),
	}
}

type memoryTable[T any] struct {
	kind  kind[T]
	now   func() time.Time
	mu    sync.RWMutex
	order []string
	rows  map[string]T
}

func newMemoryTable[T any](k kind[T]) *memoryTable[T] {
	return &memoryTable[T]{kind: k, now: time.Now, rows: map[string]T{}}
}

func (m *memoryTable[T]) Create(_ context.Context, v T) (T, error) {
	var zero T
	v = m.kind.clone(v)
	if err := m.kind.prepare(&v, m.now()); err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := *m.kind.id(&v)
	if _, exists := m.rows[id]; exists {
		return zero, apperr.Conflict(m.kind.name + " already exists")
	}
	if m.kind.unique != "" {
		want, _ := m.kind.field(&v, m.kind.unique)
		for _, row := range m.rows {
			if got, _ := m.kind.field(&row, m.kind.unique); got == want {
				return zero, apperr.Conflict(m.kind.name + " with this " + m.kind.unique + " already exists")
			}
		}
	}
	m.rows[id] = v
	m.order = append(m.order, id)
	return m.kind.clone(v), nil
}

func (m *memoryTable[T]) Get(_ context.Context, id string) (T, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.rows[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	return m.kind.clone(v), true, nil
}

func (m *memoryTable[T]) List(_ context.Context, filters ...Filter) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		v := m.rows[id]
		ok, err := m.kind.matches(&v, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, m.kind.clone(v))
		}
	}
	if m.kind.newestFirst {
		// reverse first so equal timestamps still list the later insert first
		slices.Reverse(out)
		slices.SortStableFunc(out, func(a, b T) int {
			return m.kind.created(&b).Compare(*m.kind.created(&a))
		})
	}
	return out, nil
}

func (m *memoryTable[T]) Update(_ context.Context, id string, patch Patch[T]) (T, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.rows[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	next, err := m.kind.patch(current, patch, m.now())
	if err != nil {
		var zero T
		return zero, true, err
	}
	m.rows[id] = next
	return m.kind.clone(next), true, nil
}

func (m *memoryTable[T]) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	return true, nil
}
