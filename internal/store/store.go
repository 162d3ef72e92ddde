package store

import (
	"context"
	"sync"

	"github.com/totegamma/apub-playground"
)

// Store holds locally known objects. Implementations must be safe for
// concurrent use and must never hold a lock across a network call.
type Store[T any] interface {
	Insert(ctx context.Context, obj T) error
	Get(ctx context.Context, key string) (T, error)
	List(ctx context.Context) ([]T, error)
	Len() int
}

// Memory is an in-process Store keyed by object identifier.
type Memory[T any] struct {
	mu      sync.RWMutex
	key     func(T) string
	items   map[string]T
	order   []string
	replace bool
}

type MemoryOption[T any] func(*Memory[T])

// WithReplace makes Insert overwrite an entry that is already present.
// The entry keeps its original position in List.
func WithReplace[T any]() MemoryOption[T] {
	return func(m *Memory[T]) {
		m.replace = true
	}
}

func NewMemory[T any](key func(T) string, opts ...MemoryOption[T]) *Memory[T] {
	m := &Memory[T]{
		key:   key,
		items: make(map[string]T),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Insert adds obj. When the identifier is already present the first entry
// is kept unless the store was built WithReplace.
func (m *Memory[T]) Insert(ctx context.Context, obj T) error {
	k := m.key(obj)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[k]; ok {
		if m.replace {
			m.items[k] = obj
		}
		return nil
	}
	m.items[k] = obj
	m.order = append(m.order, k)

	return nil
}

func (m *Memory[T]) Get(ctx context.Context, key string) (T, error) {
	m.mu.RLock()
	obj, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		var zero T
		return zero, apub.NotFoundError{Resource: key}
	}
	return obj, nil
}

// List returns a snapshot in insertion order.
func (m *Memory[T]) List(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.items[k])
	}
	return out, nil
}

func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

var _ Store[struct{}] = (*Memory[struct{}])(nil)
