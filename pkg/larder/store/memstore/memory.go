package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/cognicore/larder/pkg/larder/internalerr"
	"github.com/cognicore/larder/pkg/larder/pantry"
	"github.com/cognicore/larder/pkg/larder/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu      sync.RWMutex
	order   []string // keys in insertion order
	entries map[string]pantry.Entry
}

// New creates a store, optionally seeded with entries.
func New(entries ...pantry.Entry) (*Store, error) {
	s := &Store{entries: make(map[string]pantry.Entry)}
	for _, e := range entries {
		if err := s.UpsertEntry(context.Background(), e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Entries returns all entries in insertion order.
func (s *Store) Entries(ctx context.Context) ([]pantry.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]pantry.Entry, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, copyEntry(s.entries[k]))
	}
	return out, nil
}

// GetEntry returns the entry filed under name.
func (s *Store) GetEntry(ctx context.Context, name string) (pantry.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[store.Key(name)]
	if !ok {
		return pantry.Entry{}, false, nil
	}
	return copyEntry(e), true, nil
}

// UpsertEntry inserts or replaces an entry, keyed by its true ingredient.
func (s *Store) UpsertEntry(ctx context.Context, e pantry.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := store.Key(e.TrueIngredient)
	if _, ok := s.entries[key]; !ok {
		s.order = append(s.order, key)
	}
	s.entries[key] = copyEntry(e)
	return nil
}

// DeleteEntry removes the entry filed under name.
func (s *Store) DeleteEntry(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := store.Key(name)
	if _, ok := s.entries[key]; !ok {
		return fmt.Errorf("pantry entry %q: %w", name, internalerr.ErrNotFound)
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func copyEntry(e pantry.Entry) pantry.Entry {
	e.Names = append([]string(nil), e.Names...)
	return e
}

var _ store.Store = (*Store)(nil)
