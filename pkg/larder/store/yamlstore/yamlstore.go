// Package yamlstore keeps a pantry in a hand-editable YAML file:
//
//	pantry:
//	  - true_ingredient: berry
//	    plural: ies
//	    category: produce
//	  - true_ingredient: bay leaf
//	    plural: ves
//
// Every write rewrites the whole file.
package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/larder/pkg/larder/pantry"
	"github.com/cognicore/larder/pkg/larder/store"
	"github.com/cognicore/larder/pkg/larder/store/memstore"
)

type file struct {
	Pantry []record `yaml:"pantry"`
}

// record spells the recipe id as text so that plain entries omit it.
type record struct {
	pantry.Entry `yaml:",inline"`
	RecipeID     string `yaml:"recipe_id,omitempty"`
}

// Store is a store.Store backed by a YAML file.
type Store struct {
	path string
	mu   sync.RWMutex // guards mem and serializes writes to path
	mem  *memstore.Store
}

// Open loads path. A missing file is an empty pantry; it is created on the
// first write.
func Open(path string) (*Store, error) {
	var entries []pantry.Entry
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read pantry: %w", err)
	default:
		entries, err = Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	mem, err := memstore.New(entries...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Store{path: path, mem: mem}, nil
}

// Decode parses a pantry document.
func Decode(data []byte) ([]pantry.Entry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse pantry yaml: %w", err)
	}
	entries := make([]pantry.Entry, len(f.Pantry))
	for i, r := range f.Pantry {
		e := r.Entry
		if r.RecipeID != "" {
			id, err := uuid.Parse(r.RecipeID)
			if err != nil {
				return nil, fmt.Errorf("entry %q: recipe_id: %w", e.TrueIngredient, err)
			}
			e.RecipeID = id
		}
		entries[i] = e
	}
	return entries, nil
}

// Encode renders entries as a pantry document.
func Encode(entries []pantry.Entry) ([]byte, error) {
	f := file{Pantry: make([]record, len(entries))}
	for i, e := range entries {
		f.Pantry[i] = record{Entry: e}
		if e.IsRecipe() {
			f.Pantry[i].RecipeID = e.RecipeID.String()
		}
	}
	return yaml.Marshal(f)
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Entries implements store.Store.
func (s *Store) Entries(ctx context.Context) ([]pantry.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.Entries(ctx)
}

// GetEntry implements store.Store.
func (s *Store) GetEntry(ctx context.Context, name string) (pantry.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.GetEntry(ctx, name)
}

// UpsertEntry stores e and rewrites the file.
func (s *Store) UpsertEntry(ctx context.Context, e pantry.Entry) error {
	return s.apply(ctx, func(next *memstore.Store) error {
		return next.UpsertEntry(ctx, e)
	})
}

// DeleteEntry removes the entry and rewrites the file.
func (s *Store) DeleteEntry(ctx context.Context, name string) error {
	return s.apply(ctx, func(next *memstore.Store) error {
		return next.DeleteEntry(ctx, name)
	})
}

// apply runs change on a copy of the pantry and keeps the copy only once the
// file has been rewritten, so a failed write leaves the store as it was.
func (s *Store) apply(ctx context.Context, change func(*memstore.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.mem.Entries(ctx)
	if err != nil {
		return err
	}
	next, err := memstore.New(entries...)
	if err != nil {
		return err
	}
	if err := change(next); err != nil {
		return err
	}
	if err := s.flush(ctx, next); err != nil {
		return err
	}
	s.mem = next
	return nil
}

// flush writes to a temp file and renames it over path.
func (s *Store) flush(ctx context.Context, mem *memstore.Store) error {
	entries, err := mem.Entries(ctx)
	if err != nil {
		return err
	}
	data, err := Encode(entries)
	if err != nil {
		return fmt.Errorf("encode pantry: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".pantry-*.yaml")
	if err != nil {
		return fmt.Errorf("write pantry: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write pantry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write pantry: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write pantry: %w", err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)
