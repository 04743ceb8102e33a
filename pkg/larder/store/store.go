// Package store defines the pantry collaborator: where pantry entries live
// between formatting runs. Implementations are in memstore, sqlite and
// yamlstore.
package store

import (
	"context"
	"fmt"

	"github.com/cognicore/larder/pkg/larder/pantry"
)

// Store persists pantry entries, keyed by normalized true ingredient name.
type Store interface {
	Close() error

	// Entries returns all entries in insertion order.
	Entries(ctx context.Context) ([]pantry.Entry, error)
	GetEntry(ctx context.Context, name string) (pantry.Entry, bool, error)
	// UpsertEntry inserts an entry or replaces the one with the same name.
	UpsertEntry(ctx context.Context, e pantry.Entry) error
	// DeleteEntry removes an entry; internalerr.ErrNotFound if absent.
	DeleteEntry(ctx context.Context, name string) error
}

// Key returns the identity under which a store files an entry name.
func Key(name string) string {
	return pantry.Normalize(name)
}

// LoadSnapshot reads every entry from s and indexes them. The snapshot is
// independent of the store afterwards.
func LoadSnapshot(ctx context.Context, s Store) (*pantry.Snapshot, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pantry entries: %w", err)
	}
	snap, err := pantry.NewSnapshot(entries)
	if err != nil {
		return nil, fmt.Errorf("index pantry: %w", err)
	}
	return snap, nil
}

// Copy upserts every entry of src into dst and returns how many were written.
func Copy(ctx context.Context, dst, src Store) (int, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return 0, fmt.Errorf("read source: %w", err)
	}
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := dst.UpsertEntry(ctx, e); err != nil {
			return i, fmt.Errorf("write %q: %w", e.TrueIngredient, err)
		}
	}
	return len(entries), nil
}
