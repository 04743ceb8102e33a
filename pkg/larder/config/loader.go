package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/larder/pkg/larder"
	"github.com/cognicore/larder/pkg/larder/internalerr"
	"github.com/cognicore/larder/pkg/larder/pantry"
	"github.com/cognicore/larder/pkg/larder/reference"
	"github.com/cognicore/larder/pkg/larder/store"
	"github.com/cognicore/larder/pkg/larder/store/memstore"
	"github.com/cognicore/larder/pkg/larder/store/sqlite"
	"github.com/cognicore/larder/pkg/larder/store/yamlstore"
	"github.com/cognicore/larder/pkg/larder/units"
)

// Loader constructs components from a Config
type Loader struct {
	Config *Config // nil means Default()
	Logger *zap.Logger
}

// Components holds everything one formatting run needs. The catalog and
// snapshot are fixed at load time; load again to pick up pantry edits.
type Components struct {
	Units     *units.Catalog
	Store     store.Store
	Snapshot  *pantry.Snapshot
	Matcher   *pantry.Matcher
	Resolver  *reference.Resolver
	Formatter *larder.Formatter
}

// Close releases the pantry store.
func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// Load builds the unit catalog, opens the pantry store, snapshots it and
// wires the formatter.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		def := Default()
		cfg = &def
	}
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}

	comp := &Components{}

	// Load units
	if cfg.UnitsPath != "" {
		catalog, err := units.LoadFromYAML(cfg.UnitsPath, units.Default())
		if err != nil {
			return nil, fmt.Errorf("load units: %w", err)
		}
		comp.Units = catalog
	} else {
		comp.Units = units.Default()
	}

	// Open pantry store
	st, err := OpenStore(ctx, cfg.Pantry)
	if err != nil {
		return nil, fmt.Errorf("open pantry: %w", err)
	}
	comp.Store = st

	// Snapshot pantry
	comp.Snapshot, err = store.LoadSnapshot(ctx, st)
	if err != nil {
		st.Close()
		return nil, err
	}
	if comp.Snapshot.Len() == 0 {
		log.Warn("every item will be unmatched", zap.Error(internalerr.ErrSnapshotEmpty))
	}

	comp.Matcher, err = pantry.NewMatcher(comp.Snapshot, pantry.Options{
		Fuzzy:       cfg.Matching.Fuzzy,
		Threshold:   cfg.Matching.FuzzyThreshold,
		Descriptors: cfg.Matching.Descriptors,
		CacheSize:   cfg.Matching.CacheSize,
		Logger:      log,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	comp.Resolver = reference.NewResolver(reference.AnyTrigger(
		reference.MarkerTrigger(cfg.References.Markers...),
		reference.TitleTrigger(cfg.References.Titles...),
		reference.CatalogTrigger(comp.Snapshot),
	), log)

	policy, err := larder.ParsePolicy(cfg.Policies.UnmatchedPantry)
	if err != nil {
		st.Close()
		return nil, err
	}

	comp.Formatter, err = larder.New(larder.Options{
		Units:    comp.Units,
		Matcher:  comp.Matcher,
		Resolver: comp.Resolver,
		Policies: larder.Policies{UnmatchedPantry: policy},
		Workers:  cfg.Batch.Workers,
		FailFast: cfg.Batch.FailFast,
		Logger:   log,

		TrailingUnitIsItem: cfg.Parsing.TrailingUnitIsItem,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	log.Debug("loaded components",
		zap.Int("units", comp.Units.Len()),
		zap.Int("pantry_entries", comp.Snapshot.Len()),
		zap.Bool("fuzzy", cfg.Matching.Fuzzy))
	return comp, nil
}

// OpenStore opens the pantry store selected by cfg.
func OpenStore(ctx context.Context, cfg PantryConfig) (store.Store, error) {
	if cfg.SQLite != "" {
		return sqlite.OpenSQLite(ctx, cfg.SQLite)
	}
	if cfg.Path != "" {
		st, err := yamlstore.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	st, err := memstore.New()
	if err != nil {
		return nil, err
	}
	return st, nil
}
