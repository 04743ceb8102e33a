package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cognicore/larder/pkg/larder/internalerr"
	"github.com/cognicore/larder/pkg/larder/pantry"
	"github.com/cognicore/larder/pkg/larder/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite pantry database with WAL mode enabled,
// creating the schema when missing.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS pantry_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name_key TEXT UNIQUE NOT NULL,
	true_ingredient TEXT NOT NULL,
	plural_suffix TEXT NOT NULL DEFAULT '',
	store TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	replace_factor REAL NOT NULL DEFAULT 0,
	replace_unit TEXT NOT NULL DEFAULT '',
	barcode TEXT NOT NULL DEFAULT '',
	recipe_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS pantry_names (
	entry_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY(entry_id, position),
	FOREIGN KEY(entry_id) REFERENCES pantry_entries(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_pantry_entries_barcode ON pantry_entries(barcode);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertEntry inserts or updates an entry, keyed by normalized name
func (s *sqliteStore) UpsertEntry(ctx context.Context, e pantry.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO pantry_entries (name_key, true_ingredient, plural_suffix, store, category,
	replace_factor, replace_unit, barcode, recipe_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name_key) DO UPDATE SET
	true_ingredient=excluded.true_ingredient,
	plural_suffix=excluded.plural_suffix,
	store=excluded.store,
	category=excluded.category,
	replace_factor=excluded.replace_factor,
	replace_unit=excluded.replace_unit,
	barcode=excluded.barcode,
	recipe_id=excluded.recipe_id
RETURNING id;
`

	var entryID int64
	err = tx.QueryRowContext(
		ctx,
		stmt,
		store.Key(e.TrueIngredient),
		e.TrueIngredient,
		e.PluralSuffix,
		e.Store,
		e.Category,
		e.ReplaceFactor,
		e.ReplaceUnit,
		e.Barcode,
		recipeIDString(e.RecipeID),
	).Scan(&entryID)
	if err != nil {
		return err
	}

	if err := replaceNames(ctx, tx, entryID, e.Names); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceNames(ctx context.Context, tx *sql.Tx, entryID int64, names []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM pantry_names WHERE entry_id=?`, entryID); err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO pantry_names (entry_id, position, name) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, name := range names {
		if _, err := stmt.ExecContext(ctx, entryID, i, name); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns all entries in insertion order
func (s *sqliteStore) Entries(ctx context.Context) ([]pantry.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, true_ingredient, plural_suffix, store, category, replace_factor, replace_unit, barcode, recipe_id
FROM pantry_entries
ORDER BY id;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		entries []pantry.Entry
		index   = make(map[int64]int)
	)
	for rows.Next() {
		id, e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		index[id] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	names, err := s.db.QueryContext(ctx, `SELECT entry_id, name FROM pantry_names ORDER BY entry_id, position`)
	if err != nil {
		return nil, err
	}
	defer names.Close()

	for names.Next() {
		var (
			id   int64
			name string
		)
		if err := names.Scan(&id, &name); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			entries[i].Names = append(entries[i].Names, name)
		}
	}
	return entries, names.Err()
}

// GetEntry retrieves an entry by name
func (s *sqliteStore) GetEntry(ctx context.Context, name string) (pantry.Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, true_ingredient, plural_suffix, store, category, replace_factor, replace_unit, barcode, recipe_id
FROM pantry_entries
WHERE name_key = ?;
`, store.Key(name))

	id, e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pantry.Entry{}, false, nil
	}
	if err != nil {
		return pantry.Entry{}, false, err
	}

	e.Names, err = s.loadStringColumn(ctx, `SELECT name FROM pantry_names WHERE entry_id=? ORDER BY position`, id)
	if err != nil {
		return pantry.Entry{}, false, err
	}
	return e, true, nil
}

// DeleteEntry removes an entry and its names
func (s *sqliteStore) DeleteEntry(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM pantry_entries WHERE name_key=?`, store.Key(name)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("pantry entry %q: %w", name, internalerr.ErrNotFound)
	}
	if err != nil {
		return err
	}

	// foreign_keys is per connection, so names are removed explicitly
	if _, err := tx.ExecContext(ctx, `DELETE FROM pantry_names WHERE entry_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pantry_entries WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (int64, pantry.Entry, error) {
	var (
		id       int64
		e        pantry.Entry
		recipeID string
	)
	err := row.Scan(&id, &e.TrueIngredient, &e.PluralSuffix, &e.Store, &e.Category,
		&e.ReplaceFactor, &e.ReplaceUnit, &e.Barcode, &recipeID)
	if err != nil {
		return 0, pantry.Entry{}, err
	}
	if recipeID != "" {
		parsed, perr := uuid.Parse(recipeID)
		if perr != nil {
			return 0, pantry.Entry{}, fmt.Errorf("entry %q: recipe_id: %w", e.TrueIngredient, perr)
		}
		e.RecipeID = parsed
	}
	return id, e, nil
}

func (s *sqliteStore) loadStringColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var val string
		if err := rows.Scan(&val); err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	return result, rows.Err()
}

func recipeIDString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
