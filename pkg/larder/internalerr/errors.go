// Package internalerr holds sentinel errors shared by the larder packages.
// Callers wrap them with context and match with errors.Is.
package internalerr

import "errors"

var (
	// ErrNotFound: unknown unit symbol or pantry entry.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput: a unit or pantry entry definition that cannot be indexed.
	ErrInvalidInput = errors.New("invalid definition")
	// ErrDuplicate: two units or pantry entries claim the same name.
	ErrDuplicate = errors.New("name claimed twice")
	// ErrStoreUnavailable: the pantry store could not be opened.
	ErrStoreUnavailable = errors.New("pantry store unavailable")
	// ErrInvalidConfig: a configuration file or policy value is rejected.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrSnapshotEmpty: the pantry has no entries, so nothing can match.
	ErrSnapshotEmpty = errors.New("pantry snapshot is empty")
)
