package pantry

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/cognicore/larder/pkg/larder/internalerr"
)

// Snapshot is an immutable name index over pantry entries.
type Snapshot struct {
	entries []Entry
	names   map[string]int // normalized name -> entry index
	plurals map[string]int // normalized plural form -> entry index
	keys    []string       // sorted union of names and plurals
}

// NewSnapshot validates and indexes entries. Entries are copied, so later
// changes to the slice do not leak into the snapshot.
//
// Two entries may not share a normalized name. Plural forms that collide
// with a name, or with an earlier plural, are dropped.
func NewSnapshot(entries []Entry) (*Snapshot, error) {
	s := &Snapshot{
		entries: make([]Entry, 0, len(entries)),
		names:   make(map[string]int),
		plurals: make(map[string]int),
	}

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		e.Names = append([]string(nil), e.Names...)
		idx := len(s.entries)
		s.entries = append(s.entries, e)

		for _, name := range e.AllNames() {
			key := Normalize(name)
			if key == "" {
				continue
			}
			if prev, ok := s.names[key]; ok && prev != idx {
				return nil, fmt.Errorf("%w: pantry name %q used by %q and %q",
					internalerr.ErrDuplicate, key, s.entries[prev].TrueIngredient, e.TrueIngredient)
			}
			s.names[key] = idx
		}
	}

	for idx, e := range s.entries {
		for _, name := range e.AllNames() {
			plural := Normalize(Pluralize(Normalize(name), e.PluralSuffix))
			if plural == "" {
				continue
			}
			if _, taken := s.names[plural]; taken {
				continue
			}
			if _, taken := s.plurals[plural]; taken {
				continue
			}
			s.plurals[plural] = idx
		}
	}

	s.keys = make([]string, 0, len(s.names)+len(s.plurals))
	for k := range s.names {
		s.keys = append(s.keys, k)
	}
	for k := range s.plurals {
		s.keys = append(s.keys, k)
	}
	sort.Strings(s.keys)

	return s, nil
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Entries returns a copy of all entries in load order.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		e.Names = append([]string(nil), e.Names...)
		out[i] = e
	}
	return out
}

// Lookup finds an entry by exact normalized name.
func (s *Snapshot) Lookup(name string) (Entry, bool) {
	idx, ok := s.names[Normalize(name)]
	if !ok {
		return Entry{}, false
	}
	return s.entry(idx), true
}

// LookupPlural finds an entry whose plural form is name.
func (s *Snapshot) LookupPlural(name string) (Entry, bool) {
	idx, ok := s.plurals[Normalize(name)]
	if !ok {
		return Entry{}, false
	}
	return s.entry(idx), true
}

// LookupRecipe finds an entry that is itself a recipe, by name or plural.
func (s *Snapshot) LookupRecipe(name string) (string, uuid.UUID, bool) {
	e, ok := s.Lookup(name)
	if !ok {
		e, ok = s.LookupPlural(name)
	}
	if !ok || !e.IsRecipe() {
		return "", uuid.Nil, false
	}
	return e.TrueIngredient, e.RecipeID, true
}

// key resolves an index key from either map.
func (s *Snapshot) key(k string) (int, bool) {
	if idx, ok := s.names[k]; ok {
		return idx, true
	}
	idx, ok := s.plurals[k]
	return idx, ok
}

func (s *Snapshot) entry(idx int) Entry {
	e := s.entries[idx]
	e.Names = append([]string(nil), e.Names...)
	return e
}
