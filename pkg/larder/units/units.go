package units

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/larder/pkg/larder/internalerr"
)

// Kind classifies a unit. Every unit belongs to exactly one kind.
type Kind string

const (
	// Countable units describe a discrete container or shape (can, bunch, slice).
	Countable Kind = "countable"
	// Metric units are SI measures (g, ml).
	Metric Kind = "metric"
	// Empirical units are imperial/US customary measures (cup, oz).
	Empirical Kind = "empirical"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case Countable, Metric, Empirical:
		return true
	}
	return false
}

// Dimension is the physical quantity a unit measures.
type Dimension string

const (
	Mass   Dimension = "mass"
	Volume Dimension = "volume"
	Count  Dimension = "count"
)

// Valid reports whether d is one of the known dimensions.
func (d Dimension) Valid() bool {
	switch d {
	case Mass, Volume, Count:
		return true
	}
	return false
}

const defaultPluralSuffix = "s"

// Unit describes one entry of the catalog.
//
// Ratio expresses one Symbol in terms of Base: 1 kg = 1000 g gives
// Symbol "kg", Base "g", Ratio 1000. A unit with an empty Base is its own base.
type Unit struct {
	Symbol        string    `yaml:"symbol" json:"symbol"`
	Kind          Kind      `yaml:"kind" json:"kind"`
	Dimension     Dimension `yaml:"dimension" json:"dimension"`
	Base          string    `yaml:"base,omitempty" json:"base,omitempty"`
	Ratio         float64   `yaml:"ratio,omitempty" json:"ratio,omitempty"`
	Aliases       []string  `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Abbreviations []string  `yaml:"abbreviations,omitempty" json:"abbreviations,omitempty"`
	Abbreviation  bool      `yaml:"abbreviation,omitempty" json:"abbreviation,omitempty"`
	PluralSuffix  string    `yaml:"plural,omitempty" json:"plural,omitempty"`
}

// IsBase reports whether u is the base unit of its family.
func (u Unit) IsBase() bool {
	return u.Base == u.Symbol
}

func (u Unit) pluralSuffix() string {
	if u.PluralSuffix == "" {
		return defaultPluralSuffix
	}
	return u.PluralSuffix
}

func (u Unit) clone() Unit {
	u.Aliases = append([]string(nil), u.Aliases...)
	u.Abbreviations = append([]string(nil), u.Abbreviations...)
	return u
}

// Catalog is an immutable registry of units. It is safe for concurrent use
// because nothing mutates it after Build.
type Catalog struct {
	// symbol -> unit
	units map[string]Unit

	// lowercased alias, symbol and plural -> symbol
	aliases map[string]string

	// exact-case abbreviation (periods removed) -> symbol; eligible units only
	abbrevs map[string]string

	// plural suffixes configured on countable units, longest first
	suffixes []string

	maxWords int
}

// Normalize resolves a token to a unit.
//
// Matching order:
//  1. exact canonical symbol
//  2. case-insensitive alias match, then countable plural stripping
//  3. abbreviation match (periods removed) for abbreviation-eligible units
//
// Unknown tokens return ok=false; they are never an error.
func (c *Catalog) Normalize(token string) (Unit, bool) {
	token = strings.Join(strings.Fields(token), " ")
	if token == "" {
		return Unit{}, false
	}

	// Step 1: exact symbol
	if u, ok := c.units[token]; ok {
		return u, true
	}

	// Step 2: aliases, then plural forms of countable units
	lower := strings.ToLower(token)
	if u, ok := c.lookupAlias(lower); ok {
		return u, true
	}
	if u, ok := c.lookupCountablePlural(lower); ok {
		return u, true
	}

	// Step 3: abbreviations
	bare := strings.Join(strings.Fields(strings.ReplaceAll(token, ".", " ")), " ")
	if bare == "" {
		return Unit{}, false
	}
	if sym, ok := c.abbrevs[bare]; ok {
		return c.units[sym], true
	}
	if u, ok := c.lookupAlias(strings.ToLower(bare)); ok && u.Abbreviation {
		return u, true
	}
	return Unit{}, false
}

func (c *Catalog) lookupAlias(lower string) (Unit, bool) {
	if sym, ok := c.aliases[lower]; ok {
		return c.units[sym], true
	}
	return Unit{}, false
}

func (c *Catalog) lookupCountablePlural(lower string) (Unit, bool) {
	for _, suffix := range c.suffixes {
		if !strings.HasSuffix(lower, suffix) || len(lower) <= len(suffix) {
			continue
		}
		u, ok := c.lookupAlias(strings.TrimSuffix(lower, suffix))
		if ok && u.Kind == Countable && u.pluralSuffix() == suffix {
			return u, true
		}
	}
	return Unit{}, false
}

// Lookup returns the unit with the given canonical symbol.
func (c *Catalog) Lookup(symbol string) (Unit, bool) {
	u, ok := c.units[symbol]
	return u, ok
}

// MaxWords is the longest alias in words, used for greedy multi-word matching.
func (c *Catalog) MaxWords() int {
	return c.maxWords
}

// Len returns the number of units.
func (c *Catalog) Len() int {
	return len(c.units)
}

// Units returns all units sorted by kind, then symbol.
func (c *Catalog) Units() []Unit {
	out := make([]Unit, 0, len(c.units))
	for _, u := range c.units {
		out = append(out, u.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// Convert expresses q of unit from in unit to. Both units must share a base.
func (c *Catalog) Convert(q float64, from, to string) (float64, error) {
	f, ok := c.units[from]
	if !ok {
		return 0, fmt.Errorf("unit %q: %w", from, internalerr.ErrNotFound)
	}
	t, ok := c.units[to]
	if !ok {
		return 0, fmt.Errorf("unit %q: %w", to, internalerr.ErrNotFound)
	}
	if f.Base != t.Base {
		return 0, fmt.Errorf("convert %s to %s: incompatible bases %s and %s: %w",
			from, to, f.Base, t.Base, internalerr.ErrInvalidInput)
	}
	return q * f.Ratio / t.Ratio, nil
}

// ToBase expresses q of unit symbol in that unit's base.
func (c *Catalog) ToBase(q float64, symbol string) (float64, Unit, error) {
	u, ok := c.units[symbol]
	if !ok {
		return 0, Unit{}, fmt.Errorf("unit %q: %w", symbol, internalerr.ErrNotFound)
	}
	return q * u.Ratio, c.units[u.Base], nil
}

// Builder collects unit definitions and produces an immutable Catalog.
type Builder struct {
	units map[string]Unit
	order []string
}

// NewBuilder creates a builder, optionally seeded with the units of an
// existing catalog so definitions can extend or override it.
func NewBuilder(seed *Catalog) *Builder {
	b := &Builder{units: make(map[string]Unit)}
	if seed != nil {
		for _, u := range seed.Units() {
			b.units[u.Symbol] = u
			b.order = append(b.order, u.Symbol)
		}
	}
	return b
}

// Add registers a unit. A unit with an existing symbol replaces the old one.
func (b *Builder) Add(u Unit) error {
	u = u.clone()
	u.Symbol = strings.TrimSpace(u.Symbol)
	if u.Symbol == "" {
		return fmt.Errorf("unit symbol is empty: %w", internalerr.ErrInvalidConfig)
	}
	if !u.Kind.Valid() {
		return fmt.Errorf("unit %q: kind %q: %w", u.Symbol, u.Kind, internalerr.ErrInvalidConfig)
	}
	if !u.Dimension.Valid() {
		return fmt.Errorf("unit %q: dimension %q: %w", u.Symbol, u.Dimension, internalerr.ErrInvalidConfig)
	}
	if u.Base == "" {
		u.Base = u.Symbol
	}
	if u.Ratio == 0 {
		u.Ratio = 1
	}
	if u.Ratio < 0 {
		return fmt.Errorf("unit %q: negative ratio: %w", u.Symbol, internalerr.ErrInvalidConfig)
	}
	if u.Kind == Countable && u.Dimension != Count {
		return fmt.Errorf("unit %q: countable units measure count: %w", u.Symbol, internalerr.ErrInvalidConfig)
	}

	if _, exists := b.units[u.Symbol]; !exists {
		b.order = append(b.order, u.Symbol)
	}
	b.units[u.Symbol] = u
	return nil
}

// Build validates cross-unit references and returns the catalog.
func (b *Builder) Build() (*Catalog, error) {
	c := &Catalog{
		units:    make(map[string]Unit, len(b.units)),
		aliases:  make(map[string]string),
		abbrevs:  make(map[string]string),
		maxWords: 1,
	}

	suffixes := make(map[string]struct{})
	for _, sym := range b.order {
		u := b.units[sym]

		base, ok := b.units[u.Base]
		if !ok {
			return nil, fmt.Errorf("unit %q: base %q is not defined: %w", u.Symbol, u.Base, internalerr.ErrInvalidConfig)
		}
		if !base.IsBase() || base.Ratio != 1 {
			return nil, fmt.Errorf("unit %q: base %q must be its own base with ratio 1: %w", u.Symbol, u.Base, internalerr.ErrInvalidConfig)
		}
		if base.Dimension != u.Dimension {
			return nil, fmt.Errorf("unit %q: base %q measures %s: %w", u.Symbol, u.Base, base.Dimension, internalerr.ErrInvalidConfig)
		}
		c.units[sym] = u

		names := append([]string{u.Symbol}, u.Aliases...)
		for _, name := range names {
			key := strings.ToLower(strings.Join(strings.Fields(name), " "))
			if key == "" {
				continue
			}
			if owner, taken := c.aliases[key]; taken && owner != sym {
				return nil, fmt.Errorf("alias %q claimed by %q and %q: %w", key, owner, sym, internalerr.ErrDuplicate)
			}
			c.aliases[key] = sym
			if n := len(strings.Fields(key)); n > c.maxWords {
				c.maxWords = n
			}
		}

		if u.Abbreviation {
			for _, abbr := range append([]string{u.Symbol}, u.Abbreviations...) {
				key := strings.Join(strings.Fields(strings.ReplaceAll(abbr, ".", " ")), " ")
				if key == "" {
					continue
				}
				if owner, taken := c.abbrevs[key]; taken && owner != sym {
					return nil, fmt.Errorf("abbreviation %q claimed by %q and %q: %w", key, owner, sym, internalerr.ErrDuplicate)
				}
				c.abbrevs[key] = sym
			}
		}

		if u.Kind == Countable {
			suffixes[u.pluralSuffix()] = struct{}{}
		}
	}

	for s := range suffixes {
		c.suffixes = append(c.suffixes, s)
	}
	sort.Slice(c.suffixes, func(i, j int) bool {
		if len(c.suffixes[i]) != len(c.suffixes[j]) {
			return len(c.suffixes[i]) > len(c.suffixes[j])
		}
		return c.suffixes[i] < c.suffixes[j]
	})

	return c, nil
}
