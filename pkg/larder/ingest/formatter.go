// Package ingest splits free-text ingredient lines into quantity, unit and
// item tokens.
package ingest

import (
	"regexp"
	"strings"

	"github.com/cognicore/larder/pkg/larder/quantity"
	"github.com/cognicore/larder/pkg/larder/units"
)

// Split is the result of splitting one line.
type Split struct {
	Quantity    string // quantity token; "1" when the line has none
	HasQuantity bool   // false when Quantity was defaulted
	Unit        string // unit token(s) as written; empty when absent
	Item        string // residual text, parenthetical notes preserved
}

// attachedUnit matches a number glued to a unit word: "200g", "2tbsp",
// "1,000g", "1/2cup".
var attachedUnit = regexp.MustCompile(`^([1-9]\d{0,2}(?:,\d{3})+(?:\.\d+)?|\d+(?:[.,]\d+)?|\d+/\d+)([^\d/.,].*)$`)

// Formatter splits lines using a unit catalog.
type Formatter struct {
	units              *units.Catalog
	trailingUnitIsItem bool
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithTrailingUnitAsItem makes any unit word that ends the line the item,
// measures included ("1 cup" gives item "cup").
func WithTrailingUnitAsItem(on bool) Option {
	return func(f *Formatter) {
		f.trailingUnitIsItem = on
	}
}

// NewFormatter creates a line formatter backed by the given catalog.
func NewFormatter(catalog *units.Catalog, opts ...Option) *Formatter {
	f := &Formatter{units: catalog}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Split breaks a line into its parts with a greedy, order-sensitive scan:
// a leading quantity, then a unit if one is recognized, then the remaining
// text as the item. There is no backtracking.
//
// A countable unit word that ends the line is the item itself ("1 can"),
// while a measure that ends the line stays a unit and leaves the item empty
// ("1/2 tsp"); callers reject empty items. WithTrailingUnitAsItem turns
// trailing measures into items too.
//
// Examples:
//   - "2 cans diced tomatoes" -> {"2", "cans", "diced tomatoes"}
//   - "2 eggs"                -> {"2", "", "eggs"}
//   - "salt"                  -> {"1", "", "salt"}
func (f *Formatter) Split(line string) Split {
	tokens := strings.Fields(Clean(line))
	out := Split{Quantity: "1"}
	i := 0

	// Step 1: quantity, possibly a mixed number or glued to its unit
	var glued string
	if i < len(tokens) {
		switch {
		case quantity.IsNumber(tokens[i]):
			out.Quantity = tokens[i]
			out.HasQuantity = true
			i++
			if !quantity.IsInteger(out.Quantity) || i == len(tokens) {
				break
			}
			if quantity.IsFraction(tokens[i]) {
				out.Quantity += " " + tokens[i]
				i++
			} else if num, unit, ok := f.attached(tokens[i]); ok && quantity.IsFraction(num) {
				// "1 1/2cups"
				out.Quantity += " " + num
				glued = unit
				i++
			}
		default:
			if num, unit, ok := f.attached(tokens[i]); ok {
				out.Quantity = num
				out.HasQuantity = true
				glued = unit
				i++
			}
		}
	}

	// Step 2: unit
	if glued != "" {
		if f.plausible(glued, i == len(tokens)) {
			out.Unit = glued
		} else {
			tokens = append(tokens, glued)
		}
	} else if n, unit := f.matchUnit(tokens[i:]); n > 0 {
		out.Unit = unit
		i += n
	}

	// Step 3: drop the "of" in "2 cups of flour"
	if out.Unit != "" && i+1 < len(tokens) && strings.EqualFold(tokens[i], "of") {
		i++
	}

	out.Item = strings.TrimSpace(strings.Join(tokens[i:], " "))
	return out
}

// attached splits a number glued to a known unit.
func (f *Formatter) attached(token string) (num, unit string, ok bool) {
	m := attachedUnit.FindStringSubmatch(token)
	if m == nil {
		return "", "", false
	}
	if _, ok := f.units.Normalize(m[2]); !ok {
		return "", "", false
	}
	return m[1], m[2], true
}

// matchUnit applies greedy longest-match over the catalog's multi-word units.
func (f *Formatter) matchUnit(tokens []string) (int, string) {
	maxPhrase := f.units.MaxWords()
	if maxPhrase > len(tokens) {
		maxPhrase = len(tokens)
	}
	for n := maxPhrase; n >= 1; n-- {
		phrase := strings.TrimRight(strings.Join(tokens[:n], " "), ",")
		if f.plausible(phrase, n == len(tokens)) {
			return n, phrase
		}
	}
	return 0, ""
}

// plausible reports whether token reads as a unit. At the end of the line only
// measures qualify, and none do with trailingUnitIsItem.
func (f *Formatter) plausible(token string, endOfLine bool) bool {
	u, ok := f.units.Normalize(token)
	if !ok {
		return false
	}
	if !endOfLine {
		return true
	}
	return !f.trailingUnitIsItem && u.Kind != units.Countable
}
