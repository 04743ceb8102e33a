package larder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/larder/pkg/larder/ingest"
	"github.com/cognicore/larder/pkg/larder/metrics"
	"github.com/cognicore/larder/pkg/larder/pantry"
	"github.com/cognicore/larder/pkg/larder/quantity"
	"github.com/cognicore/larder/pkg/larder/reference"
	"github.com/cognicore/larder/pkg/larder/report"
	"github.com/cognicore/larder/pkg/larder/units"
)

// Amount is a quantity in a named unit.
type Amount struct {
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Ingredient is a formatted line ready for grocery aggregation.
// Entry is nil when the item did not match the pantry.
type Ingredient struct {
	Raw      string        `json:"raw" yaml:"raw"`
	Quantity float64       `json:"quantity" yaml:"quantity"`
	Unit     *units.Unit   `json:"unit,omitempty" yaml:"unit,omitempty"`
	Item     string        `json:"item" yaml:"item"`
	Entry    *pantry.Entry `json:"entry,omitempty" yaml:"entry,omitempty"`
	Method   pantry.Method `json:"match,omitempty" yaml:"match,omitempty"`

	// Base is the quantity in the base unit of Unit; nil without a unit.
	Base *Amount `json:"base,omitempty" yaml:"base,omitempty"`
	// Grocery is the amount to buy, in the entry's replace_unit when it has
	// one; nil when no grocery amount can be derived.
	Grocery *Amount `json:"grocery,omitempty" yaml:"grocery,omitempty"`
}

// Matched reports whether the item resolved to a pantry entry.
func (i Ingredient) Matched() bool {
	return i.Entry != nil
}

// Result is the outcome of formatting one line: exactly one of Ingredient
// and Recipe is set, or Skipped is true.
type Result struct {
	Ingredient *Ingredient       `json:"ingredient,omitempty" yaml:"ingredient,omitempty"`
	Recipe     *reference.Recipe `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	Skipped    bool              `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// unmatched holds the pantry error behind a log or skip outcome.
	unmatched *UnmatchedPantryError
}

// Options configures a Formatter.
type Options struct {
	Units    *units.Catalog      // nil means units.Default()
	Matcher  *pantry.Matcher     // nil means an empty pantry
	Resolver *reference.Resolver // nil means no line is a reference
	Policies Policies
	Workers  int  // FormatBatch parallelism; 0 means one per CPU
	FailFast bool // FormatBatch stops at the first failed line
	Logger   *zap.Logger

	// TrailingUnitIsItem reads a measure that ends the line as the item
	// ("1 cup"). By default only countable units do.
	TrailingUnitIsItem bool
}

// Formatter turns raw ingredient lines into Ingredients. It holds only
// read-only state and is safe for concurrent use.
type Formatter struct {
	units    *units.Catalog
	lines    *ingest.Formatter
	matcher  *pantry.Matcher
	resolver *reference.Resolver
	policies Policies
	workers  int
	failFast bool
	reports  *report.Builder
	log      *zap.Logger
}

// New creates a Formatter from opts.
func New(opts Options) (*Formatter, error) {
	if err := opts.Policies.Validate(); err != nil {
		return nil, err
	}
	if opts.Units == nil {
		opts.Units = units.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Matcher == nil {
		snap, err := pantry.NewSnapshot(nil)
		if err != nil {
			return nil, err
		}
		opts.Matcher, err = pantry.NewMatcher(snap, pantry.Options{Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
	}
	if opts.Resolver == nil {
		opts.Resolver = reference.NewResolver(nil, opts.Logger)
	}
	if opts.Workers < 0 {
		return nil, fmt.Errorf("larder: negative worker count %d", opts.Workers)
	}

	return &Formatter{
		units:    opts.Units,
		lines:    ingest.NewFormatter(opts.Units, ingest.WithTrailingUnitAsItem(opts.TrailingUnitIsItem)),
		matcher:  opts.Matcher,
		resolver: opts.Resolver,
		policies: opts.Policies,
		workers:  opts.Workers,
		failFast: opts.FailFast,
		reports:  report.New(),
		log:      opts.Logger,
	}, nil
}

// Format runs one line through the pipeline: split, parse the quantity,
// resolve the unit, try the line as a recipe reference, then match the item
// against the pantry.
//
// Parse and empty-item failures always return a *LineError. An unmatched
// pantry item follows the configured policy: raise returns a *LineError,
// log returns an Ingredient without Entry, skip returns Result{Skipped: true}.
func (f *Formatter) Format(line string) (Result, error) {
	res, err := f.format(line)
	metrics.LinesFormatted.WithLabelValues(outcome(res, err)).Inc()
	return res, err
}

func (f *Formatter) format(line string) (Result, error) {
	// Step 1: split
	split := f.lines.Split(line)

	// Step 2: quantity
	q, err := quantity.Parse(split.Quantity)
	if err != nil {
		return Result{}, &LineError{Line: line, Kind: KindParse, Err: err}
	}

	// Step 3: unit
	parsed := ingest.ParsedLine{
		Raw:         line,
		Quantity:    q,
		HasQuantity: split.HasQuantity,
		UnitToken:   split.Unit,
		Item:        split.Item,
	}
	if split.Unit != "" {
		if u, ok := f.units.Normalize(split.Unit); ok {
			parsed.Unit = &u
		}
	}

	// Step 4: recipe reference
	rec, ok, err := f.resolver.TryResolve(parsed)
	if err != nil {
		return Result{}, &LineError{Line: line, Kind: KindNoTitleReference, Err: err}
	}
	if ok {
		return Result{Recipe: &rec}, nil
	}

	if parsed.Item == "" {
		return Result{}, &LineError{Line: line, Kind: KindNoTitle, Err: &NoTitleError{Line: line}}
	}

	// Step 5: pantry
	ing := &Ingredient{
		Raw:      line,
		Quantity: parsed.Quantity,
		Unit:     parsed.Unit,
		Item:     parsed.Item,
	}
	ing.Base = f.baseAmount(parsed)

	match, ok := f.matcher.Match(parsed.Item)
	if !ok {
		return f.unmatched(ing)
	}
	metrics.PantryMatches.WithLabelValues(string(match.Method)).Inc()

	entry := match.Entry
	ing.Entry = &entry
	ing.Method = match.Method
	ing.Grocery = f.groceryAmount(parsed, entry)
	return Result{Ingredient: ing}, nil
}

func (f *Formatter) unmatched(ing *Ingredient) (Result, error) {
	uerr := &UnmatchedPantryError{Item: ing.Item}
	switch f.policies.For(KindUnmatchedPantry) {
	case PolicySkip:
		return Result{Skipped: true, unmatched: uerr}, nil
	case PolicyLog:
		f.log.Warn("pantry item not found",
			zap.String("line", ing.Raw),
			zap.String("item", ing.Item))
		ing.Grocery = ing.Base
		return Result{Ingredient: ing, unmatched: uerr}, nil
	default:
		return Result{}, &LineError{Line: ing.Raw, Kind: KindUnmatchedPantry, Err: uerr}
	}
}

// baseAmount converts the parsed quantity into its unit's base.
func (f *Formatter) baseAmount(p ingest.ParsedLine) *Amount {
	if p.Unit == nil {
		return nil
	}
	q, base, err := f.units.ToBase(p.Quantity, p.Unit.Symbol)
	if err != nil {
		return nil
	}
	return &Amount{Quantity: q, Unit: base.Symbol}
}

// groceryAmount expresses the line in the entry's replace_unit. A unit that
// converts to replace_unit is converted; otherwise replace_factor scales the
// counted quantity ("2 tomatoes" at 0.15 kg each is 0.3 kg).
func (f *Formatter) groceryAmount(p ingest.ParsedLine, e pantry.Entry) *Amount {
	if e.ReplaceUnit == "" {
		return f.baseAmount(p)
	}
	target, ok := f.units.Normalize(e.ReplaceUnit)
	if !ok {
		f.log.Warn("pantry replace_unit not in unit catalog",
			zap.String("entry", e.TrueIngredient),
			zap.String("replace_unit", e.ReplaceUnit))
		return f.baseAmount(p)
	}

	if p.Unit != nil && p.Unit.Kind != units.Countable {
		if q, err := f.units.Convert(p.Quantity, p.Unit.Symbol, target.Symbol); err == nil {
			return &Amount{Quantity: q, Unit: target.Symbol}
		}
	}
	if e.ReplaceFactor > 0 {
		count := p.Quantity
		if p.Unit != nil && p.Unit.Kind == units.Countable {
			count, _, _ = f.units.ToBase(p.Quantity, p.Unit.Symbol)
		}
		return &Amount{Quantity: count * e.ReplaceFactor, Unit: target.Symbol}
	}
	return f.baseAmount(p)
}

func outcome(res Result, err error) string {
	switch {
	case err != nil:
		return metrics.OutcomeFailed
	case res.Skipped:
		return metrics.OutcomeSkipped
	case res.Recipe != nil:
		return metrics.OutcomeReference
	case res.Ingredient != nil && !res.Ingredient.Matched():
		return metrics.OutcomeUnmatched
	}
	return metrics.OutcomeIngredient
}
