// Package report summarizes a batch formatting run: what parsed, what was
// skipped, which pantry items went unmatched and which lines failed.
package report

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Status is the outcome of one line.
type Status string

const (
	StatusIngredient Status = "ingredient"
	StatusReference  Status = "reference"
	StatusUnmatched  Status = "unmatched" // kept with an unmatched placeholder
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Outcome describes one formatted line.
type Outcome struct {
	Index  int
	Line   string
	Status Status
	Item   string // pantry item that did not match, if any
	Err    error  // failure or skip reason
}

// Line points back at an input line.
type Line struct {
	Index  int    `json:"index" yaml:"index"`
	Line   string `json:"line" yaml:"line"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Report is the user-visible summary of a batch.
type Report struct {
	ID          string    `json:"id" yaml:"id"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	Lines       int       `json:"lines" yaml:"lines"`
	Ingredients int       `json:"ingredients" yaml:"ingredients"`
	References  int       `json:"references" yaml:"references"`
	Unmatched   int       `json:"unmatched" yaml:"unmatched"`
	Skipped     int       `json:"skipped" yaml:"skipped"`
	Failed      int       `json:"failed" yaml:"failed"`

	// UnmatchedItems lists each unmatched pantry item once, in first-seen order.
	UnmatchedItems []string `json:"unmatched_items,omitempty" yaml:"unmatched_items,omitempty"`
	SkippedLines   []Line   `json:"skipped_lines,omitempty" yaml:"skipped_lines,omitempty"`
	Failures       []Line   `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// OK reports whether no line failed.
func (r Report) OK() bool {
	return r.Failed == 0
}

// String renders a one-line summary.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d lines: %d ingredients, %d references, %d unmatched, %d skipped, %d failed",
		r.Lines, r.Ingredients, r.References, r.Unmatched, r.Skipped, r.Failed)
	if len(r.UnmatchedItems) > 0 {
		fmt.Fprintf(&b, " (unmatched: %s)", strings.Join(r.UnmatchedItems, ", "))
	}
	return b.String()
}

// Builder stamps reports with monotonic ULIDs. It is safe for concurrent use.
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new report builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Build summarizes outcomes. Outcomes are expected in input order.
func (b *Builder) Build(outcomes []Outcome) Report {
	b.mu.Lock()
	now := b.now()
	id := ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	b.mu.Unlock()

	r := Report{ID: id, CreatedAt: now.UTC(), Lines: len(outcomes)}
	seen := make(map[string]struct{})
	addUnmatched := func(item string) {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		r.UnmatchedItems = append(r.UnmatchedItems, item)
	}

	for _, o := range outcomes {
		switch o.Status {
		case StatusIngredient:
			r.Ingredients++
		case StatusReference:
			r.References++
		case StatusUnmatched:
			r.Unmatched++
			addUnmatched(o.Item)
		case StatusSkipped:
			r.Skipped++
			addUnmatched(o.Item)
			r.SkippedLines = append(r.SkippedLines, line(o))
		case StatusFailed:
			r.Failed++
			r.Failures = append(r.Failures, line(o))
		}
	}
	return r
}

func line(o Outcome) Line {
	l := Line{Index: o.Index, Line: o.Line}
	if o.Err != nil {
		l.Reason = o.Err.Error()
	}
	return l
}
