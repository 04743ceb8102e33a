package pantry

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Method tells how an item was matched.
type Method string

const (
	MethodExact      Method = "exact"
	MethodPlural     Method = "plural"
	MethodDescriptor Method = "descriptor"
	MethodSubstring  Method = "substring"
	MethodFuzzy      Method = "fuzzy"
)

// Match is a resolved pantry entry.
type Match struct {
	Entry  Entry
	Method Method
	Key    string  // normalized catalog name or plural form that matched
	Score  float64 // similarity for MethodFuzzy, 1 otherwise
}

// DefaultFuzzyThreshold is the minimum similarity accepted by fuzzy matching.
const DefaultFuzzyThreshold = 0.85

const defaultCacheSize = 1024

// minContainedLen keeps short names like "oil" from matching inside
// unrelated words once whole-word containment is tried.
const minContainedLen = 3

// DefaultDescriptors are preparation words ignored by fuzzy matching.
var DefaultDescriptors = []string{
	"boneless", "canned", "chopped", "cooked", "crushed", "cubed", "diced",
	"dried", "finely", "fresh", "freshly", "frozen", "grated", "large",
	"medium", "melted", "minced", "optional", "peeled", "ripe", "roughly",
	"shredded", "skinless", "sliced", "small", "softened", "taste", "to",
	"whole",
}

// Options configures a Matcher.
type Options struct {
	Fuzzy       bool
	Threshold   float64  // 0 means DefaultFuzzyThreshold
	Descriptors []string // nil means DefaultDescriptors
	CacheSize   int      // fuzzy memo size; 0 means 1024
	Logger      *zap.Logger
}

// Matcher resolves item names against a snapshot. It is safe for concurrent use.
type Matcher struct {
	snap        *Snapshot
	fuzzy       bool
	threshold   float64
	descriptors map[string]bool
	memo        *lru.Cache[string, fuzzyResult]
	log         *zap.Logger
}

type fuzzyResult struct {
	match Match
	ok    bool
}

// NewMatcher creates a matcher over snap.
func NewMatcher(snap *Snapshot, opts Options) (*Matcher, error) {
	if snap == nil {
		return nil, fmt.Errorf("pantry: nil snapshot")
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultFuzzyThreshold
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("pantry: fuzzy threshold %v out of range [0,1]", opts.Threshold)
	}
	if opts.Descriptors == nil {
		opts.Descriptors = DefaultDescriptors
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	memo, err := lru.New[string, fuzzyResult](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("pantry: create memo: %w", err)
	}

	descriptors := make(map[string]bool, len(opts.Descriptors))
	for _, d := range opts.Descriptors {
		if d = Normalize(d); d != "" {
			descriptors[d] = true
		}
	}

	return &Matcher{
		snap:        snap,
		fuzzy:       opts.Fuzzy,
		threshold:   opts.Threshold,
		descriptors: descriptors,
		memo:        memo,
		log:         opts.Logger,
	}, nil
}

// Snapshot returns the snapshot the matcher reads.
func (m *Matcher) Snapshot() *Snapshot {
	return m.snap
}

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// ItemKey reduces free item text to its lookup key: parenthetical notes and
// anything after the first comma are dropped, then the rest is normalized.
// "Onions (about 2), finely diced" becomes "onions".
func ItemKey(item string) string {
	item = parenthetical.ReplaceAllString(item, " ")
	if i := strings.IndexByte(item, ','); i >= 0 {
		item = item[:i]
	}
	return Normalize(item)
}

// Match resolves item. Matching order:
//  1. exact normalized name
//  2. plural forms under each entry's plural rule, in both directions
//  3. when fuzzy matching is enabled: descriptor words stripped, whole-word
//     containment of a catalog name, then edit-distance similarity
//
// It returns false when nothing matches; the caller applies its policy.
func (m *Matcher) Match(item string) (Match, bool) {
	key := ItemKey(item)
	if key == "" {
		return Match{}, false
	}
	if match, ok := m.direct(key); ok {
		return match, true
	}
	if !m.fuzzy {
		return Match{}, false
	}

	if r, ok := m.memo.Get(key); ok {
		return r.match, r.ok
	}
	match, ok := m.approximate(key)
	m.memo.Add(key, fuzzyResult{match: match, ok: ok})
	if ok {
		m.log.Debug("fuzzy pantry match",
			zap.String("item", item),
			zap.String("entry", match.Entry.TrueIngredient),
			zap.String("method", string(match.Method)),
			zap.Float64("score", match.Score))
	}
	return match, ok
}

// direct runs the exact and plural steps.
func (m *Matcher) direct(key string) (Match, bool) {
	s := m.snap
	if idx, ok := s.names[key]; ok {
		return Match{Entry: s.entry(idx), Method: MethodExact, Key: key, Score: 1}, true
	}
	if idx, ok := s.plurals[key]; ok {
		return Match{Entry: s.entry(idx), Method: MethodPlural, Key: key, Score: 1}, true
	}
	// A singular candidate counts only if the entry's own plural rule turns
	// it back into key.
	for _, cand := range Singulars(key) {
		idx, ok := s.names[cand]
		if !ok {
			continue
		}
		if Normalize(Pluralize(cand, s.entries[idx].PluralSuffix)) == key {
			return Match{Entry: s.entry(idx), Method: MethodPlural, Key: cand, Score: 1}, true
		}
	}
	// Names already in plural form ("chives") are declared with plural: none.
	if plural := autoPlural(key); plural != key {
		if idx, ok := s.names[plural]; ok && s.entries[idx].PluralSuffix == SuffixNone {
			return Match{Entry: s.entry(idx), Method: MethodPlural, Key: plural, Score: 1}, true
		}
	}
	return Match{}, false
}

func (m *Matcher) approximate(key string) (Match, bool) {
	stripped := m.stripDescriptors(key)
	if stripped != "" && stripped != key {
		if match, ok := m.direct(stripped); ok {
			match.Method = MethodDescriptor
			return match, true
		}
	}
	if stripped == "" {
		stripped = key
	}

	if match, ok := m.contained(stripped); ok {
		return match, true
	}
	return m.similar(stripped)
}

func (m *Matcher) stripDescriptors(key string) string {
	words := strings.Fields(key)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,;:!-")
		if w == "" || m.descriptors[w] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// contained finds the longest catalog key appearing as whole words in key.
func (m *Matcher) contained(key string) (Match, bool) {
	padded := " " + key + " "
	best := ""
	for _, k := range m.snap.keys {
		if len(k) < minContainedLen || len(k) <= len(best) {
			continue
		}
		if strings.Contains(padded, " "+k+" ") {
			best = k
		}
	}
	if best == "" {
		return Match{}, false
	}
	idx, _ := m.snap.key(best)
	return Match{Entry: m.snap.entry(idx), Method: MethodSubstring, Key: best, Score: 1}, true
}

// similar picks the catalog key with the highest edit-distance similarity.
// Keys are scanned in sorted order, so ties resolve deterministically.
func (m *Matcher) similar(key string) (Match, bool) {
	best, bestScore := "", 0.0
	for _, k := range m.snap.keys {
		if score := similarity(key, k); score > bestScore {
			best, bestScore = k, score
		}
	}
	if best == "" || bestScore < m.threshold {
		return Match{}, false
	}
	idx, _ := m.snap.key(best)
	return Match{Entry: m.snap.entry(idx), Method: MethodFuzzy, Key: best, Score: bestScore}, true
}

// similarity is 1 - distance/longest, in runes.
func similarity(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
