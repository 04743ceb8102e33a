package pantry

import "strings"

// Plural rules accepted in Entry.PluralSuffix.
const (
	SuffixAuto = ""     // guess from the word ending
	SuffixS    = "s"    // egg -> eggs
	SuffixES   = "es"   // squash -> squashes
	SuffixIES  = "ies"  // berry -> berries
	SuffixVES  = "ves"  // leaf -> leaves, knife -> knives
	SuffixN    = "n"    // loanwords: brezel -> brezeln
	SuffixNone = "none" // rice, flour
)

func validSuffix(s string) bool {
	switch s {
	case SuffixAuto, SuffixS, SuffixES, SuffixIES, SuffixVES, SuffixN, SuffixNone:
		return true
	}
	return false
}

// Pluralize applies a plural rule to the last word of name.
//
// Examples:
//   - Pluralize("leaf", "ves")     -> "leaves"
//   - Pluralize("berry", "ies")    -> "berries"
//   - Pluralize("bay leaf", "ves") -> "bay leaves"
//   - Pluralize("tomato", "")      -> "tomatoes"
func Pluralize(name, suffix string) string {
	if name == "" {
		return ""
	}
	switch suffix {
	case SuffixNone:
		return name
	case SuffixS, SuffixES, SuffixN:
		return name + suffix
	case SuffixIES:
		return strings.TrimSuffix(name, "y") + "ies"
	case SuffixVES:
		if strings.HasSuffix(name, "fe") {
			return strings.TrimSuffix(name, "fe") + "ves"
		}
		return strings.TrimSuffix(name, "f") + "ves"
	}
	return autoPlural(name)
}

func autoPlural(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return name[:len(name)-1] + "ies"
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return name + "es"
	case strings.HasSuffix(lower, "o") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return name + "es"
	}
	return name + "s"
}

// Singulars lists candidate singular forms of word, most specific first.
// The word itself is not included. Callers check candidates against the
// catalog; most of them are not real words.
func Singulars(word string) []string {
	var out []string
	seen := map[string]bool{word: true}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	lower := strings.ToLower(word)
	if strings.HasSuffix(lower, "ies") {
		add(word[:len(word)-3] + "y")
	}
	if strings.HasSuffix(lower, "ves") {
		add(word[:len(word)-3] + "f")
		add(word[:len(word)-3] + "fe")
	}
	if strings.HasSuffix(lower, "es") {
		add(word[:len(word)-2])
	}
	if strings.HasSuffix(lower, "s") {
		add(word[:len(word)-1])
	}
	if strings.HasSuffix(lower, "n") {
		add(word[:len(word)-1])
	}
	return out
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
