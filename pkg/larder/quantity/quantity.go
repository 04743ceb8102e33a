// Package quantity converts numeric ingredient tokens into decimal quantities.
//
// Recognized forms, tried in order:
//   - empty or whitespace: 1 (an unspecified quantity means "one")
//   - Unicode vulgar fractions, rewritten to "n/d" first ("1½" -> "1 1/2")
//   - mixed numbers "w n/d"
//   - fractions "n/d"
//   - integers and decimals ("2", "0.5", ".5", "1,5")
//   - comma-grouped thousands ("1,000", "12,500.5")
//
// Fractions that do not terminate in base 10 are rounded to two decimal places
// (2/3 -> 0.67); terminating ones keep their exact value (1/8 -> 0.125).
package quantity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultQuantity is used when a line carries no quantity.
const DefaultQuantity = 1.0

// ErrDivisionByZero marks a fraction with a zero denominator.
var ErrDivisionByZero = errors.New("division by zero")

// ErrNotNumeric marks a token that matches no numeric rule.
var ErrNotNumeric = errors.New("not a numeric quantity")

// ParseError reports a token no numeric rule could handle.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse quantity %q: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	mixedPattern    = regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)$`)
	fractionPattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
	decimalPattern  = regexp.MustCompile(`^(\d+(?:[.,]\d+)?|[.,]\d+)$`)

	// a comma followed by exactly three digits groups thousands, never a decimal
	groupedPattern = regexp.MustCompile(`^[1-9]\d{0,2}(?:,\d{3})+(?:\.\d+)?$`)

	// numberToken matches a single token that can open a quantity
	numberToken = regexp.MustCompile(`^([1-9]\d{0,2}(?:,\d{3})+(?:\.\d+)?|\d+(?:[.,]\d+)?|[.,]\d+|\d+/\d+)$`)
	fracToken   = regexp.MustCompile(`^\d+/\d+$`)
	intToken    = regexp.MustCompile(`^\d+$`)
)

// Parse converts a quantity token into a non-negative decimal.
func Parse(token string) (float64, error) {
	s := strings.Join(strings.Fields(ReplaceGlyphs(token)), " ")
	if s == "" {
		return DefaultQuantity, nil
	}

	if m := mixedPattern.FindStringSubmatch(s); m != nil {
		whole, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, &ParseError{Token: token, Err: err}
		}
		frac, err := fraction(m[2], m[3])
		if err != nil {
			return 0, &ParseError{Token: token, Err: err}
		}
		return roundRepeating(float64(whole)+frac.value, frac.repeating), nil
	}

	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		frac, err := fraction(m[1], m[2])
		if err != nil {
			return 0, &ParseError{Token: token, Err: err}
		}
		return roundRepeating(frac.value, frac.repeating), nil
	}

	if groupedPattern.MatchString(s) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil || math.IsInf(v, 0) {
			return 0, &ParseError{Token: token, Err: ErrNotNumeric}
		}
		return v, nil
	}

	if decimalPattern.MatchString(s) {
		v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &ParseError{Token: token, Err: ErrNotNumeric}
		}
		return v, nil
	}

	return 0, &ParseError{Token: token, Err: ErrNotNumeric}
}

type fractionValue struct {
	value     float64
	repeating bool
}

func fraction(num, den string) (fractionValue, error) {
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return fractionValue{}, err
	}
	d, err := strconv.ParseInt(den, 10, 64)
	if err != nil {
		return fractionValue{}, err
	}
	if d == 0 {
		return fractionValue{}, ErrDivisionByZero
	}
	return fractionValue{
		value:     float64(n) / float64(d),
		repeating: !terminates(n, d),
	}, nil
}

// terminates reports whether n/d has a finite decimal expansion, which holds
// when the reduced denominator has no prime factors other than 2 and 5.
func terminates(n, d int64) bool {
	d /= gcd(n, d)
	for d%2 == 0 {
		d /= 2
	}
	for d%5 == 0 {
		d /= 5
	}
	return d == 1
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func roundRepeating(v float64, repeating bool) float64 {
	if !repeating {
		return v
	}
	return math.Round(v*100) / 100
}

// IsNumber reports whether a single whitespace-free token can open a quantity.
func IsNumber(token string) bool {
	return numberToken.MatchString(token)
}

// IsFraction reports whether token is a bare "n/d" fraction.
func IsFraction(token string) bool {
	return fracToken.MatchString(token)
}

// IsInteger reports whether token is a bare integer.
func IsInteger(token string) bool {
	return intToken.MatchString(token)
}

var glyphs = map[rune]string{
	'½': "1/2",
	'⅓': "1/3",
	'⅔': "2/3",
	'¼': "1/4",
	'¾': "3/4",
	'⅕': "1/5",
	'⅖': "2/5",
	'⅗': "3/5",
	'⅘': "4/5",
	'⅙': "1/6",
	'⅚': "5/6",
	'⅐': "1/7",
	'⅛': "1/8",
	'⅜': "3/8",
	'⅝': "5/8",
	'⅞': "7/8",
	'⅑': "1/9",
	'⅒': "1/10",
}

const fractionSlash = '⁄'

// ReplaceGlyphs rewrites vulgar fraction characters as "n/d" and the
// fraction slash as "/". A glyph glued to a preceding digit becomes a mixed
// number ("1½" -> "1 1/2"); one glued to a following letter is split off
// ("½cup" -> "1/2 cup"). The result contains no glyphs, so applying it twice
// is the same as applying it once.
func ReplaceGlyphs(s string) string {
	if !strings.ContainsFunc(s, isGlyph) {
		return s
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i, r := range runes {
		if r == fractionSlash {
			b.WriteByte('/')
			continue
		}
		frac, ok := glyphs[r]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if i > 0 && unicode.IsDigit(runes[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteString(frac)
		if i+1 < len(runes) && unicode.IsLetter(runes[i+1]) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isGlyph(r rune) bool {
	if r == fractionSlash {
		return true
	}
	_, ok := glyphs[r]
	return ok
}
