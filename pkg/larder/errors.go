package larder

import (
	"errors"
	"fmt"

	"github.com/cognicore/larder/pkg/larder/quantity"
	"github.com/cognicore/larder/pkg/larder/reference"
)

// Kind is the closed set of per-line error categories.
type Kind int

const (
	// KindParse: the quantity token matched no numeric rule. Fatal.
	KindParse Kind = iota + 1
	// KindNoTitle: the item text is empty on a non-reference line. Fatal.
	KindNoTitle
	// KindNoTitleReference: a recipe reference has an empty title. Fatal.
	KindNoTitleReference
	// KindUnmatchedPantry: the item is not in the pantry. Recoverable.
	KindUnmatchedPantry
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindNoTitle:
		return "no_title"
	case KindNoTitleReference:
		return "no_title_reference"
	case KindUnmatchedPantry:
		return "unmatched_pantry"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Fatal reports whether lines of this kind always fail.
func (k Kind) Fatal() bool {
	return k != KindUnmatchedPantry
}

// NoTitleError reports a line whose item text is empty.
type NoTitleError struct {
	Line string
}

func (e *NoTitleError) Error() string {
	return fmt.Sprintf("no item on line %q", e.Line)
}

// UnmatchedPantryError reports an item with no pantry entry.
type UnmatchedPantryError struct {
	Item string
}

func (e *UnmatchedPantryError) Error() string {
	return fmt.Sprintf("item %q not found in pantry", e.Item)
}

// LineError carries the raw line of a failed format call.
type LineError struct {
	Line string
	Kind Kind
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("format %q: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// KindOf classifies err. It returns false for errors that did not come from
// formatting a line.
func KindOf(err error) (Kind, bool) {
	var le *LineError
	if errors.As(err, &le) && le.Kind != 0 {
		return le.Kind, true
	}

	var (
		pe  *quantity.ParseError
		nt  *NoTitleError
		ntr *reference.NoTitleReferencedRecipeError
		up  *UnmatchedPantryError
	)
	switch {
	case errors.As(err, &pe):
		return KindParse, true
	case errors.As(err, &nt):
		return KindNoTitle, true
	case errors.As(err, &ntr):
		return KindNoTitleReference, true
	case errors.As(err, &up):
		return KindUnmatchedPantry, true
	}
	return 0, false
}
