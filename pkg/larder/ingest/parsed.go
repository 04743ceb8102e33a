package ingest

import "github.com/cognicore/larder/pkg/larder/units"

// ParsedLine is a split line whose quantity has been converted and whose unit
// has been resolved against the catalog.
type ParsedLine struct {
	Raw         string
	Quantity    float64
	HasQuantity bool
	Unit        *units.Unit // nil when the line has no unit
	UnitToken   string
	Item        string
}
