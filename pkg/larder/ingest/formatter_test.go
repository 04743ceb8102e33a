package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cognicore/larder/pkg/larder/units"
)

func TestSplit(t *testing.T) {
	f := NewFormatter(units.Default())

	tests := []struct {
		line string
		want Split
	}{
		{"2 cans diced tomatoes", Split{Quantity: "2", HasQuantity: true, Unit: "cans", Item: "diced tomatoes"}},
		{"2 eggs", Split{Quantity: "2", HasQuantity: true, Item: "eggs"}},
		{"salt", Split{Quantity: "1", Item: "salt"}},
		{"1 1/2 cups flour", Split{Quantity: "1 1/2", HasQuantity: true, Unit: "cups", Item: "flour"}},
		{"½ tsp salt", Split{Quantity: "1/2", HasQuantity: true, Unit: "tsp", Item: "salt"}},
		{"1½ cups sugar", Split{Quantity: "1 1/2", HasQuantity: true, Unit: "cups", Item: "sugar"}},
		{"1/2 recipe: waffle batter", Split{Quantity: "1/2", HasQuantity: true, Item: "recipe: waffle batter"}},
		{"3 fl oz cream", Split{Quantity: "3", HasQuantity: true, Unit: "fl oz", Item: "cream"}},
		{"2 cups of flour", Split{Quantity: "2", HasQuantity: true, Unit: "cups", Item: "flour"}},
		{"1 tbsp. olive oil", Split{Quantity: "1", HasQuantity: true, Unit: "tbsp.", Item: "olive oil"}},
		{"200g butter", Split{Quantity: "200", HasQuantity: true, Unit: "g", Item: "butter"}},
		{"2tbsp honey", Split{Quantity: "2", HasQuantity: true, Unit: "tbsp", Item: "honey"}},
		{"pinch nutmeg", Split{Quantity: "1", Unit: "pinch", Item: "nutmeg"}},
		{"1 large onion", Split{Quantity: "1", HasQuantity: true, Item: "large onion"}},
		{"1,5 l milk", Split{Quantity: "1,5", HasQuantity: true, Unit: "l", Item: "milk"}},
		{"1 1/2cups flour", Split{Quantity: "1 1/2", HasQuantity: true, Unit: "cups", Item: "flour"}},
		{"2 1/4tsp yeast", Split{Quantity: "2 1/4", HasQuantity: true, Unit: "tsp", Item: "yeast"}},
		{"1,000 g flour", Split{Quantity: "1,000", HasQuantity: true, Unit: "g", Item: "flour"}},
		{"1,000g flour", Split{Quantity: "1,000", HasQuantity: true, Unit: "g", Item: "flour"}},
		{"2 3eggs", Split{Quantity: "2", HasQuantity: true, Item: "3eggs"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Split(tt.line))
		})
	}
}

func TestSplitParentheticalNotesAreKept(t *testing.T) {
	f := NewFormatter(units.Default())

	got := f.Split("2 cups rice (rinsed, drained)")
	assert.Equal(t, "cups", got.Unit)
	assert.Equal(t, "rice (rinsed, drained)", got.Item)

	got = f.Split("1 (14 oz) can tomatoes")
	assert.Equal(t, "1", got.Quantity)
	assert.Empty(t, got.Unit)
	assert.Equal(t, "(14 oz) can tomatoes", got.Item)
}

func TestSplitUnitAtEndOfLine(t *testing.T) {
	f := NewFormatter(units.Default())

	// a countable word closing the line names the item
	got := f.Split("1 can")
	assert.Empty(t, got.Unit)
	assert.Equal(t, "can", got.Item)

	got = f.Split("2cans")
	assert.Equal(t, "2", got.Quantity)
	assert.Empty(t, got.Unit)
	assert.Equal(t, "cans", got.Item)

	// a measure closing the line stays a unit and leaves no item
	got = f.Split("½ tsp")
	assert.Equal(t, "1/2", got.Quantity)
	assert.Equal(t, "tsp", got.Unit)
	assert.Empty(t, got.Item)

	got = f.Split("200g")
	assert.Equal(t, "g", got.Unit)
	assert.Empty(t, got.Item)
}

func TestSplitTrailingUnitAsItem(t *testing.T) {
	f := NewFormatter(units.Default(), WithTrailingUnitAsItem(true))

	tests := []struct {
		line string
		want Split
	}{
		{"cup", Split{Quantity: "1", Item: "cup"}},
		{"4 oz", Split{Quantity: "4", HasQuantity: true, Item: "oz"}},
		{"1 L", Split{Quantity: "1", HasQuantity: true, Item: "L"}},
		{"1 can", Split{Quantity: "1", HasQuantity: true, Item: "can"}},
		{"2 cups flour", Split{Quantity: "2", HasQuantity: true, Unit: "cups", Item: "flour"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Split(tt.line))
		})
	}

	// the default keeps a trailing measure as the unit
	assert.Equal(t, "oz", NewFormatter(units.Default()).Split("4 oz").Unit)
}

func TestSplitEmptyLine(t *testing.T) {
	f := NewFormatter(units.Default())

	got := f.Split("   ")
	assert.Equal(t, Split{Quantity: "1"}, got)
}

func TestSplitUnknownUnitIsAbsorbedIntoItem(t *testing.T) {
	f := NewFormatter(units.Default())

	got := f.Split("3 cloves garlic")
	assert.Empty(t, got.Unit)
	assert.Equal(t, "cloves garlic", got.Item)
}

func TestSplitDoesNotTreatOfAsItemWhenAlone(t *testing.T) {
	f := NewFormatter(units.Default())

	got := f.Split("1 cup of")
	assert.Equal(t, "cup", got.Unit)
	assert.Equal(t, "of", got.Item)
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1 &frac12; cups  flour", "1 1/2 cups flour"},
		{"<b>2</b> cups <i>milk</i>", "2 cups milk"},
		{"salt &amp; pepper", "salt & pepper"},
		{"  ¼ tsp\tcumin ", "1/4 tsp cumin"},
		{"plain line", "plain line"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.in))
	}
}
