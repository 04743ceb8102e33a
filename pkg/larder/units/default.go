package units

// Conversion ratios for empirical units, expressed in grams or milliliters.
const (
	mlPerTeaspoon   = 4.92892159375
	mlPerTablespoon = 14.78676478125
	mlPerFluidOunce = 29.5735295625
	mlPerCup        = 236.5882365
	mlPerPint       = 473.176473
	mlPerQuart      = 946.352946
	mlPerGallon     = 3785.411784
	gramsPerOunce   = 28.349523125
	gramsPerPound   = 453.59237
	slicesPerRoll   = 2
)

// countable returns a countable unit that is its own base.
func countable(symbol string, aliases ...string) Unit {
	return Unit{Symbol: symbol, Kind: Countable, Dimension: Count, Aliases: aliases}
}

// DefaultUnits returns the built-in unit definitions.
func DefaultUnits() []Unit {
	bunch := countable("bunch")
	bunch.PluralSuffix = "es"
	dash := countable("dash")
	dash.PluralSuffix = "es"
	pinch := countable("pinch")
	pinch.PluralSuffix = "es"

	pkg := countable("package", "pack")
	pkg.Abbreviation = true
	pkg.Abbreviations = []string{"pkg", "pkgs"}

	return []Unit{
		// Countable custom units
		countable("bag"),
		countable("ball"),
		countable("block"),
		bunch,
		countable("can", "tin", "tins"),
		countable("cube"),
		dash,
		countable("drop"),
		countable("head"),
		countable("jar"),
		pkg,
		countable("packet"),
		pinch,
		countable("sheet"),
		countable("slice"),
		{Symbol: "roll", Kind: Countable, Dimension: Count, Base: "slice", Ratio: slicesPerRoll},
		countable("square"),
		countable("strip"),
		countable("unit", "piece", "pieces", "pc", "pcs"),
		countable("dimensionless"),

		// Metric mass (base g)
		{Symbol: "g", Kind: Metric, Dimension: Mass, Abbreviation: true,
			Aliases: []string{"gram", "grams", "gramme", "grammes"}, Abbreviations: []string{"gr", "grs"}},
		{Symbol: "mg", Kind: Metric, Dimension: Mass, Base: "g", Ratio: 0.001, Abbreviation: true,
			Aliases: []string{"milligram", "milligrams"}},
		{Symbol: "kg", Kind: Metric, Dimension: Mass, Base: "g", Ratio: 1000, Abbreviation: true,
			Aliases: []string{"kilogram", "kilograms", "kilo", "kilos"}, Abbreviations: []string{"kgs"}},

		// Metric volume (base ml)
		{Symbol: "ml", Kind: Metric, Dimension: Volume, Abbreviation: true,
			Aliases: []string{"milliliter", "milliliters", "millilitre", "millilitres"}, Abbreviations: []string{"mL"}},
		{Symbol: "cl", Kind: Metric, Dimension: Volume, Base: "ml", Ratio: 10, Abbreviation: true,
			Aliases: []string{"centiliter", "centiliters", "centilitre", "centilitres"}},
		{Symbol: "dl", Kind: Metric, Dimension: Volume, Base: "ml", Ratio: 100, Abbreviation: true,
			Aliases: []string{"deciliter", "deciliters", "decilitre", "decilitres"}},
		{Symbol: "l", Kind: Metric, Dimension: Volume, Base: "ml", Ratio: 1000, Abbreviation: true,
			Aliases: []string{"liter", "liters", "litre", "litres"}, Abbreviations: []string{"L"}},

		// Empirical volume
		{Symbol: "tsp", Kind: Empirical, Dimension: Volume, Base: "ml", Ratio: mlPerTeaspoon, Abbreviation: true,
			Aliases: []string{"teaspoon", "teaspoons", "tsps"}, Abbreviations: []string{"t", "ts"}},
		{Symbol: "tbsp", Kind: Empirical, Dimension: Volume, Base: "ml", Ratio: mlPerTablespoon, Abbreviation: true,
			Aliases: []string{"tablespoon", "tablespoons", "tbsps", "tbs"}, Abbreviations: []string{"T", "Tb", "tb", "Tbs"}},
		{Symbol: "fl oz", Kind: Empirical, Dimension: Volume, Base: "ml", Ratio: mlPerFluidOunce, Abbreviation: true,
			Aliases: []string{"fluid ounce", "fluid ounces", "floz"}, Abbreviations: []string{"fl oz"}},
		{Symbol: "cup", Kind: Empirical, Dimension: Volume, Base: "ml", Ratio: mlPerCup, Abbreviation: true,
			Aliases: []string{"cups"}, Abbreviations: []string{"c", "C"}},
		{Symbol: "pint", Kind: Empirical, Dimension: Volume, Base: "ml", Ratio: mlPerPint, Abbreviation: true,
			Aliases: []string{"pints"}, Abbreviations: []string{"pt", "pts"}},
		{Symbol: "quart", Kind: Empirical, Dimension: Volume, Base: "ml", Ratio: mlPerQuart, Abbreviation: true,
			Aliases: []string{"quarts"}, Abbreviations: []string{"qt", "qts"}},
		{Symbol: "gallon", Kind: Empirical, Dimension: Volume, Base: "ml", Ratio: mlPerGallon, Abbreviation: true,
			Aliases: []string{"gallons"}, Abbreviations: []string{"gal", "gals"}},

		// Empirical mass
		{Symbol: "oz", Kind: Empirical, Dimension: Mass, Base: "g", Ratio: gramsPerOunce, Abbreviation: true,
			Aliases: []string{"ounce", "ounces"}},
		{Symbol: "lb", Kind: Empirical, Dimension: Mass, Base: "g", Ratio: gramsPerPound, Abbreviation: true,
			Aliases: []string{"pound", "pounds"}, Abbreviations: []string{"lbs"}},
	}
}

// Default builds a catalog from DefaultUnits.
func Default() *Catalog {
	b := NewBuilder(nil)
	for _, u := range DefaultUnits() {
		if err := b.Add(u); err != nil {
			panic("units: invalid built-in definition: " + err.Error())
		}
	}
	c, err := b.Build()
	if err != nil {
		panic("units: invalid built-in catalog: " + err.Error())
	}
	return c
}
