package units

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromYAML reads unit definitions from a YAML file and builds a catalog.
// When seed is non-nil the definitions extend it; a definition reusing an
// existing symbol replaces that unit.
//
// Expected format:
//
//	units:
//	  - symbol: clove
//	    kind: countable
//	    dimension: count
//	  - symbol: stick
//	    kind: empirical
//	    dimension: mass
//	    base: g
//	    ratio: 113
//	    aliases: [sticks]
func LoadFromYAML(path string, seed *Catalog) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defs, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	b := NewBuilder(seed)
	for _, u := range defs {
		if err := b.Add(u); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// Decode parses unit definitions from YAML.
func Decode(data []byte) ([]Unit, error) {
	var doc struct {
		Units []Unit `yaml:"units"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Units, nil
}
