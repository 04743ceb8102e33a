// Package config reads larder's YAML configuration and builds the component
// graph it describes.
//
// Example:
//
//	units_path: units.yaml
//	parsing:
//	  trailing_unit_is_item: false
//	pantry:
//	  path: pantry.yaml
//	matching:
//	  fuzzy: true
//	  fuzzy_threshold: 0.85
//	policies:
//	  unmatched_pantry: log
//	references:
//	  markers: ["recipe:"]
//	  titles: [Pizza Dough]
//	batch:
//	  workers: 4
//	  fail_fast: false
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/larder/pkg/larder/internalerr"
	"github.com/cognicore/larder/pkg/larder/pantry"
)

// Config is the root configuration document.
type Config struct {
	UnitsPath  string           `yaml:"units_path"`
	Parsing    ParsingConfig    `yaml:"parsing"`
	Pantry     PantryConfig     `yaml:"pantry"`
	Matching   MatchingConfig   `yaml:"matching"`
	Policies   PoliciesConfig   `yaml:"policies"`
	References ReferencesConfig `yaml:"references"`
	Batch      BatchConfig      `yaml:"batch"`
	Log        LogConfig        `yaml:"log"`
}

// ParsingConfig tunes how lines are split.
type ParsingConfig struct {
	// TrailingUnitIsItem reads "1 cup" as one item named cup rather than a
	// measure with no item.
	TrailingUnitIsItem bool `yaml:"trailing_unit_is_item"`
}

// PantryConfig selects the pantry store. With neither set the pantry is empty.
type PantryConfig struct {
	Path   string `yaml:"path" validate:"excluded_with=SQLite"`
	SQLite string `yaml:"sqlite"`
}

// MatchingConfig tunes the pantry matcher.
type MatchingConfig struct {
	Fuzzy          bool     `yaml:"fuzzy"`
	FuzzyThreshold float64  `yaml:"fuzzy_threshold" validate:"gt=0,lte=1"`
	Descriptors    []string `yaml:"descriptors"`
	CacheSize      int      `yaml:"cache_size" validate:"gte=0"`
}

// PoliciesConfig maps recoverable error categories to raise, log or skip.
type PoliciesConfig struct {
	UnmatchedPantry string `yaml:"unmatched_pantry" validate:"oneof=raise log skip"`
}

// ReferencesConfig defines what makes a line a recipe reference.
type ReferencesConfig struct {
	Markers []string `yaml:"markers" validate:"dive,required"`
	Titles  []string `yaml:"titles" validate:"dive,required"`
}

// BatchConfig controls FormatBatch.
type BatchConfig struct {
	Workers  int  `yaml:"workers" validate:"gte=0,lte=1024"`
	FailFast bool `yaml:"fail_fast"`
}

// LogConfig configures the command-line logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Matching: MatchingConfig{
			FuzzyThreshold: pantry.DefaultFuzzyThreshold,
		},
		Policies: PoliciesConfig{
			UnmatchedPantry: "log",
		},
		References: ReferencesConfig{
			Markers: []string{"recipe:"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a configuration file over the defaults. Relative paths inside
// the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	cfg.Policies.UnmatchedPantry = strings.ToLower(strings.TrimSpace(cfg.Policies.UnmatchedPantry))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(msgs, "; "))
}

func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.UnitsPath, &c.Pantry.Path, &c.Pantry.SQLite} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
