package larder

import (
	"fmt"
	"strings"

	"github.com/cognicore/larder/pkg/larder/internalerr"
)

// Policy selects what happens to a line whose error category is recoverable.
type Policy string

const (
	// PolicyRaise returns the error to the caller.
	PolicyRaise Policy = "raise"
	// PolicyLog logs a warning and keeps the line with an unmatched placeholder.
	PolicyLog Policy = "log"
	// PolicySkip drops the line silently.
	PolicySkip Policy = "skip"
)

// ParsePolicy parses a policy name, ignoring case.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PolicyRaise, PolicyLog, PolicySkip:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown policy %q (want raise, log or skip)", internalerr.ErrInvalidConfig, s)
}

// UnmarshalText lets policies be read from YAML and flags.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Policies maps recoverable error categories to a policy.
// Fatal categories are not configurable and always raise.
type Policies struct {
	UnmatchedPantry Policy `yaml:"unmatched_pantry" json:"unmatched_pantry"`
}

// DefaultPolicies logs unmatched pantry items and keeps the line.
func DefaultPolicies() Policies {
	return Policies{UnmatchedPantry: PolicyLog}
}

// For returns the policy applied to kind.
func (p Policies) For(kind Kind) Policy {
	if kind.Fatal() {
		return PolicyRaise
	}
	if p.UnmatchedPantry == "" {
		return DefaultPolicies().UnmatchedPantry
	}
	return p.UnmatchedPantry
}

// Validate rejects unknown policy names.
func (p Policies) Validate() error {
	if p.UnmatchedPantry == "" {
		return nil
	}
	_, err := ParsePolicy(string(p.UnmatchedPantry))
	return err
}
