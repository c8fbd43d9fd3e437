/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: params.go
Description: Control parameters of fuzzy rule growth and the error values reported when
they, or the rule being grown, are invalid.
*/

package fuzzy

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter is returned for hyperparameters outside their domain
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsetConsequent is returned when a rule is grown before its consequent is set.
	// It always indicates a programming error.
	ErrUnsetConsequent = errors.New("rule consequent not set")
)

// Default parameter values
const (
	DefaultMaxAttributes = 5
	DefaultThreshold     = 0.6
	DefaultAlpha         = 0.02
)

// Params are the three control parameters a rule is grown with
type Params struct {
	MaxAttributes int     `json:"max_attributes"` // Upper bound on antecedents per rule
	Threshold     float64 `json:"threshold"`      // Minimum average membership for coverage
	Alpha         float64 `json:"alpha"`          // Tolerated fuzzy confidence drop between rounds
}

// DefaultParams returns the default parameter set
func DefaultParams() Params {
	return Params{
		MaxAttributes: DefaultMaxAttributes,
		Threshold:     DefaultThreshold,
		Alpha:         DefaultAlpha,
	}
}

// Validate checks the parameters. Errors wrap ErrInvalidParameter.
func (p Params) Validate() error {
	if p.MaxAttributes < 1 {
		return fmt.Errorf("%w: max attributes must be at least 1, got %d", ErrInvalidParameter, p.MaxAttributes)
	}
	if math.IsNaN(p.Threshold) || p.Threshold < 0 || p.Threshold > 1 {
		return fmt.Errorf("%w: threshold must lie in [0,1], got %v", ErrInvalidParameter, p.Threshold)
	}
	if math.IsNaN(p.Alpha) || p.Alpha < 0 {
		return fmt.Errorf("%w: alpha must be non-negative, got %v", ErrInvalidParameter, p.Alpha)
	}
	return nil
}
