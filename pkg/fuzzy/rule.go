/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: rule.go
Description: Fuzzy if-then rules. A ConjunctiveRule ANDs its antecedents by averaging their
membership degrees and predicts a single consequent class. A rule is mutated only while it
is grown; afterwards it is read-only and safe to share between goroutines.
*/

package fuzzy

import (
	"strings"

	"github.com/kleascm/frbdt/pkg/dataset"
)

// NoConsequent marks a rule whose consequent has not been set
const NoConsequent = -1

// Rule is the capability set the layer builder and predictor rely on
type Rule interface {
	// Covers reports whether the instance satisfies the rule
	Covers(in dataset.Instance) bool
	// Grow builds the rule from data. prior is the class-weight histogram of data.
	Grow(data *dataset.Dataset, prior []float64) error
	// Size is the number of antecedents
	Size() int
	// Consequent is the predicted class index
	Consequent() int
}

// ConjunctiveRule is a conjunction of trapezoidal antecedents
type ConjunctiveRule struct {
	antecedents []Antecedent
	consequent  int
	params      Params
	confidence  float64
}

var _ Rule = (*ConjunctiveRule)(nil)

// NewRule creates an empty rule for the given consequent class
func NewRule(consequent int, params Params) *ConjunctiveRule {
	return &ConjunctiveRule{consequent: consequent, params: params}
}

// Consequent returns the predicted class index
func (r *ConjunctiveRule) Consequent() int { return r.consequent }

// SetConsequent sets the predicted class index. It must be called before Grow.
func (r *ConjunctiveRule) SetConsequent(class int) { r.consequent = class }

// Params returns the parameters the rule was grown with
func (r *ConjunctiveRule) Params() Params { return r.params }

// Size returns the number of antecedents
func (r *ConjunctiveRule) Size() int { return len(r.antecedents) }

// HasAntecedents reports whether the rule is not a default rule
func (r *ConjunctiveRule) HasAntecedents() bool { return len(r.antecedents) > 0 }

// Antecedents returns a copy of the antecedent list
func (r *ConjunctiveRule) Antecedents() []Antecedent {
	out := make([]Antecedent, len(r.antecedents))
	copy(out, r.antecedents)
	return out
}

// AverageDegree returns the mean membership of the instance over the rule's
// antecedents, or 0 for a default rule
func (r *ConjunctiveRule) AverageDegree(in dataset.Instance) float64 {
	return averageDegree(in, r.antecedents)
}

// Covers reports whether the average membership reaches the threshold.
// A default rule covers nothing.
func (r *ConjunctiveRule) Covers(in dataset.Instance) bool {
	if len(r.antecedents) == 0 {
		return false
	}
	return averageDegree(in, r.antecedents) >= r.params.Threshold
}

// Describe renders the rule as "(a=[..]) and (b=[..]) => class=value"
func (r *ConjunctiveRule) Describe(class dataset.Attribute) string {
	var sb strings.Builder
	for i, ant := range r.antecedents {
		if i > 0 {
			sb.WriteString(" and ")
		}
		sb.WriteString("(")
		sb.WriteString(ant.String())
		sb.WriteString(")")
	}
	sb.WriteString(" => ")
	sb.WriteString(class.Name)
	sb.WriteString("=")
	sb.WriteString(class.ValueName(float64(r.consequent)))
	return sb.String()
}

func averageDegree(in dataset.Instance, antecedents []Antecedent) float64 {
	if len(antecedents) == 0 {
		return 0
	}
	var sum float64
	for _, ant := range antecedents {
		sum += ant.Degree(in)
	}
	return sum / float64(len(antecedents))
}
