/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: grow.go
Description: Greedy forward selection of antecedents. Each round tries the candidate
antecedent of every unused attribute, keeps the one with the highest fuzzy confidence and
stops when confidence drops by alpha or more, when no candidate is left, or when the
attribute budget is spent.
*/

package fuzzy

import (
	"fmt"

	"github.com/kleascm/frbdt/pkg/dataset"
)

// confidenceEpsilon is the smallest membership mass treated as nonzero
const confidenceEpsilon = 1e-12

// Grow builds the rule's antecedents from data. prior must be the class-weight
// histogram of data. Growing on a dataset without weight leaves the rule empty.
func (r *ConjunctiveRule) Grow(data *dataset.Dataset, prior []float64) error {
	if r.consequent < 0 {
		return ErrUnsetConsequent
	}
	if r.consequent >= len(prior) {
		return fmt.Errorf("%w: consequent %d outside %d classes", ErrInvalidParameter, r.consequent, len(prior))
	}
	if err := r.params.Validate(); err != nil {
		return err
	}
	if !(data.SumOfWeights() > 0) {
		return nil
	}

	used := make([]bool, data.NumAttributes())
	remaining := r.params.MaxAttributes
	var current []Antecedent
	prevConfidence := 0.0

	for {
		var best []Antecedent
		bestConfidence := 0.0
		found := false

		for attr := 0; attr < data.NumAttributes(); attr++ {
			if used[attr] {
				continue
			}
			candidate, ok := CandidateFor(data, attr, prior, r.consequent)
			if !ok {
				continue
			}
			trial := make([]Antecedent, len(current), len(current)+1)
			copy(trial, current)
			trial = append(trial, candidate)

			confidence := FuzzyConfidence(data, trial, r.consequent)
			// strict comparison keeps the earliest attribute on ties
			if !found || confidence > bestConfidence {
				best, bestConfidence, found = trial, confidence, true
			}
		}

		switch {
		case !found:
			r.freeze(current, prevConfidence)
			return nil
		case prevConfidence-bestConfidence >= r.params.Alpha:
			r.freeze(current, prevConfidence)
			return nil
		case remaining == 1:
			r.freeze(best, bestConfidence)
			return nil
		}

		current = best
		used[best[len(best)-1].Attribute] = true
		remaining--
		prevConfidence = bestConfidence
	}
}

func (r *ConjunctiveRule) freeze(antecedents []Antecedent, confidence float64) {
	r.antecedents = antecedents
	r.confidence = confidence
}

// Confidence returns the fuzzy confidence of the frozen antecedent list on the
// data the rule was grown from
func (r *ConjunctiveRule) Confidence() float64 { return r.confidence }

// FuzzyConfidence is the soft precision of an antecedent list for class: the
// summed average membership of class instances over that of all instances.
// Instance weights do not enter the sums. A mass at or below 1e-12 yields 0.
func FuzzyConfidence(data *dataset.Dataset, antecedents []Antecedent, class int) float64 {
	var covered, all float64
	for _, in := range data.Instances() {
		degree := averageDegree(in, antecedents)
		all += degree
		if in.Class == class {
			covered += degree
		}
	}
	if all <= confidenceEpsilon {
		return 0
	}
	return covered / all
}
