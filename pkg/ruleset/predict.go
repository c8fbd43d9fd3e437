/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: predict.go
Description: Layered inference. Layers are consulted in training order and the first layer
that produces any nonzero score decides the score vector. The last layer scores every rule
with antecedents whether it covers the instance or not, so a prediction falls through to
the most permissive layer instead of returning nothing.
*/

package ruleset

import (
	"github.com/kleascm/frbdt/pkg/dataset"
	"gonum.org/v1/gonum/floats"
)

// Predict returns one score per class. A class scores the average membership of the
// instance in the rule predicting it. The vector is all zero when no layer fires.
func (m *Model) Predict(in dataset.Instance) []float64 {
	scores := make([]float64, m.NumClasses())
	last := len(m.Layers) - 1

	for i, layer := range m.Layers {
		for _, rule := range layer.Rules {
			if !rule.HasAntecedents() {
				continue
			}
			if i == last || rule.Covers(in) {
				scores[rule.Consequent()] = rule.AverageDegree(in)
			}
		}
		if floats.Sum(scores) != 0 {
			break
		}
	}
	return scores
}

// Classify returns the class with the highest score, the lowest index on ties.
// An instance no layer fires on is assigned class 0.
func (m *Model) Classify(in dataset.Instance) int {
	return floats.MaxIdx(m.Predict(in))
}

// Distribution returns a normalized class distribution for the instance. Classes
// tied at the top score share the mass in proportion to their training prior; an
// instance no layer fires on gets the training prior itself.
func (m *Model) Distribution(in dataset.Instance) []float64 {
	scores := m.Predict(in)
	total := floats.Sum(m.Prior)

	if floats.Sum(scores) > 0 && total > 0 {
		best := floats.Max(scores)
		for i, s := range scores {
			if s == best {
				scores[i] = m.Prior[i] / total
			} else {
				scores[i] = 0
			}
		}
	}
	if floats.Sum(scores) == 0 {
		copy(scores, m.Prior)
	}
	if sum := floats.Sum(scores); sum > 0 {
		floats.Scale(1/sum, scores)
	}
	return scores
}

// ClassifyWithPrior returns the arg-max of Distribution
func (m *Model) ClassifyWithPrior(in dataset.Instance) int {
	return floats.MaxIdx(m.Distribution(in))
}
