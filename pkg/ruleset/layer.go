/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: layer.go
Description: Layer construction. A layer holds one rule per class present in its training
data; instances no rule of the layer covers become the training data of the next layer.
*/

package ruleset

import (
	"fmt"

	"github.com/kleascm/frbdt/pkg/dataset"
	"github.com/kleascm/frbdt/pkg/fuzzy"
	"github.com/kleascm/frbdt/pkg/parallel"
)

// Layer is the set of rules grown from one round of training data, ordered by class index
type Layer struct {
	Rules []*fuzzy.ConjunctiveRule `json:"rules"`
}

// Len returns the number of rules in the layer
func (l *Layer) Len() int { return len(l.Rules) }

// Covers reports whether any rule of the layer covers the instance
func (l *Layer) Covers(in dataset.Instance) bool {
	for _, rule := range l.Rules {
		if rule.Covers(in) {
			return true
		}
	}
	return false
}

// LayerBuilder grows the rules of a layer
type LayerBuilder struct {
	params  fuzzy.Params
	workers int
}

// NewLayerBuilder creates a builder. workers <= 0 uses GOMAXPROCS.
func NewLayerBuilder(params fuzzy.Params, workers int) *LayerBuilder {
	return &LayerBuilder{params: params, workers: workers}
}

// Build grows one rule for every class with nonzero weight in data. Every rule is
// grown on the full dataset. Rules are grown concurrently and slotted by class so
// the layer does not depend on the worker count.
func (b *LayerBuilder) Build(data *dataset.Dataset) (*Layer, error) {
	prior := data.Distribution()

	classes := make([]int, 0, len(prior))
	for class, weight := range prior {
		if weight != 0 {
			classes = append(classes, class)
		}
	}

	rules := make([]*fuzzy.ConjunctiveRule, len(classes))
	err := parallel.ForEachErr(len(classes), parallel.Limit(b.workers), func(i int) error {
		rule := fuzzy.NewRule(classes[i], b.params)
		if err := rule.Grow(data, prior); err != nil {
			return fmt.Errorf("failed to grow rule for class %d: %w", classes[i], err)
		}
		rules[i] = rule
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Layer{Rules: rules}, nil
}

// Partition returns the instances of data that no rule of the layer covers, in order
func Partition(layer *Layer, data *dataset.Dataset) *dataset.Dataset {
	return data.Filter(func(in dataset.Instance) bool {
		return !layer.Covers(in)
	})
}
