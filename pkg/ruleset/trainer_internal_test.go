/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: trainer_internal_test.go
Description: Tests for the training stop predicate.
*/

package ruleset

import (
	"testing"

	"github.com/kleascm/frbdt/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newData(t *testing.T, instances ...dataset.Instance) *dataset.Dataset {
	t.Helper()
	schema := &dataset.Schema{
		Attributes: []dataset.Attribute{dataset.NewNumeric(0, "x", 0, 10)},
		Class:      dataset.NewNominal(1, "class", []string{"a", "b"}),
	}
	data, err := dataset.New(schema, instances)
	require.NoError(t, err)
	return data
}

func TestConverged(t *testing.T) {
	three := newData(t, dataset.NewInstance(0, 1), dataset.NewInstance(1, 2), dataset.NewInstance(0, 3))
	two := newData(t, dataset.NewInstance(0, 1), dataset.NewInstance(1, 2))
	empty := newData(t)
	weightless := newData(t, dataset.Instance{Values: []float64{1}, Class: 0, Weight: 0})

	assert.False(t, converged(three, two), "progress was made")
	assert.True(t, converged(three, three), "stagnation")
	assert.True(t, converged(three, empty), "nothing left")
	assert.True(t, converged(three, weightless), "nothing left to learn from")
}
