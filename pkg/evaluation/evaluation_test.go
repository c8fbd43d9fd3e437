/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: evaluation_test.go
Description: Tests for model evaluation, prediction files and JSON reports.
*/

package evaluation_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kleascm/frbdt/pkg/dataset"
	"github.com/kleascm/frbdt/pkg/evaluation"
	"github.com/kleascm/frbdt/pkg/fuzzy"
	"github.com/kleascm/frbdt/pkg/ruleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toySchema() *dataset.Schema {
	return &dataset.Schema{
		Relation:   "toy",
		Attributes: []dataset.Attribute{dataset.NewNumeric(0, "x", 0, 10)},
		Class:      dataset.NewNominal(1, "class", []string{"low", "high"}),
	}
}

func toyData(t *testing.T, instances ...dataset.Instance) *dataset.Dataset {
	t.Helper()
	data, err := dataset.New(toySchema(), instances)
	require.NoError(t, err)
	return data
}

func trainToy(t *testing.T) *ruleset.Model {
	t.Helper()
	train := toyData(t,
		dataset.NewInstance(0, 0), dataset.NewInstance(0, 2),
		dataset.NewInstance(1, 8), dataset.NewInstance(1, 10),
	)
	model, err := ruleset.Train(context.Background(), train, fuzzy.Params{MaxAttributes: 1, Threshold: 0.5, Alpha: 0.02})
	require.NoError(t, err)
	return model
}

// test instances: two hits per class plus a "low" labelled at 9, which is classified high
func testData(t *testing.T) *dataset.Dataset {
	return toyData(t,
		dataset.NewInstance(0, 1), dataset.NewInstance(0, 3), dataset.NewInstance(0, 9),
		dataset.NewInstance(1, 7), dataset.NewInstance(1, 9.5),
	)
}

func TestEvaluate(t *testing.T) {
	model := trainToy(t)

	result, err := evaluation.Evaluate(model, testData(t), evaluation.Options{Name: "toy-test", Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, model.ID, result.ModelID)
	assert.Equal(t, "toy-test", result.Dataset)
	assert.Equal(t, []string{"low", "high"}, result.Classes)
	assert.Equal(t, 5, result.Instances)
	assert.Equal(t, 4, result.Correct)
	assert.InDelta(t, 0.8, result.Accuracy, 1e-12)
	assert.Equal(t, [][]int{{2, 1}, {0, 2}}, result.Confusion)
	assert.InDeltaSlice(t, []float64{2.0 / 3, 1}, result.Recall, 1e-12)
	assert.InDeltaSlice(t, []float64{1, 2.0 / 3}, result.Precision, 1e-12)

	require.Len(t, result.Predictions, 5)
	assert.False(t, result.Predictions[2].Correct())
	assert.Equal(t, 1, result.Predictions[2].Predicted)
	assert.Len(t, result.Predictions[0].Scores, 2)
}

func TestEvaluateWithPrior(t *testing.T) {
	model := trainToy(t)

	result, err := evaluation.Evaluate(model, testData(t), evaluation.Options{UsePrior: true})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Correct)
	for _, p := range result.Predictions {
		assert.InDelta(t, 1.0, p.Scores[0]+p.Scores[1], 1e-12)
	}
}

func TestEvaluateRejectsMismatchedSchema(t *testing.T) {
	model := trainToy(t)
	schema := &dataset.Schema{
		Attributes: []dataset.Attribute{dataset.NewNumeric(0, "x", 0, 10)},
		Class:      dataset.NewNominal(1, "class", []string{"a", "b", "c"}),
	}
	other, err := dataset.New(schema, []dataset.Instance{dataset.NewInstance(2, 1)})
	require.NoError(t, err)

	_, err = evaluation.Evaluate(model, other, evaluation.Options{})
	assert.Error(t, err)
}

func TestEvaluateEmptyDataset(t *testing.T) {
	result, err := evaluation.Evaluate(trainToy(t), toyData(t), evaluation.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Instances)
	assert.Equal(t, 0.0, result.Accuracy)
	assert.Equal(t, [][]int{{0, 0}, {0, 0}}, result.Confusion)
}

func TestWritePredictions(t *testing.T) {
	model := trainToy(t)
	result, err := evaluation.Evaluate(model, testData(t), evaluation.Options{})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, evaluation.WritePredictions(&sb, model.Schema, result))

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "@relation toy\n"))
	lines := strings.Split(strings.TrimSpace(out[strings.Index(out, "@data\n")+len("@data\n"):]), "\n")
	assert.Equal(t, []string{"low low", "low low", "low high", "high high", "high high"}, lines)

	path := filepath.Join(t.TempDir(), "out", "result.tst")
	require.NoError(t, evaluation.SavePredictions(path, model.Schema, result))
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(saved))
}

func TestWriteReport(t *testing.T) {
	model := trainToy(t)
	result, err := evaluation.Evaluate(model, testData(t), evaluation.Options{Name: "toy"})
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := evaluation.WriteReport(dir, "evaluation", model.ID, result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "evaluation"), filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_evaluation_"+model.ID[:8]+".json"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded evaluation.Result
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, result.Correct, decoded.Correct)
	assert.Equal(t, result.Confusion, decoded.Confusion)
	assert.Nil(t, decoded.Predictions, "per-instance predictions stay out of reports")
}
