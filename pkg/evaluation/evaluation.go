/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: evaluation.go
Description: Model evaluation. Classifies every instance of a dataset, counts hits and
builds a confusion matrix with per-class recall and precision.
*/

package evaluation

import (
	"fmt"

	"github.com/kleascm/frbdt/pkg/dataset"
	"github.com/kleascm/frbdt/pkg/parallel"
	"github.com/kleascm/frbdt/pkg/ruleset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Prediction is the outcome for one instance
type Prediction struct {
	Actual    int       `json:"actual"`
	Predicted int       `json:"predicted"`
	Scores    []float64 `json:"scores"`
}

// Correct reports whether the prediction matches the label
func (p Prediction) Correct() bool { return p.Actual == p.Predicted }

// Result holds the metrics of one evaluation run
type Result struct {
	ModelID     string       `json:"model_id"`
	Dataset     string       `json:"dataset"`
	Classes     []string     `json:"classes"`
	Instances   int          `json:"instances"`
	Correct     int          `json:"correct"`
	Accuracy    float64      `json:"accuracy"`
	Confusion   [][]int      `json:"confusion"` // rows are actual classes, columns predicted
	Recall      []float64    `json:"recall"`
	Precision   []float64    `json:"precision"`
	Predictions []Prediction `json:"-"`
}

// Options controls an evaluation run
type Options struct {
	Name     string // dataset label recorded in the result
	UsePrior bool   // classify with the prior-weighted distribution
	Workers  int    // 0 = GOMAXPROCS
}

// Evaluate classifies every instance of data with m. The data must share the
// model's class catalog.
func Evaluate(m *ruleset.Model, data *dataset.Dataset, opts Options) (*Result, error) {
	if data.NumClasses() != m.NumClasses() {
		return nil, fmt.Errorf("dataset has %d classes, model expects %d", data.NumClasses(), m.NumClasses())
	}
	if data.NumAttributes() != len(m.Schema.Attributes) {
		return nil, fmt.Errorf("dataset has %d attributes, model expects %d", data.NumAttributes(), len(m.Schema.Attributes))
	}

	instances := data.Instances()
	predictions := make([]Prediction, len(instances))
	parallel.ForEach(len(instances), parallel.Limit(opts.Workers), func(i int) {
		in := instances[i]
		var scores []float64
		if opts.UsePrior {
			scores = m.Distribution(in)
		} else {
			scores = m.Predict(in)
		}
		predictions[i] = Prediction{Actual: in.Class, Predicted: floats.MaxIdx(scores), Scores: scores}
	})

	return summarize(m.ID, opts.Name, m.ClassAttribute().Values, predictions), nil
}

// summarize builds the metrics of a prediction list
func summarize(modelID, name string, classes []string, predictions []Prediction) *Result {
	n := len(classes)
	confusion := mat.NewDense(n, n, nil)
	correct := 0
	for _, p := range predictions {
		confusion.Set(p.Actual, p.Predicted, confusion.At(p.Actual, p.Predicted)+1)
		if p.Correct() {
			correct++
		}
	}

	result := &Result{
		ModelID:     modelID,
		Dataset:     name,
		Classes:     classes,
		Instances:   len(predictions),
		Correct:     correct,
		Confusion:   make([][]int, n),
		Recall:      make([]float64, n),
		Precision:   make([]float64, n),
		Predictions: predictions,
	}
	if len(predictions) > 0 {
		result.Accuracy = float64(correct) / float64(len(predictions))
	}

	for c := 0; c < n; c++ {
		row := mat.Row(nil, c, confusion)
		col := mat.Col(nil, c, confusion)
		result.Confusion[c] = make([]int, n)
		for j, v := range row {
			result.Confusion[c][j] = int(v)
		}
		if total := floats.Sum(row); total > 0 {
			result.Recall[c] = confusion.At(c, c) / total
		}
		if total := floats.Sum(col); total > 0 {
			result.Precision[c] = confusion.At(c, c) / total
		}
	}
	return result
}
