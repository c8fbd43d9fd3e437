/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: model.go
Description: The trained layered ruleset together with the metadata needed to describe it,
store it and apply it to new data.
*/

package ruleset

import (
	"time"

	"github.com/kleascm/frbdt/pkg/dataset"
	"github.com/kleascm/frbdt/pkg/fuzzy"
)

// Model is an immutable layered fuzzy ruleset. It is safe for concurrent use.
type Model struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Relation  string          `json:"relation"`
	Schema    *dataset.Schema `json:"schema"`
	Params    fuzzy.Params    `json:"params"`
	Prior     []float64       `json:"prior"` // class weights of the full training set
	Layers    []*Layer        `json:"layers"`
}

// ClassAttribute returns the attribute the model predicts
func (m *Model) ClassAttribute() dataset.Attribute { return m.Schema.Class }

// NumClasses returns the length of score vectors produced by Predict
func (m *Model) NumClasses() int { return m.Schema.NumClasses() }
