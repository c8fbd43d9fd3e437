/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dataset.go
Description: In-memory table of labeled, weighted instances sharing one schema. A Dataset
is immutable once built: every derived dataset (such as the uncovered instances handed to
the next rule layer) copies its instances instead of aliasing them.
*/

package dataset

import (
	"fmt"
	"math"
)

// Instance is one labeled sample. Values holds one encoded value per input
// attribute; nominal values are catalog indexes.
type Instance struct {
	Values []float64 `json:"values"`
	Class  int       `json:"class"`
	Weight float64   `json:"weight"`
}

// NewInstance creates an instance with the default weight of 1
func NewInstance(class int, values ...float64) Instance {
	return Instance{Values: values, Class: class, Weight: 1.0}
}

// Value returns the encoded value of attribute i, or NaN when the instance is too short
func (in Instance) Value(i int) float64 {
	if i < 0 || i >= len(in.Values) {
		return math.NaN()
	}
	return in.Values[i]
}

// Clone returns a deep copy of the instance
func (in Instance) Clone() Instance {
	values := make([]float64, len(in.Values))
	copy(values, in.Values)
	return Instance{Values: values, Class: in.Class, Weight: in.Weight}
}

// Dataset holds instances and their class-weight histogram
type Dataset struct {
	schema       *Schema
	instances    []Instance
	distribution []float64
	sumOfWeights float64
}

// New builds a dataset from the given instances. Instances are validated
// against the schema and copied.
func New(schema *Schema, instances []Instance) (*Dataset, error) {
	if schema == nil {
		return nil, fmt.Errorf("dataset schema must not be nil")
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	numClasses := schema.NumClasses()
	numAttributes := len(schema.Attributes)
	copied := make([]Instance, 0, len(instances))
	for i, in := range instances {
		if len(in.Values) != numAttributes {
			return nil, fmt.Errorf("instance %d has %d values, schema has %d attributes", i, len(in.Values), numAttributes)
		}
		if in.Class < 0 || in.Class >= numClasses {
			return nil, fmt.Errorf("instance %d has class %d outside [0,%d)", i, in.Class, numClasses)
		}
		if math.IsNaN(in.Weight) || in.Weight < 0 {
			return nil, fmt.Errorf("instance %d has invalid weight %v", i, in.Weight)
		}
		copied = append(copied, in.Clone())
	}

	return build(schema, copied), nil
}

// build computes the histogram for an already copied instance slice
func build(schema *Schema, instances []Instance) *Dataset {
	d := &Dataset{
		schema:       schema,
		instances:    instances,
		distribution: make([]float64, schema.NumClasses()),
	}
	for _, in := range instances {
		d.distribution[in.Class] += in.Weight
		d.sumOfWeights += in.Weight
	}
	return d
}

// Schema returns the shared attribute layout
func (d *Dataset) Schema() *Schema { return d.schema }

// NumInstances returns the number of instances, regardless of weight
func (d *Dataset) NumInstances() int { return len(d.instances) }

// NumAttributes returns the number of input attributes
func (d *Dataset) NumAttributes() int { return len(d.schema.Attributes) }

// NumClasses returns the size of the class catalog
func (d *Dataset) NumClasses() int { return d.schema.NumClasses() }

// Attribute returns input attribute i
func (d *Dataset) Attribute(i int) Attribute { return d.schema.Attributes[i] }

// ClassAttribute returns the class attribute
func (d *Dataset) ClassAttribute() Attribute { return d.schema.Class }

// Instance returns instance i. Callers must treat its Values as read-only.
func (d *Dataset) Instance(i int) Instance { return d.instances[i] }

// Instances returns the instances backing the dataset. The slice is shared
// and must not be modified.
func (d *Dataset) Instances() []Instance { return d.instances }

// SumOfWeights returns the total instance weight
func (d *Dataset) SumOfWeights() float64 { return d.sumOfWeights }

// Distribution returns a copy of the per-class weight histogram
func (d *Dataset) Distribution() []float64 {
	out := make([]float64, len(d.distribution))
	copy(out, d.distribution)
	return out
}

// Filter returns a new dataset holding copies of the instances for which keep returns true
func (d *Dataset) Filter(keep func(Instance) bool) *Dataset {
	kept := make([]Instance, 0, len(d.instances))
	for _, in := range d.instances {
		if keep(in) {
			kept = append(kept, in.Clone())
		}
	}
	return build(d.schema, kept)
}

// Column returns the values of attribute attr for instances of the given class
// together with their weights
func (d *Dataset) Column(attr, class int) (values, weights []float64) {
	for _, in := range d.instances {
		if in.Class != class {
			continue
		}
		values = append(values, in.Values[attr])
		weights = append(weights, in.Weight)
	}
	return values, weights
}
