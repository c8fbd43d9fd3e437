/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: attribute.go
Description: Attribute schema for FRBDT datasets. An attribute is either numeric, with an
observed value range, or nominal, with a catalog of values encoded by position.
*/

package dataset

import (
	"fmt"
	"math"
)

// Kind distinguishes numeric from nominal attributes
type Kind int

const (
	Numeric Kind = iota
	Nominal
)

// String returns the kind name used in schemas and reports
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Nominal:
		return "nominal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Attribute describes one column of a dataset.
// Nominal values are stored in instances as their index into Values.
type Attribute struct {
	Index  int      `json:"index"`
	Name   string   `json:"name"`
	Kind   Kind     `json:"kind"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Values []string `json:"values,omitempty"`
}

// NewNumeric creates a numeric attribute with the given observed range
func NewNumeric(index int, name string, min, max float64) Attribute {
	return Attribute{Index: index, Name: name, Kind: Numeric, Min: min, Max: max}
}

// NewNominal creates a nominal attribute over the given catalog
func NewNominal(index int, name string, values []string) Attribute {
	catalog := make([]string, len(values))
	copy(catalog, values)
	max := 0.0
	if len(catalog) > 0 {
		max = float64(len(catalog) - 1)
	}
	return Attribute{Index: index, Name: name, Kind: Nominal, Min: 0, Max: max, Values: catalog}
}

// IsNominal reports whether the attribute has a value catalog
func (a Attribute) IsNominal() bool { return a.Kind == Nominal }

// NumValues returns the catalog size of a nominal attribute, 0 for numeric ones
func (a Attribute) NumValues() int {
	if !a.IsNominal() {
		return 0
	}
	return len(a.Values)
}

// ValueIndex looks up the catalog position of a nominal value
func (a Attribute) ValueIndex(value string) (int, bool) {
	for i, v := range a.Values {
		if v == value {
			return i, true
		}
	}
	return -1, false
}

// ValueName renders an encoded value. Nominal codes map back to their catalog
// entry; numeric values are printed as-is.
func (a Attribute) ValueName(v float64) string {
	if a.IsNominal() {
		i := int(v)
		if float64(i) == v && i >= 0 && i < len(a.Values) {
			return a.Values[i]
		}
		return "?"
	}
	return fmt.Sprintf("%g", v)
}

// Contains reports whether v lies inside the observed range of a numeric
// attribute or is a valid code of a nominal one
func (a Attribute) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if a.IsNominal() {
		i := int(v)
		return float64(i) == v && i >= 0 && i < len(a.Values)
	}
	return v >= a.Min && v <= a.Max
}

// Schema is the attribute layout shared by every dataset built from the same source.
// Test sets are read against the schema of the training set so codes line up.
type Schema struct {
	Relation   string      `json:"relation"`
	Attributes []Attribute `json:"attributes"`
	Class      Attribute   `json:"class"`
}

// NumClasses returns the size of the class catalog
func (s *Schema) NumClasses() int { return len(s.Class.Values) }

// Validate checks that the schema can carry a classification problem
func (s *Schema) Validate() error {
	if !s.Class.IsNominal() {
		return fmt.Errorf("class attribute %q must be nominal", s.Class.Name)
	}
	if len(s.Class.Values) == 0 {
		return fmt.Errorf("class attribute %q has no values", s.Class.Name)
	}
	seen := make(map[string]struct{}, len(s.Attributes))
	for i, a := range s.Attributes {
		if a.Index != i {
			return fmt.Errorf("attribute %q has index %d, expected %d", a.Name, a.Index, i)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("duplicate attribute name %q", a.Name)
		}
		seen[a.Name] = struct{}{}
	}
	return nil
}
