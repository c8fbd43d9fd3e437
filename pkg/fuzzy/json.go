/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: json.go
Description: JSON encoding for antecedents and rules. Open trapezoid ends are infinite,
which encoding/json cannot represent as numbers, so breakpoints are written as numbers or
the strings "-Inf" and "+Inf".
*/

package fuzzy

import (
	"encoding/json"
	"fmt"
	"math"
)

type bound float64

func (b bound) MarshalJSON() ([]byte, error) {
	v := float64(b)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(v):
		return nil, fmt.Errorf("cannot encode NaN breakpoint")
	}
	return json.Marshal(v)
}

func (b *bound) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "+Inf", "Inf", "inf", "+inf":
			*b = bound(math.Inf(1))
		case "-Inf", "-inf":
			*b = bound(math.Inf(-1))
		default:
			return fmt.Errorf("invalid breakpoint %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid breakpoint: %w", err)
	}
	*b = bound(v)
	return nil
}

type antecedentJSON struct {
	Attribute   int      `json:"attribute"`
	Name        string   `json:"name"`
	Breakpoints [4]bound `json:"breakpoints"`
	Class       int      `json:"class"`
}

// MarshalJSON implements json.Marshaler
func (ant Antecedent) MarshalJSON() ([]byte, error) {
	out := antecedentJSON{Attribute: ant.Attribute, Name: ant.Name, Class: ant.Class}
	for i, v := range ant.Breakpoints {
		out.Breakpoints[i] = bound(v)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (ant *Antecedent) UnmarshalJSON(data []byte) error {
	var in antecedentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	ant.Attribute, ant.Name, ant.Class = in.Attribute, in.Name, in.Class
	for i, v := range in.Breakpoints {
		ant.Breakpoints[i] = float64(v)
	}
	return nil
}

type ruleJSON struct {
	Consequent  int          `json:"consequent"`
	Params      Params       `json:"params"`
	Confidence  float64      `json:"confidence"`
	Antecedents []Antecedent `json:"antecedents"`
}

// MarshalJSON implements json.Marshaler
func (r *ConjunctiveRule) MarshalJSON() ([]byte, error) {
	antecedents := r.antecedents
	if antecedents == nil {
		antecedents = []Antecedent{}
	}
	return json.Marshal(ruleJSON{
		Consequent:  r.consequent,
		Params:      r.params,
		Confidence:  r.confidence,
		Antecedents: antecedents,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (r *ConjunctiveRule) UnmarshalJSON(data []byte) error {
	var in ruleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.consequent = in.Consequent
	r.params = in.Params
	r.confidence = in.Confidence
	r.antecedents = in.Antecedents
	return nil
}
