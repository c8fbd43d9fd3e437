/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: codec.go
Description: JSON persistence for trained models. Decoding validates the schema and every
rule so a corrupted file fails at load time rather than at prediction time.
*/

package ruleset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kleascm/frbdt/pkg/fuzzy"
)

// WriteModel encodes the model as indented JSON
func WriteModel(w io.Writer, m *Model) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// ReadModel decodes and validates a model written by WriteModel
func ReadModel(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return &m, nil
}

// SaveModel writes the model to path, creating parent directories
func SaveModel(path string, m *Model) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer file.Close()

	if err := WriteModel(file, m); err != nil {
		return err
	}
	return file.Close()
}

// LoadModel reads a model from path
func LoadModel(path string) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer file.Close()
	return ReadModel(file)
}

func (m *Model) validate() error {
	if m.Schema == nil {
		return fmt.Errorf("missing schema")
	}
	if err := m.Schema.Validate(); err != nil {
		return err
	}
	if len(m.Prior) != m.NumClasses() {
		return fmt.Errorf("prior has %d entries for %d classes", len(m.Prior), m.NumClasses())
	}
	if err := m.Params.Validate(); err != nil {
		return err
	}
	for i, layer := range m.Layers {
		if layer == nil {
			return fmt.Errorf("layer %d is missing", i)
		}
		for j, rule := range layer.Rules {
			if rule == nil {
				return fmt.Errorf("layer %d rule %d is missing", i, j)
			}
			if rule.Consequent() < 0 || rule.Consequent() >= m.NumClasses() {
				return fmt.Errorf("layer %d rule %d predicts unknown class %d", i, j, rule.Consequent())
			}
			for _, ant := range rule.Antecedents() {
				if ant.Attribute < 0 || ant.Attribute >= len(m.Schema.Attributes) {
					return fmt.Errorf("layer %d rule %d references unknown attribute %d", i, j, ant.Attribute)
				}
				b := ant.Breakpoints
				if _, err := fuzzy.NewAntecedent(m.Schema.Attributes[ant.Attribute], b[0], b[1], b[2], b[3], ant.Class); err != nil {
					return fmt.Errorf("layer %d rule %d: %w", i, j, err)
				}
			}
		}
	}
	return nil
}
