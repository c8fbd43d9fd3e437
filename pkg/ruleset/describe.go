/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: describe.go
Description: Model summaries: rule and layer counts, average rule length and a
human-readable dump of every layer.
*/

package ruleset

import (
	"fmt"
	"strings"
)

// RuleCount returns the number of rules over all layers
func (m *Model) RuleCount() int {
	count := 0
	for _, layer := range m.Layers {
		count += layer.Len()
	}
	return count
}

// LayerCount returns the number of layers
func (m *Model) LayerCount() int { return len(m.Layers) }

// AverageRuleSize returns the mean number of antecedents per rule, 0 for an empty model
func (m *Model) AverageRuleSize() float64 {
	rules, antecedents := 0, 0
	for _, layer := range m.Layers {
		for _, rule := range layer.Rules {
			rules++
			antecedents += rule.Size()
		}
	}
	if rules == 0 {
		return 0
	}
	return float64(antecedents) / float64(rules)
}

// Describe renders every layer and its rules, one rule per line
func (m *Model) Describe() string {
	var sb strings.Builder
	class := m.ClassAttribute()

	sb.WriteString("FRBDT rules:\n")
	sb.WriteString("============\n")
	for i, layer := range m.Layers {
		fmt.Fprintf(&sb, "\nLayer %d:\n", i)
		for _, rule := range layer.Rules {
			sb.WriteString(rule.Describe(class))
			sb.WriteString("\n")
		}
	}
	fmt.Fprintf(&sb, "\nNumber of layers: %d\n", m.LayerCount())
	return sb.String()
}
