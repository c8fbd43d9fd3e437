/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter hooks for training progress. The trainer notifies reporters after
each rule is grown and after each layer is partitioned.
*/

package ruleset

import (
	"github.com/kleascm/frbdt/pkg/dataset"
	"github.com/kleascm/frbdt/pkg/fuzzy"
	"github.com/sirupsen/logrus"
)

// LayerEvent summarizes one finished training round
type LayerEvent struct {
	Index     int     // zero-based layer index
	Layer     *Layer  // rules of the layer
	Instances int     // instances the layer was grown on
	Weight    float64 // total weight of those instances
	Remaining int     // instances left uncovered for the next layer
	Converged bool    // no further layer will be built
}

// Reporter receives training events. Calls are made from the training goroutine
// in rule order, never concurrently.
type Reporter interface {
	// OnRuleGrown is called for every rule of a layer once the layer is built.
	OnRuleGrown(layer int, rule *fuzzy.ConjunctiveRule, class dataset.Attribute)
	// OnLayerBuilt is called after the layer's training data has been partitioned.
	OnLayerBuilt(event LayerEvent)
}

// LoggerReporter logs training events through logrus
type LoggerReporter struct {
	logger logrus.FieldLogger
}

// NewLoggerReporter creates a new LoggerReporter.
func NewLoggerReporter(logger logrus.FieldLogger) *LoggerReporter {
	return &LoggerReporter{logger: logger}
}

// OnRuleGrown logs the grown rule at debug level
func (r *LoggerReporter) OnRuleGrown(layer int, rule *fuzzy.ConjunctiveRule, class dataset.Attribute) {
	entry := r.logger.WithFields(logrus.Fields{
		"layer":      layer,
		"class":      class.ValueName(float64(rule.Consequent())),
		"size":       rule.Size(),
		"confidence": rule.Confidence(),
	})
	if !rule.HasAntecedents() {
		entry.Warn("Rule grown without antecedents")
		return
	}
	entry.WithField("rule", rule.Describe(class)).Debug("Rule grown")
}

// OnLayerBuilt logs the layer summary
func (r *LoggerReporter) OnLayerBuilt(event LayerEvent) {
	r.logger.WithFields(logrus.Fields{
		"layer":     event.Index,
		"rules":     event.Layer.Len(),
		"instances": event.Instances,
		"weight":    event.Weight,
		"remaining": event.Remaining,
		"converged": event.Converged,
	}).Info("Layer built")
}
