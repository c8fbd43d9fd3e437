/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: trainer.go
Description: Layered training loop. Each round builds a layer on the instances left
uncovered by the previous layers and stops once a round covers nothing new or leaves
nothing to learn.
*/

package ruleset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/frbdt/pkg/dataset"
	"github.com/kleascm/frbdt/pkg/fuzzy"
	"github.com/sirupsen/logrus"
)

// ErrEmptyDataset is returned when the training data carries no weight
var ErrEmptyDataset = errors.New("training dataset is empty")

// State is the trainer lifecycle state
type State int

const (
	Training State = iota
	Converged
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Training:
		return "training"
	case Converged:
		return "converged"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures a Trainer
type Option func(*Trainer)

// WithWorkers bounds the number of rules grown concurrently. Zero uses GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(t *Trainer) { t.workers = workers }
}

// WithReporter registers a Reporter for training events
func WithReporter(reporter Reporter) Option {
	return func(t *Trainer) { t.reporters = append(t.reporters, reporter) }
}

// WithLogger sets the logger used for training progress
func WithLogger(logger logrus.FieldLogger) Option {
	return func(t *Trainer) { t.logger = logger }
}

// Trainer runs the layering loop. A Trainer is single use.
type Trainer struct {
	params    fuzzy.Params
	workers   int
	reporters []Reporter
	logger    logrus.FieldLogger

	state  State
	layers []*Layer
}

// NewTrainer creates a trainer for the given rule parameters
func NewTrainer(params fuzzy.Params, opts ...Option) *Trainer {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	t := &Trainer{params: params, logger: discard, state: Training}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current lifecycle state
func (t *Trainer) State() State { return t.state }

// Train builds a model from data. It is shorthand for NewTrainer(params, opts...).Fit(ctx, data).
func Train(ctx context.Context, data *dataset.Dataset, params fuzzy.Params, opts ...Option) (*Model, error) {
	return NewTrainer(params, opts...).Fit(ctx, data)
}

// Fit trains layers until convergence. The context is checked between layers;
// a cancelled context returns its error and no model.
func (t *Trainer) Fit(ctx context.Context, data *dataset.Dataset) (*Model, error) {
	if err := t.params.Validate(); err != nil {
		return nil, err
	}
	if data == nil || !(data.SumOfWeights() > 0) {
		return nil, ErrEmptyDataset
	}
	if t.state != Training || len(t.layers) > 0 {
		return nil, fmt.Errorf("trainer has already been used")
	}

	start := time.Now()
	builder := NewLayerBuilder(t.params, t.workers)
	class := data.ClassAttribute()
	current := data

	t.logger.WithFields(logrus.Fields{
		"instances":      data.NumInstances(),
		"attributes":     data.NumAttributes(),
		"classes":        data.NumClasses(),
		"max_attributes": t.params.MaxAttributes,
		"threshold":      t.params.Threshold,
		"alpha":          t.params.Alpha,
	}).Info("Training started")

	for t.state == Training {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training cancelled after %d layers: %w", len(t.layers), err)
		}

		layer, err := builder.Build(current)
		if err != nil {
			return nil, fmt.Errorf("failed to build layer %d: %w", len(t.layers), err)
		}
		index := len(t.layers)
		t.layers = append(t.layers, layer)

		next := Partition(layer, current)
		if converged(current, next) {
			t.state = Converged
		}

		for _, reporter := range t.reporters {
			for _, rule := range layer.Rules {
				reporter.OnRuleGrown(index, rule, class)
			}
			reporter.OnLayerBuilt(LayerEvent{
				Index:     index,
				Layer:     layer,
				Instances: current.NumInstances(),
				Weight:    current.SumOfWeights(),
				Remaining: next.NumInstances(),
				Converged: t.state == Converged,
			})
		}

		current = next
	}

	model := &Model{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Relation:  data.Schema().Relation,
		Schema:    data.Schema(),
		Params:    t.params,
		Prior:     data.Distribution(),
		Layers:    t.layers,
	}

	t.logger.WithFields(logrus.Fields{
		"model":    model.ID,
		"layers":   model.LayerCount(),
		"rules":    model.RuleCount(),
		"duration": time.Since(start),
	}).Info("Training converged")

	return model, nil
}

// converged decides whether training stops after producing next from current.
// A layer that covers nothing, an empty remainder, or a remainder without
// weight can only lead to empty or repeated layers.
func converged(current, next *dataset.Dataset) bool {
	return next.NumInstances() == current.NumInstances() ||
		next.NumInstances() == 0 ||
		!(next.SumOfWeights() > 0)
}
