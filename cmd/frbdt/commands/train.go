/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: train.go
Description: Train command implementation for FRBDT. Loads the training set, learns the
layered fuzzy ruleset, prints it, writes the model file and optionally stores the model
and evaluates it on the training and test sets.
*/

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kleascm/frbdt/pkg/config"
	"github.com/kleascm/frbdt/pkg/dataset"
	"github.com/kleascm/frbdt/pkg/evaluation"
	"github.com/kleascm/frbdt/pkg/logging"
	"github.com/kleascm/frbdt/pkg/ruleset"
	"github.com/kleascm/frbdt/pkg/store"
	"github.com/spf13/cobra"
)

// trainingReport is the JSON report written after a training run
type trainingReport struct {
	ModelID         string             `json:"model_id"`
	Relation        string             `json:"relation"`
	TrainFile       string             `json:"train_file"`
	TestFile        string             `json:"test_file,omitempty"`
	Layers          int                `json:"layers"`
	Rules           int                `json:"rules"`
	AverageRuleSize float64            `json:"average_rule_size"`
	Duration        string             `json:"duration"`
	Train           *evaluation.Result `json:"train"`
	Test            *evaluation.Result `json:"test,omitempty"`
}

// RunTrain executes a training run
func RunTrain(cmd *cobra.Command, args []string) error {
	fmt.Println("🌲 FRBDT - Training Fuzzy Rule-Based Decision Tree")
	fmt.Println("=================================================")
	fmt.Println()

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Data.TrainFile == "" {
		return fmt.Errorf("no training file given (use --train or data.train_file)")
	}

	logger, err := SetupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logger.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	train, err := dataset.Load(cfg.Data.TrainFile, dataset.CSVOptions{
		ClassColumn:  cfg.Data.ClassColumn,
		WeightColumn: cfg.Data.WeightColumn,
	})
	if err != nil {
		return fmt.Errorf("failed to load training set: %w", err)
	}
	logger.LogDataset(cfg.Data.TrainFile, train.NumInstances(), train.NumAttributes(), train.NumClasses(), nil)

	fmt.Printf("📂 Training set: %s (%d instances, %d attributes, %d classes)\n",
		cfg.Data.TrainFile, train.NumInstances(), train.NumAttributes(), train.NumClasses())
	fmt.Printf("⚙️  Parameters: max_attributes=%d threshold=%g alpha=%g\n",
		cfg.Train.MaxAttributes, cfg.Train.Threshold, cfg.Train.Alpha)
	fmt.Println()

	start := time.Now()
	model, err := ruleset.Train(ctx, train, cfg.Params(),
		ruleset.WithWorkers(cfg.Train.Workers),
		ruleset.WithLogger(logger.GetLogger()),
		ruleset.WithReporter(ruleset.NewLoggerReporter(logger.GetLogger())),
	)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	duration := time.Since(start)
	logger.LogTraining(model.ID, model.LayerCount(), model.RuleCount(), model.AverageRuleSize(), duration, nil)

	fmt.Print(model.Describe())
	fmt.Println()
	fmt.Printf("📏 Number of rules: %d\n", model.RuleCount())
	fmt.Printf("📐 Average antecedents per rule: %.4f\n", model.AverageRuleSize())
	fmt.Printf("⏱️  Training time: %v\n", duration)

	if cfg.Output.ModelFile != "" {
		if err := ruleset.SaveModel(cfg.Output.ModelFile, model); err != nil {
			return err
		}
		logger.LogModelSaved(model.ID, cfg.Output.ModelFile, nil)
		fmt.Printf("💾 Model written to %s\n", cfg.Output.ModelFile)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		if err := st.Save(ctx, model); err != nil {
			return err
		}
		logger.LogModelSaved(model.ID, cfg.Output.StorePath, map[string]interface{}{"store": true})
		fmt.Printf("🗄️  Model stored as %s\n", model.ID)
	}

	report := &trainingReport{
		ModelID:         model.ID,
		Relation:        model.Relation,
		TrainFile:       cfg.Data.TrainFile,
		TestFile:        cfg.Data.TestFile,
		Layers:          model.LayerCount(),
		Rules:           model.RuleCount(),
		AverageRuleSize: model.AverageRuleSize(),
		Duration:        duration.String(),
	}

	fmt.Println()
	report.Train, err = evaluateAndRecord(ctx, cfg, logger, st, model, train, "train")
	if err != nil {
		return err
	}

	if cfg.Data.TestFile != "" {
		test, err := dataset.Load(cfg.Data.TestFile, dataset.CSVOptions{
			ClassColumn:  cfg.Data.ClassColumn,
			WeightColumn: cfg.Data.WeightColumn,
			Schema:       model.Schema,
		})
		if err != nil {
			return fmt.Errorf("failed to load test set: %w", err)
		}
		logger.LogDataset(cfg.Data.TestFile, test.NumInstances(), test.NumAttributes(), test.NumClasses(), nil)

		report.Test, err = evaluateAndRecord(ctx, cfg, logger, st, model, test, "test")
		if err != nil {
			return err
		}
	}

	if cfg.Output.ReportDir != "" {
		path, err := evaluation.WriteReport(cfg.Output.ReportDir, "training", model.ID, report)
		if err != nil {
			return err
		}
		fmt.Printf("📝 Report written to %s\n", path)
	}

	fmt.Println("\n✨ Training completed!")
	return nil
}

// evaluateAndRecord evaluates model on data, prints the accuracy, writes the predictions
// file and records the result in the store when one is open
func evaluateAndRecord(ctx context.Context, cfg *config.Config, logger *logging.Logger, st *store.ModelStore,
	model *ruleset.Model, data *dataset.Dataset, name string) (*evaluation.Result, error) {
	result, err := evaluation.Evaluate(model, data, evaluation.Options{
		Name:     name,
		UsePrior: cfg.Train.UsePrior,
		Workers:  cfg.Train.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s set: %w", name, err)
	}
	logger.LogEvaluation(model.ID, name, result.Accuracy, result.Instances, nil)
	fmt.Printf("🎯 Accuracy on %s set: %.4f (%d/%d)\n", name, result.Accuracy, result.Correct, result.Instances)

	if cfg.Output.ReportDir != "" {
		path := filepath.Join(cfg.Output.ReportDir, "predictions", fmt.Sprintf("%s_%s.%s.out", model.Relation, shortID(model.ID), name))
		if err := evaluation.SavePredictions(path, model.Schema, result); err != nil {
			return nil, err
		}
	}

	if st != nil {
		if err := st.RecordEvaluation(ctx, store.Evaluation{
			ModelID:   model.ID,
			Dataset:   name,
			Accuracy:  result.Accuracy,
			Instances: result.Instances,
		}); err != nil {
			return nil, err
		}
	}

	return result, nil
}
