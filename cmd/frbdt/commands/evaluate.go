/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: evaluate.go
Description: Evaluate command implementation for FRBDT. Classifies a labelled dataset with
a saved model and reports accuracy, the confusion matrix and per-class recall.
*/

package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kleascm/frbdt/pkg/dataset"
	"github.com/kleascm/frbdt/pkg/evaluation"
	"github.com/kleascm/frbdt/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunEvaluate evaluates a model on a labelled dataset
func RunEvaluate(cmd *cobra.Command, args []string) error {
	fmt.Println("🎯 FRBDT - Evaluating Model")
	fmt.Println("===========================")
	fmt.Println()

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Data.TestFile == "" {
		return fmt.Errorf("no dataset given (use --data or data.test_file)")
	}

	logger, err := SetupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logger.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	model, err := loadModel(ctx, cfg, viper.GetString("model_id"))
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	fmt.Printf("🌲 Model %s (%s): %d layers, %d rules\n", shortID(model.ID), model.Relation, model.LayerCount(), model.RuleCount())

	data, err := dataset.Load(cfg.Data.TestFile, dataset.CSVOptions{
		ClassColumn:  cfg.Data.ClassColumn,
		WeightColumn: cfg.Data.WeightColumn,
		Schema:       model.Schema,
	})
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.LogDataset(cfg.Data.TestFile, data.NumInstances(), data.NumAttributes(), data.NumClasses(), nil)

	name := strings.TrimSuffix(filepath.Base(cfg.Data.TestFile), filepath.Ext(cfg.Data.TestFile))
	result, err := evaluation.Evaluate(model, data, evaluation.Options{
		Name:     name,
		UsePrior: cfg.Train.UsePrior,
		Workers:  cfg.Train.Workers,
	})
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	logger.LogEvaluation(model.ID, name, result.Accuracy, result.Instances, nil)

	printResult(result)

	if path := viper.GetString("predictions"); path != "" {
		if err := evaluation.SavePredictions(path, model.Schema, result); err != nil {
			return err
		}
		fmt.Printf("📄 Predictions written to %s\n", path)
	}

	if cfg.Output.ReportDir != "" {
		path, err := evaluation.WriteReport(cfg.Output.ReportDir, "evaluation", model.ID, result)
		if err != nil {
			return err
		}
		fmt.Printf("📝 Report written to %s\n", path)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		err := st.RecordEvaluation(ctx, store.Evaluation{
			ModelID:   model.ID,
			Dataset:   name,
			Accuracy:  result.Accuracy,
			Instances: result.Instances,
		})
		switch {
		case errors.Is(err, store.ErrModelNotFound):
			logger.Warning("Model not in store, evaluation not recorded", map[string]interface{}{"model": model.ID})
		case err != nil:
			return err
		}
	}

	fmt.Println("\n✨ Evaluation completed!")
	return nil
}

// printResult prints accuracy, the confusion matrix and per-class recall and precision
func printResult(result *evaluation.Result) {
	fmt.Printf("📊 Accuracy: %.4f (%d/%d)\n", result.Accuracy, result.Correct, result.Instances)
	fmt.Println()
	fmt.Println("Confusion matrix (rows actual, columns predicted):")

	width := 8
	for _, c := range result.Classes {
		if len(c) > width {
			width = len(c)
		}
	}

	fmt.Printf("%*s", width, "")
	for _, c := range result.Classes {
		fmt.Printf(" %*s", width, c)
	}
	fmt.Println()
	for i, row := range result.Confusion {
		fmt.Printf("%*s", width, result.Classes[i])
		for _, n := range row {
			fmt.Printf(" %*d", width, n)
		}
		fmt.Println()
	}

	fmt.Println()
	for i, c := range result.Classes {
		fmt.Printf("  %-*s recall=%.4f precision=%.4f\n", width, c, result.Recall[i], result.Precision[i])
	}
}
