/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for FRBDT, the fuzzy rule-based decision tree
learner. Provides training, evaluation, model inspection and model store management with
configuration from files, environment and flags.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/frbdt/cmd/frbdt/commands"
	"github.com/kleascm/frbdt/pkg/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string

	// Logging configuration
	logLevel    string
	logFormat   string
	logDir      string
	logMaxFiles int
	quiet       bool

	// Output configuration
	modelFile string
	storePath string
	reportDir string
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "frbdt",
		Short: "FRBDT - Fuzzy rule-based decision tree learner",
		Long: `FRBDT learns a layered ruleset of fuzzy conjunctive rules from labelled numeric
data. Each layer holds one rule per class; instances a layer does not cover feed the
next layer, and the last layer scores everything that reaches it.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "training", "Log format (text, json, custom, training)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory (empty disables log files)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Disable console logging")
	rootCmd.PersistentFlags().StringVar(&modelFile, "model", "frbdt_model.json", "Model file to write or read")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "SQLite model store path (empty disables the store)")
	rootCmd.PersistentFlags().StringVar(&reportDir, "report-dir", "./reports", "Directory for reports and prediction files")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log.output_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log.max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log.quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("output.model_file", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("output.store_path", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("output.report_dir", rootCmd.PersistentFlags().Lookup("report-dir"))

	params := fuzzy.DefaultParams()

	// Train command
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Learn a layered fuzzy ruleset from a training set",
		Long: `Loads a CSV or KEEL training set, learns the ruleset, prints it and writes the
model file. With --test the model is also evaluated on a held-out set.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return commands.BindFlags(cmd, map[string]string{
				"train":          "data.train_file",
				"test":           "data.test_file",
				"class-column":   "data.class_column",
				"weight-column":  "data.weight_column",
				"max-attributes": "train.max_attributes",
				"threshold":      "train.threshold",
				"alpha":          "train.alpha",
				"workers":        "train.workers",
				"use-prior":      "train.use_prior",
			})
		},
		RunE: commands.RunTrain,
	}
	trainCmd.Flags().String("train", "", "Training set (.csv, .tsv, .dat)")
	trainCmd.Flags().String("test", "", "Optional test set evaluated after training")
	trainCmd.Flags().String("class-column", "", "Class column header for CSV input (default: last column)")
	trainCmd.Flags().String("weight-column", "", "Optional instance weight column for CSV input")
	trainCmd.Flags().Int("max-attributes", params.MaxAttributes, "Maximum antecedents per rule")
	trainCmd.Flags().Float64("threshold", params.Threshold, "Membership degree at which a rule covers an instance")
	trainCmd.Flags().Float64("alpha", params.Alpha, "Largest confidence drop accepted when growing a rule")
	trainCmd.Flags().Int("workers", 0, "Parallel rule growers (0 = number of CPUs)")
	trainCmd.Flags().Bool("use-prior", false, "Fall back to class priors when no rule fires")

	// Evaluate command
	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a model on a labelled dataset",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return commands.BindFlags(cmd, map[string]string{
				"data":          "data.test_file",
				"class-column":  "data.class_column",
				"weight-column": "data.weight_column",
				"model-id":      "model_id",
				"predictions":   "predictions",
				"workers":       "train.workers",
				"use-prior":     "train.use_prior",
			})
		},
		RunE: commands.RunEvaluate,
	}
	evaluateCmd.Flags().String("data", "", "Labelled dataset to classify")
	evaluateCmd.Flags().String("class-column", "", "Class column header for CSV input (default: last column)")
	evaluateCmd.Flags().String("weight-column", "", "Optional instance weight column for CSV input")
	evaluateCmd.Flags().String("model-id", "", "Load the model from the store by ID or unique prefix")
	evaluateCmd.Flags().String("predictions", "", "Write \"actual predicted\" lines to this file")
	evaluateCmd.Flags().Int("workers", 0, "Parallel classifiers (0 = number of CPUs)")
	evaluateCmd.Flags().Bool("use-prior", false, "Fall back to class priors when no rule fires")

	// Describe command
	describeCmd := &cobra.Command{
		Use:   "describe [model-id]",
		Short: "Print a model's rules",
		Args:  cobra.MaximumNArgs(1),
		RunE:  commands.RunDescribe,
	}

	// Models command
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the SQLite model store",
	}
	modelsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored models, newest first",
			Args:  cobra.NoArgs,
			RunE:  commands.RunModelsList,
		},
		&cobra.Command{
			Use:   "delete <model-id>",
			Short: "Delete a stored model and its evaluations",
			Args:  cobra.ExactArgs(1),
			RunE:  commands.RunModelsDelete,
		},
		&cobra.Command{
			Use:   "evaluations <model-id>",
			Short: "List recorded evaluations of a stored model",
			Args:  cobra.ExactArgs(1),
			RunE:  commands.RunModelsEvaluations,
		},
	)

	// Config command
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE:  commands.RunConfigShow,
	}

	// Add commands
	rootCmd.AddCommand(trainCmd, evaluateCmd, describeCmd, modelsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
