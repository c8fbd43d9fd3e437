/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: models.go
Description: Model store commands for FRBDT. Lists and deletes stored models, shows
recorded evaluations and prints the effective configuration.
*/

package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/kleascm/frbdt/pkg/config"
	"github.com/kleascm/frbdt/pkg/store"
	"github.com/spf13/cobra"
)

// requireStore opens the configured store or fails when none is configured
func requireStore(cfg *config.Config) (*store.ModelStore, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("no model store configured (use --store or output.store_path)")
	}
	return st, nil
}

// RunModelsList lists the stored models, newest first
func RunModelsList(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	st, err := requireStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	models, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Println("📭 No stored models")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRELATION\tCREATED\tLAYERS\tRULES\tAVG SIZE\tMAX ATTR\tTHRESHOLD\tALPHA")
	for _, m := range models {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2f\t%d\t%g\t%g\n",
			shortID(m.ID), m.Relation, m.CreatedAt.Local().Format(time.DateTime),
			m.Layers, m.Rules, m.AverageRuleSize, m.MaxAttributes, m.Threshold, m.Alpha)
	}
	return w.Flush()
}

// RunModelsDelete removes a stored model and its evaluations
func RunModelsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	st, err := requireStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	if err := st.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("🗑️  Deleted model %s\n", args[0])
	return nil
}

// RunModelsEvaluations lists the recorded evaluations of a stored model
func RunModelsEvaluations(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	st, err := requireStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	evaluations, err := st.Evaluations(ctx, args[0])
	if err != nil {
		return err
	}
	if len(evaluations) == 0 {
		fmt.Println("📭 No recorded evaluations")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATASET\tACCURACY\tINSTANCES\tRECORDED")
	for _, e := range evaluations {
		fmt.Fprintf(w, "%s\t%.4f\t%d\t%s\n", e.Dataset, e.Accuracy, e.Instances, e.RecordedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

// RunConfigShow prints the effective configuration as YAML
func RunConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg.WriteYAML(os.Stdout)
}
