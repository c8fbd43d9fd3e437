/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: describe.go
Description: Describe command implementation for FRBDT. Prints a saved model's metadata
and its rules layer by layer.
*/

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunDescribe prints a model from the model file or the store
func RunDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	id := viper.GetString("model_id")
	if len(args) > 0 {
		id = args[0]
	}

	model, err := loadModel(ctx, cfg, id)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	fmt.Printf("🌲 Model:      %s\n", model.ID)
	fmt.Printf("📂 Relation:   %s\n", model.Relation)
	fmt.Printf("🕐 Created:    %s\n", model.CreatedAt.Format(time.RFC3339))
	fmt.Printf("⚙️  Parameters: max_attributes=%d threshold=%g alpha=%g\n",
		model.Params.MaxAttributes, model.Params.Threshold, model.Params.Alpha)
	fmt.Printf("🏷️  Classes:    %v\n", model.ClassAttribute().Values)
	fmt.Println()

	fmt.Print(model.Describe())
	fmt.Println()
	fmt.Printf("Number of rules: %d\n", model.RuleCount())
	fmt.Printf("Average antecedents per rule: %.4f\n", model.AverageRuleSize())
	return nil
}
