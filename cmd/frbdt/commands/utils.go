/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the FRBDT commands. Provides configuration loading,
logging setup, flag binding and model lookup used across all command implementations.
*/

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kleascm/frbdt/pkg/config"
	"github.com/kleascm/frbdt/pkg/logging"
	"github.com/kleascm/frbdt/pkg/ruleset"
	"github.com/kleascm/frbdt/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from defaults, the --config file, the environment
// and bound flags
func LoadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper(), viper.GetString("config"))
}

// SetupLogging creates the run logger from the log section of the configuration
func SetupLogging(cfg *config.Config) (*logging.Logger, error) {
	logCfg := cfg.Log
	return logging.NewLogger(&logCfg)
}

// BindFlags binds the named flags of cmd to viper keys. Commands bind their own
// flags when they run so that two commands may share a key.
func BindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flag)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", flag, err)
		}
	}
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// openStore opens the configured model store, or returns nil when none is configured
func openStore(cfg *config.Config) (*store.ModelStore, error) {
	if cfg.Output.StorePath == "" {
		return nil, nil
	}
	if dir := filepath.Dir(cfg.Output.StorePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return store.Open(cfg.Output.StorePath)
}

// loadModel reads a model from the store when an ID is given, otherwise from the model file
func loadModel(ctx context.Context, cfg *config.Config, modelID string) (*ruleset.Model, error) {
	if modelID == "" {
		if cfg.Output.ModelFile == "" {
			return nil, fmt.Errorf("no model file or model ID given")
		}
		return ruleset.LoadModel(cfg.Output.ModelFile)
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("model ID %q given but no store path configured", modelID)
	}
	defer st.Close()

	return st.Load(ctx, modelID)
}

// shortID returns the first eight characters of a model ID
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
