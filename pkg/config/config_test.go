/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config_test.go
Description: Tests for configuration defaults, file and environment overrides and validation.
*/

package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/frbdt/pkg/config"
	"github.com/kleascm/frbdt/pkg/fuzzy"
	"github.com/kleascm/frbdt/pkg/logging"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, fuzzy.DefaultParams(), cfg.Params())
	assert.Equal(t, 0, cfg.Train.Workers)
	assert.False(t, cfg.Train.UsePrior)
	assert.Equal(t, "frbdt_model.json", cfg.Output.ModelFile)
	assert.Empty(t, cfg.Output.StorePath)
	assert.Equal(t, logging.LogFormatTraining, cfg.Log.Format)
	assert.Equal(t, logging.LogLevelInfo, cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frbdt.yaml")
	content := `
train:
  max_attributes: 3
  threshold: 0.75
data:
  train_file: iris-tra.dat
  class_column: species
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Train.MaxAttributes)
	assert.Equal(t, 0.75, cfg.Train.Threshold)
	assert.Equal(t, fuzzy.DefaultAlpha, cfg.Train.Alpha, "unset keys keep their defaults")
	assert.Equal(t, "iris-tra.dat", cfg.Data.TrainFile)
	assert.Equal(t, "species", cfg.Data.ClassColumn)
	assert.Equal(t, logging.LogLevelDebug, cfg.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frbdt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("train:\n  alpha: 0.5\n"), 0644))
	t.Setenv("FRBDT_TRAIN_ALPHA", "0.1")
	t.Setenv("FRBDT_OUTPUT_STORE_PATH", "models.db")

	cfg, err := config.Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Train.Alpha)
	assert.Equal(t, "models.db", cfg.Output.StorePath)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(viper.New(), "/nonexistent/frbdt.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "frbdt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("train:\n  threshold: 1.5\n"), 0644))
	_, err = config.Load(viper.New(), path)
	assert.ErrorIs(t, err, fuzzy.ErrInvalidParameter)

	v := viper.New()
	config.SetDefaults(v)
	v.Set("train.workers", -1)
	_, err = config.FromViper(v)
	assert.Error(t, err)

	v = viper.New()
	config.SetDefaults(v)
	v.Set("log.format", "xml")
	_, err = config.FromViper(v)
	assert.Error(t, err)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("train.max_attributes", 2)
	v.Set("data.weight_column", "w")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "max_attributes: 2")

	path := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	loaded, err := config.Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Train, loaded.Train)
	assert.Equal(t, cfg.Data, loaded.Data)
	assert.Equal(t, cfg.Output, loaded.Output)
}
