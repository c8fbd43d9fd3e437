/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Configuration for FRBDT. Values come from defaults, an optional YAML/JSON/TOML
config file, FRBDT_* environment variables and bound command-line flags, in increasing
order of precedence.
*/

package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/kleascm/frbdt/pkg/fuzzy"
	"github.com/kleascm/frbdt/pkg/logging"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. FRBDT_TRAIN_ALPHA
const EnvPrefix = "FRBDT"

// Config is the complete FRBDT configuration
type Config struct {
	Train  TrainConfig          `mapstructure:"train" yaml:"train"`
	Data   DataConfig           `mapstructure:"data" yaml:"data"`
	Output OutputConfig         `mapstructure:"output" yaml:"output"`
	Log    logging.LoggerConfig `mapstructure:"log" yaml:"log"`
}

// TrainConfig holds the rule learner hyperparameters
type TrainConfig struct {
	MaxAttributes int     `mapstructure:"max_attributes" yaml:"max_attributes"`
	Threshold     float64 `mapstructure:"threshold" yaml:"threshold"`
	Alpha         float64 `mapstructure:"alpha" yaml:"alpha"`
	Workers       int     `mapstructure:"workers" yaml:"workers"` // 0 = GOMAXPROCS
	UsePrior      bool    `mapstructure:"use_prior" yaml:"use_prior"`
}

// DataConfig locates the datasets and their special columns
type DataConfig struct {
	TrainFile    string `mapstructure:"train_file" yaml:"train_file"`
	TestFile     string `mapstructure:"test_file" yaml:"test_file"`
	ClassColumn  string `mapstructure:"class_column" yaml:"class_column"`
	WeightColumn string `mapstructure:"weight_column" yaml:"weight_column"`
}

// OutputConfig controls where models and reports are written
type OutputConfig struct {
	ModelFile string `mapstructure:"model_file" yaml:"model_file"`
	ReportDir string `mapstructure:"report_dir" yaml:"report_dir"`
	StorePath string `mapstructure:"store_path" yaml:"store_path"` // empty disables the model store
}

// SetDefaults registers every key with its default value. Keys must be known to
// viper for environment overrides to apply during Unmarshal.
func SetDefaults(v *viper.Viper) {
	params := fuzzy.DefaultParams()
	v.SetDefault("train.max_attributes", params.MaxAttributes)
	v.SetDefault("train.threshold", params.Threshold)
	v.SetDefault("train.alpha", params.Alpha)
	v.SetDefault("train.workers", 0)
	v.SetDefault("train.use_prior", false)

	v.SetDefault("data.train_file", "")
	v.SetDefault("data.test_file", "")
	v.SetDefault("data.class_column", "")
	v.SetDefault("data.weight_column", "")

	v.SetDefault("output.model_file", "frbdt_model.json")
	v.SetDefault("output.report_dir", "./reports")
	v.SetDefault("output.store_path", "")

	log := logging.DefaultConfig()
	v.SetDefault("log.level", string(log.Level))
	v.SetDefault("log.format", string(log.Format))
	v.SetDefault("log.output_dir", log.OutputDir)
	v.SetDefault("log.max_files", log.MaxFiles)
	v.SetDefault("log.timestamp", log.Timestamp)
	v.SetDefault("log.caller", log.Caller)
	v.SetDefault("log.colors", log.Colors)
	v.SetDefault("log.quiet", log.Quiet)
}

// Load reads configuration into v and decodes it. An empty path skips the config file.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper decodes and validates an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Params returns the rule learner parameters
func (c *Config) Params() fuzzy.Params {
	return fuzzy.Params{
		MaxAttributes: c.Train.MaxAttributes,
		Threshold:     c.Train.Threshold,
		Alpha:         c.Train.Alpha,
	}
}

// Validate rejects configurations that cannot train or log
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("invalid train config: %w", err)
	}
	if c.Train.Workers < 0 {
		return fmt.Errorf("invalid train config: workers must not be negative")
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	return nil
}

// WriteYAML writes the configuration in the format accepted by --config
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
