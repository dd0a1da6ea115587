package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"trthcli/internal/store"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      store.Layout     `yaml:"paths" envconfig:"PATHS"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/trth.log"`
}

// ProcessingConfig tunes the batch runners.
type ProcessingConfig struct {
	Workers   int      `yaml:"workers" envconfig:"WORKERS" default:"4" validate:"min=1"`
	ChunkSize int      `yaml:"chunk_size" envconfig:"CHUNK_SIZE" default:"200000" validate:"min=1"`
	Exchanges []string `yaml:"exchanges" envconfig:"EXCHANGES" default:"NYS,NSQ" validate:"min=1"`
}

// Load loads configuration from environment variables and built-in
// defaults, then overlays the named YAML file if one is given. Keys
// present in the file win; everything else keeps its env or default
// value.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TRTH", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks structural constraints on the loaded configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q", c.Logging.Output)
	}
	return nil
}
