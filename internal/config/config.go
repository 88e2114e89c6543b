// Package config loads the solver configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/astar-hanoi/internal/telemetry"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the top-level configuration.
type Config struct {
	Puzzle  PuzzleConfig            `yaml:"puzzle"`
	Search  SearchConfig            `yaml:"search"`
	Logging telemetry.LoggingConfig `yaml:"logging"`
	Metrics telemetry.MetricsConfig `yaml:"metrics"`
	Tracing telemetry.TracingConfig `yaml:"tracing"`
	Store   StoreConfig             `yaml:"store"`
	Server  ServerConfig            `yaml:"server"`
}

// PuzzleConfig describes the classic instance to solve. Pegs are 0-based.
type PuzzleConfig struct {
	Disks int `yaml:"disks" validate:"gte=1,lte=20"`
	Pegs  int `yaml:"pegs" validate:"gte=3,lte=10"`
	From  int `yaml:"from" validate:"gte=0,ltfield=Pegs"`
	To    int `yaml:"to" validate:"gte=0,ltfield=Pegs,nefield=From"`
}

type SearchConfig struct {
	// MaxExpansions bounds each search. Zero means no limit.
	MaxExpansions int `yaml:"max_expansions" validate:"gte=0"`
}

type StoreConfig struct {
	// Path is the SQLite database file. Empty disables run recording.
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`

	// MaxDisks caps requests to the solve endpoint.
	MaxDisks int `yaml:"max_disks" validate:"gte=1,lte=20"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Puzzle: PuzzleConfig{Disks: 3, Pegs: 3, From: 0, To: 2},
		Logging: telemetry.LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Metrics: telemetry.MetricsConfig{
			Enabled:   true,
			Namespace: "hanoi",
			Path:      "/metrics",
		},
		Tracing: telemetry.TracingConfig{
			ServiceName: "hanoi",
			SampleRatio: 1,
		},
		Store: StoreConfig{Path: "hanoi.db"},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxDisks:        12,
		},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%w: %s failed on %q", ErrInvalidConfig, first.Namespace(), first.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
