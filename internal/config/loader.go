package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GAINBOARD_CONFIG is set
//  3. env (prefix GAINBOARD_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("GAINBOARD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GAINBOARD_ADDR, GAINBOARD_DATA_FILE, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("GAINBOARD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "gainboard_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the engine cannot serve.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataSource != SourceCSV && c.DataSource != SourceSQLite:
		return fmt.Errorf("%w: data_source must be %q or %q, got %q", ErrInvalidConfig, SourceCSV, SourceSQLite, c.DataSource)
	case c.DataFile == "":
		return fmt.Errorf("%w: data_file must not be empty", ErrInvalidConfig)
	case c.CohortSize < 1:
		return fmt.Errorf("%w: cohort_size must be positive", ErrInvalidConfig)
	case c.LabelCohortSize < 0 || c.LabelCohortSize > c.CohortSize:
		return fmt.Errorf("%w: label_cohort_size must be between 0 and cohort_size", ErrInvalidConfig)
	case c.MaxCohortSize < c.CohortSize:
		return fmt.Errorf("%w: max_cohort_size must not be below cohort_size", ErrInvalidConfig)
	case c.RollingMinHours < 1 || c.RollingMaxHours < c.RollingMinHours:
		return fmt.Errorf("%w: rolling window bounds are inverted or non-positive", ErrInvalidConfig)
	case c.WindowMinHours < 1 || c.WindowMaxHours < c.WindowMinHours:
		return fmt.Errorf("%w: custom window bounds are inverted or non-positive", ErrInvalidConfig)
	}
	return nil
}
