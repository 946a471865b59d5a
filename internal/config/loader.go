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
//  2. file (YAML) if EVSIG_CONFIG is set
//  3. env (prefix EVSIG_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("EVSIG_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: EVSIG_ADDR, EVSIG_GRID_RESOLUTION, ...
	// Map env keys like EVSIG_GRID_RESOLUTION -> grid_resolution (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("EVSIG_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "evsig_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.GridResolution < 2:
		return fmt.Errorf("%w: grid_resolution must be at least 2", ErrInvalidConfig)
	case c.CurveCacheSize <= 0:
		return fmt.Errorf("%w: curve_cache_size must be positive", ErrInvalidConfig)
	case c.RateNormExponent <= 0:
		return fmt.Errorf("%w: rate_norm_exponent must be positive", ErrInvalidConfig)
	case !(c.WindowTMin < c.WindowTMax):
		return fmt.Errorf("%w: window_t_min must be below window_t_max", ErrInvalidConfig)
	case c.CalibrationWorkers <= 0:
		return fmt.Errorf("%w: calibration_workers must be positive", ErrInvalidConfig)
	case c.CalibrationTrials <= 0:
		return fmt.Errorf("%w: calibration_trials must be positive", ErrInvalidConfig)
	}
	return nil
}
