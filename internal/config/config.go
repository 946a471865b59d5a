// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// GridResolution sets the number of grid points for the significance
	// integral. A calibration constant; see the integral engine.
	GridResolution int `koanf:"grid_resolution"`

	// CurveCacheSize caps the probability-curve LRU cache.
	CurveCacheSize int `koanf:"curve_cache_size"`

	// RateNormExponent sets the score normalization exponent.
	RateNormExponent float64 `koanf:"rate_norm_exponent"`

	// WindowTMin and WindowTMax are the default integral window bounds
	// in seconds, used when a request does not supply its own.
	WindowTMin float64 `koanf:"window_t_min"`
	WindowTMax float64 `koanf:"window_t_max"`

	// CalibrationWorkers sets the number of concurrent calibration workers.
	CalibrationWorkers int `koanf:"calibration_workers"`

	// CalibrationTrials sets the number of Monte-Carlo trials per rate.
	CalibrationTrials int `koanf:"calibration_trials"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9090",
		GridResolution:     1000,
		CurveCacheSize:     256,
		RateNormExponent:   0.5,
		WindowTMin:         0.005,
		WindowTMax:         0.3,
		CalibrationWorkers: runtime.NumCPU(),
		CalibrationTrials:  10_000,
	}
}
