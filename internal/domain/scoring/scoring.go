// Package scoring produces a scalar significance score for an event train
// against a baseline spontaneous rate.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/evsig/internal/domain/poisson"
)

// Default scoring configuration constants.
const (
	// defaultRateNormExponent divides the raw improbability by
	// rate^exponent so thresholds stay comparable across baseline rates.
	// Calibrated empirically against simulated false-positive rates, not
	// derived analytically.
	defaultRateNormExponent = 0.5
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRateNormExponent overrides the rate-normalization exponent.
// Changing it invalidates any thresholds calibrated against the default;
// validate new values with the calibration driver.
func WithRateNormExponent(exp float64) Option {
	return func(e *Engine) {
		if exp > 0 {
			e.normExponent = exp
		}
	}
}

// Engine computes significance scores. It is stateless and safe for
// concurrent use.
type Engine struct {
	normExponent float64
}

// New creates a scoring engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		normExponent: defaultRateNormExponent,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score measures how improbable it is that the given event train was
// produced by a baseline Poisson process of the given rate.
//
// For every prefix ending at the i-th event it evaluates the
// selection-corrected probability that i or more events land within
// [0, events[i]]; the minimum across prefixes identifies the single most
// improbable nested window, covering sharp onsets, delayed onsets, and
// sustained rate increases alike. The result is 1/pMin normalized by
// rate^normExponent.
//
// events must be sorted ascending. An empty train scores exactly 1.0:
// no evidence of deviation from baseline.
func (e *Engine) Score(events []float64, rate float64) (float64, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return 0, fmt.Errorf("score: rate %v: %w", rate, poisson.ErrInvalidRate)
	}
	if len(events) == 0 {
		return 1.0, nil
	}
	probs, err := poisson.WindowedExceedance(events, events, rate, true)
	if err != nil {
		return 0, fmt.Errorf("score: %w", err)
	}
	pMin := probs[0]
	for _, p := range probs[1:] {
		if p < pMin {
			pMin = p
		}
	}
	return (1 / pMin) / math.Pow(rate, e.normExponent), nil
}
