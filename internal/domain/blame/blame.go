// Package blame assigns each event its multiplicative share of an
// aggregate significance metric via leave-one-out decomposition.
package blame

import (
	"fmt"
	"math"

	"github.com/okian/evsig/internal/domain/integral"
	"github.com/okian/evsig/internal/domain/poisson"
)

// Attributor decomposes aggregate scores and integrals into per-event
// contributions. Results are aligned with the input event order.
type Attributor struct {
	integ *integral.Engine
}

// New creates an attributor. The integral engine is used (and its curve
// cache shared) by IntegralBlame.
func New(integ *integral.Engine) *Attributor {
	return &Attributor{integ: integ}
}

// ScoreBlame estimates each event's contribution to the windowed
// significance score. For event i it evaluates the exceedance probability
// at every window ending in the suffix events[i:], with event i present and
// absent, and keeps the largest inverse-probability ratio. The suffix
// restriction makes this O(n) per event rather than a full nested-window
// recomputation per exclusion; it is a deliberate proxy, not an exact
// leave-one-out of Score.
//
// events must be sorted ascending. An empty train yields a nil vector.
func (a *Attributor) ScoreBlame(events []float64, rate float64) ([]float64, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return nil, fmt.Errorf("score blame: rate %v: %w", rate, poisson.ErrInvalidRate)
	}
	if len(events) == 0 {
		return nil, nil
	}
	out := make([]float64, len(events))
	for i := range events {
		without := dropIndex(events, i)
		suffix := events[i:]

		pWith, err := poisson.WindowedExceedance(events, suffix, rate, false)
		if err != nil {
			return nil, fmt.Errorf("score blame: %w", err)
		}
		pWithout, err := poisson.WindowedExceedance(without, suffix, rate, false)
		if err != nil {
			return nil, fmt.Errorf("score blame: %w", err)
		}

		best := math.Inf(-1)
		for j := range suffix {
			ratio := (1 / pWith[j]) / (1 / pWithout[j])
			if math.IsNaN(ratio) {
				return nil, fmt.Errorf("score blame: event %d window %d: %w", i, j, ErrNaN)
			}
			if ratio > best {
				best = ratio
			}
		}
		out[i] = best
	}
	return out, nil
}

// IntegralBlame estimates each event's contribution to the significance
// integral over [tMin, tMax] as the ratio of the full-train integral to the
// integral with that event removed.
//
// An empty train yields a nil vector.
func (a *Attributor) IntegralBlame(events []float64, rate, tMin, tMax float64) ([]float64, error) {
	if len(events) == 0 {
		return nil, nil
	}
	full, err := a.integ.Integrate(events, rate, tMin, tMax)
	if err != nil {
		return nil, fmt.Errorf("integral blame: %w", err)
	}
	out := make([]float64, len(events))
	for i := range events {
		loo, err := a.integ.Integrate(dropIndex(events, i), rate, tMin, tMax)
		if err != nil {
			return nil, fmt.Errorf("integral blame: %w", err)
		}
		ratio := full / loo
		if math.IsNaN(ratio) {
			return nil, fmt.Errorf("integral blame: event %d: %w", i, ErrNaN)
		}
		out[i] = ratio
	}
	return out, nil
}

// dropIndex returns a copy of events with the i-th element removed.
func dropIndex(events []float64, i int) []float64 {
	out := make([]float64, 0, len(events)-1)
	out = append(out, events[:i]...)
	out = append(out, events[i+1:]...)
	return out
}
