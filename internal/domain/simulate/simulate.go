// Package simulate generates synthetic Poisson event trains for threshold
// calibration and testing. It is independent of the scoring path.
package simulate

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/okian/evsig/internal/domain/poisson"
)

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithSeed fixes the random source for reproducible trains.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.src = rand.NewSource(seed)
	}
}

// Simulator draws homogeneous Poisson event trains from exponential
// inter-arrival intervals. Not safe for concurrent use; give each worker
// its own Simulator.
type Simulator struct {
	src rand.Source
}

// New creates a simulator. Without WithSeed the source is seeded from the
// wall clock.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		src: rand.NewSource(uint64(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Train simulates a Poisson process of the given rate over [0, tMax) and
// returns the ordered event times, possibly empty. The draw that crosses
// tMax is discarded.
func (s *Simulator) Train(rate, tMax float64) ([]float64, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return nil, fmt.Errorf("train: rate %v: %w", rate, poisson.ErrInvalidRate)
	}
	exp := distuv.Exponential{Rate: rate, Src: s.src}
	var events []float64
	t := 0.0
	for {
		t += exp.Rand()
		if t > tMax {
			return events, nil
		}
		events = append(events, t)
	}
}

// TrainN simulates a Poisson process of the given rate until n events have
// occurred and returns the ordered event times.
func (s *Simulator) TrainN(rate float64, n int) ([]float64, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return nil, fmt.Errorf("train: rate %v: %w", rate, poisson.ErrInvalidRate)
	}
	exp := distuv.Exponential{Rate: rate, Src: s.src}
	events := make([]float64, 0, n)
	t := 0.0
	for len(events) < n {
		t += exp.Rand()
		events = append(events, t)
	}
	return events, nil
}
