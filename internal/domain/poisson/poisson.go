// Package poisson computes cumulative-probability quantities for a
// homogeneous Poisson process. It is the leaf probability model consumed
// by the scoring, integral, and blame engines.
package poisson

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ProbAtLeastN returns CDF(n-1; rate*t): the probability that fewer than n
// events occur by time t under a homogeneous Poisson process of the given
// rate. The n-1 shift removes double-counting when the n-th event is known
// to land exactly at t.
func ProbAtLeastN(n int, t, rate float64) (float64, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return 0, fmt.Errorf("rate %v: %w", rate, ErrInvalidRate)
	}
	if n < 1 {
		return 0, fmt.Errorf("n %d: %w", n, ErrInvalidCount)
	}
	if t < 0 || math.IsNaN(t) {
		return 0, fmt.Errorf("t %v: %w", t, ErrInvalidTime)
	}
	d := distuv.Poisson{Lambda: rate * t}
	return d.CDF(float64(n - 1)), nil
}

// Exceedance returns 1 - CDF(n; rate*t): the probability that more than n
// events occur by time t. Inputs are assumed validated by the caller.
func Exceedance(n int, t, rate float64) float64 {
	d := distuv.Poisson{Lambda: rate * t}
	return 1 - d.CDF(float64(n))
}

// WindowedExceedance evaluates, for each candidate window end x in
// windowEnds, the probability that a baseline process of the given rate
// produces more events in [0, x] than the observed count at or before x.
//
// When correctForSelection is set, the effective window is inflated by one
// mean inter-arrival period (1/rate). This compensates for the bias
// introduced when the window boundaries are themselves chosen from the
// event times being evaluated.
//
// events must be sorted ascending. An empty windowEnds yields an empty
// result; it is up to the caller to give that a meaning.
func WindowedExceedance(events, windowEnds []float64, rate float64, correctForSelection bool) ([]float64, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return nil, fmt.Errorf("rate %v: %w", rate, ErrInvalidRate)
	}
	var e float64
	if correctForSelection {
		e = 1 / rate
	}
	out := make([]float64, len(windowEnds))
	for i, x := range windowEnds {
		// Number of events at or before x. events is sorted, so this is
		// the first index whose time is strictly greater than x.
		n := sort.Search(len(events), func(j int) bool { return events[j] > x })
		d := distuv.Poisson{Lambda: rate * (x + e)}
		out[i] = 1 - d.CDF(float64(n))
	}
	return out, nil
}
