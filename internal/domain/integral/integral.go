// Package integral produces a continuous-time significance integral for an
// event train: a Riemann-sum estimate of the time-integral of instantaneous
// improbability across a fixed window. It complements the windowed score for
// gradual or low-spontaneous-rate regimes where no single window shows a
// sharp count jump.
package integral

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/evsig/internal/domain/poisson"
)

// Default integral configuration constants.
const (
	// defaultGridResolution is the number of grid points across
	// [tMin, tMax]. Empirically chosen; treat as a calibration constant.
	defaultGridResolution = 1000

	// defaultCacheSize bounds the number of cached probability curves.
	defaultCacheSize = 256
)

// curveKey identifies one cached probability curve. Keying by the full
// configuration, not just the event count, makes it safe to reuse one
// engine across calls with different rates or windows.
type curveKey struct {
	rate       float64
	tMin       float64
	tMax       float64
	resolution int
	count      int
}

// Engine computes significance integrals and owns a bounded
// least-recently-used cache of interval-probability curves. Safe for
// concurrent use.
type Engine struct {
	resolution int
	cacheSize  int
	cache      *lru.Cache[curveKey, []float64]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an integral engine with configuration options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		resolution: defaultGridResolution,
		cacheSize:  defaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	cache, err := lru.New[curveKey, []float64](e.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("curve cache: %w", ErrInvalidCacheSize)
	}
	e.cache = cache
	return e, nil
}

// Integrate walks the event train through [tMin, tMax] and accumulates the
// reciprocal exceedance probability of the running event count over each
// inter-event segment, scaled by the grid spacing.
//
// Events before tMin are ignored; events after tMax are clamped to tMax.
// An empty train yields the baseline-only integral with zero observed
// events. Deterministic: identical inputs return bit-identical results.
func (e *Engine) Integrate(events []float64, rate, tMin, tMax float64) (float64, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return 0, fmt.Errorf("integrate: rate %v: %w", rate, poisson.ErrInvalidRate)
	}
	if !(tMin < tMax) {
		return 0, fmt.Errorf("integrate: [%v, %v): %w", tMin, tMax, ErrInvalidWindow)
	}

	dt := (tMax - tMin) / float64(e.resolution-1)

	// Walk a clipped copy with tMax appended as the end-of-window sentinel.
	evs := make([]float64, len(events), len(events)+1)
	copy(evs, events)
	sort.Float64s(evs)
	evs = append(evs, tMax)

	var (
		tot   float64
		t     = tMin
		count int
	)
	for _, ev := range evs {
		if ev < tMin {
			continue
		}
		if ev > tMax {
			ev = tMax
		}
		i1 := int((t - tMin) / dt)
		i2 := int((ev - tMin) / dt)
		if i2 > e.resolution {
			i2 = e.resolution
		}
		curve := e.curve(count, rate, tMin, tMax)
		for _, p := range curve[i1:i2] {
			tot += 1 / p
		}
		t = ev
		count++
		if ev == tMax {
			break
		}
	}
	return tot * dt, nil
}

// curve returns the exceedance curve 1 - CDF(count; rate*x) sampled over
// the full grid, building and caching it on first use.
func (e *Engine) curve(count int, rate, tMin, tMax float64) []float64 {
	key := curveKey{rate: rate, tMin: tMin, tMax: tMax, resolution: e.resolution, count: count}
	if vals, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		return vals
	}
	e.misses.Add(1)

	dt := (tMax - tMin) / float64(e.resolution-1)
	vals := make([]float64, e.resolution)
	for i := range vals {
		vals[i] = poisson.Exceedance(count, tMin+float64(i)*dt, rate)
	}
	e.cache.Add(key, vals)
	return vals
}

// CacheStats reports cache hit and miss counts plus the number of curves
// currently retained.
func (e *Engine) CacheStats() (hits, misses uint64, size int) {
	return e.hits.Load(), e.misses.Load(), e.cache.Len()
}

// PurgeCache drops every cached curve.
func (e *Engine) PurgeCache() {
	e.cache.Purge()
}
