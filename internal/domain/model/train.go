// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"math"
)

// Validation error kinds for trains and windows.
var (
	ErrUnsorted      = errors.New("event times must be sorted ascending")
	ErrNegativeTime  = errors.New("event times must be nonnegative")
	ErrNotFinite     = errors.New("event times must be finite")
	ErrInvalidBounds = errors.New("window lower bound must be below upper bound")
)

// Train is an ordered sequence of event timestamps in seconds, relative to
// a fixed reference instant such as stimulus onset. Engines treat a Train
// as immutable; anything that needs to drop an element works on a copy.
type Train []float64

// Validate checks that the train is finite, nonnegative, and strictly
// sorted ascending.
func (t Train) Validate() error {
	prev := math.Inf(-1)
	for _, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNotFinite
		}
		if v < 0 {
			return ErrNegativeTime
		}
		if v <= prev {
			return ErrUnsorted
		}
		prev = v
	}
	return nil
}

// Clone returns an independent copy of the train.
func (t Train) Clone() Train {
	out := make(Train, len(t))
	copy(out, t)
	return out
}

// Window is a half-open evaluation interval for the significance integral.
type Window struct {
	TMin float64
	TMax float64
}

// Validate checks that the window bounds are finite and ordered.
func (w Window) Validate() error {
	if math.IsNaN(w.TMin) || math.IsNaN(w.TMax) || math.IsInf(w.TMin, 0) || math.IsInf(w.TMax, 0) {
		return ErrInvalidBounds
	}
	if !(w.TMin < w.TMax) {
		return ErrInvalidBounds
	}
	return nil
}
