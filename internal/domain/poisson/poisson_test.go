package poisson_test

import (
	"math"
	"testing"

	poisson "github.com/okian/evsig/internal/domain/poisson"
	simulate "github.com/okian/evsig/internal/domain/simulate"
	. "github.com/smartystreets/goconvey/convey"
)

// refCDF independently sums the Poisson CDF P(X <= k) for mean lambda.
func refCDF(k int, lambda float64) float64 {
	sum := 0.0
	term := math.Exp(-lambda)
	for i := 0; i <= k; i++ {
		sum += term
		term *= lambda / float64(i+1)
	}
	return sum
}

func TestProbAtLeastN(t *testing.T) {
	Convey("Given the baseline probability model", t, func() {
		Convey("When evaluated with growing t at fixed n and rate", func() {
			times := []float64{0, 0.1, 1, 10}
			probs := make([]float64, len(times))
			for i, tt := range times {
				p, err := poisson.ProbAtLeastN(3, tt, 5)
				So(err, ShouldBeNil)
				probs[i] = p
			}

			Convey("Then the probability is non-decreasing in t", func() {
				for i := 1; i < len(probs); i++ {
					So(probs[i], ShouldBeGreaterThanOrEqualTo, probs[i-1])
				}
			})

			Convey("And t=0 is certain to stay under any count", func() {
				So(probs[0], ShouldEqual, 1.0)
			})
		})

		Convey("When evaluated with growing n at fixed t and rate", func() {
			prev := math.Inf(1)
			for n := 1; n <= 8; n++ {
				p, err := poisson.ProbAtLeastN(n, 0.5, 5)
				So(err, ShouldBeNil)
				So(p, ShouldBeLessThanOrEqualTo, prev)
				prev = p
			}
		})

		Convey("When compared against an independently summed CDF", func() {
			sim := simulate.New(simulate.WithSeed(7))
			const rate = 15.0
			for trial := 0; trial < 50; trial++ {
				ev, err := sim.TrainN(rate, 2)
				So(err, ShouldBeNil)
				got, err := poisson.ProbAtLeastN(2, ev[1], rate)
				So(err, ShouldBeNil)
				want := refCDF(1, rate*ev[1])
				So(got, ShouldAlmostEqual, want, 1e-9)
			}
		})

		Convey("When given invalid inputs", func() {
			_, err := poisson.ProbAtLeastN(3, 1, 0)
			So(err, ShouldWrap, poisson.ErrInvalidRate)

			_, err = poisson.ProbAtLeastN(3, 1, -2)
			So(err, ShouldWrap, poisson.ErrInvalidRate)

			_, err = poisson.ProbAtLeastN(0, 1, 5)
			So(err, ShouldWrap, poisson.ErrInvalidCount)

			_, err = poisson.ProbAtLeastN(3, -1, 5)
			So(err, ShouldWrap, poisson.ErrInvalidTime)
		})
	})
}

func TestWindowedExceedance(t *testing.T) {
	Convey("Given sorted event times", t, func() {
		events := []float64{0.1, 0.3, 0.5, 0.7}

		Convey("When the windows are the event times themselves", func() {
			probs, err := poisson.WindowedExceedance(events, events, 2, true)
			So(err, ShouldBeNil)
			So(probs, ShouldHaveLength, len(events))

			Convey("Then each value matches the corrected reference CDF", func() {
				for i, x := range events {
					want := 1 - refCDF(i+1, 2*(x+0.5))
					So(probs[i], ShouldAlmostEqual, want, 1e-9)
				}
			})
		})

		Convey("When selection correction is disabled", func() {
			probs, err := poisson.WindowedExceedance(events, events, 2, false)
			So(err, ShouldBeNil)
			for i, x := range events {
				want := 1 - refCDF(i+1, 2*x)
				So(probs[i], ShouldAlmostEqual, want, 1e-9)
			}
		})

		Convey("When there are no window ends", func() {
			probs, err := poisson.WindowedExceedance(events, nil, 2, true)
			So(err, ShouldBeNil)
			So(probs, ShouldBeEmpty)
		})

		Convey("When the rate is invalid", func() {
			_, err := poisson.WindowedExceedance(events, events, 0, true)
			So(err, ShouldWrap, poisson.ErrInvalidRate)
		})
	})
}
