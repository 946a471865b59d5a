// Package numeric holds small numeric utilities that do not belong to any
// one engine.
package numeric

import "math"

// productlogCrossover is where the closed-form approximation switches from
// the small-x series fit to the asymptotic form.
const productlogCrossover = 500

// Productlog approximates the principal branch of the Lambert W function,
// the solution of w*exp(w) = x. A closed-form approximation is used instead
// of an iterative root-find; it is stable at both small and large x.
//
// Kept for analytic threshold inversion; not used on the scoring path.
func Productlog(x float64) float64 {
	if x <= productlogCrossover {
		l := math.Log(x + 1)
		return 0.665*(1+0.0195*l)*l + 0.04
	}
	return math.Log(x-4) - (1-1/math.Log(x))*math.Log(math.Log(x))
}
