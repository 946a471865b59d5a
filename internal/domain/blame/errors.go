package blame

import "errors"

// Sentinel kinds for attribution errors.
var (
	// ErrNaN reports a leave-one-out ratio that came out NaN. This is a
	// computational fault (probability indistinguishable from zero at
	// machine precision, or a logic defect), never a recoverable result.
	ErrNaN = errors.New("blame ratio is NaN")
)
