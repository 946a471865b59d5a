package calibrate

import "errors"

// ErrNoRates is returned when a sweep is requested without any rates.
var ErrNoRates = errors.New("no rates to sweep")
