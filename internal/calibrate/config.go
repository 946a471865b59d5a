package calibrate

import "time"

// Config holds configuration for a calibration run
type Config struct {
	Rates    []float64 // Background rates (Hz) to sweep
	Trials   int       // Number of simulated trains per rate
	TMax     float64   // Duration of each simulated train (s)
	Workers  int       // Number of concurrent workers
	Seed     uint64    // Base seed; trial seeds are derived from it
	Exponent float64   // Rate normalization exponent for the score engine
}

// ThresholdTally counts trains whose score reached a decade threshold.
type ThresholdTally struct {
	Threshold float64 `json:"threshold"`
	Count     int     `json:"count"`
	Fraction  float64 `json:"fraction"`
}

// RateReport summarizes score statistics for one background rate.
type RateReport struct {
	Rate       float64          `json:"rate"`
	Trials     int              `json:"trials"`
	Mean       float64          `json:"mean"`
	Median     float64          `json:"median"`
	P95        float64          `json:"p95"`
	Max        float64          `json:"max"`
	Thresholds []ThresholdTally `json:"thresholds"`
}

// Report is the result of a full calibration sweep.
type Report struct {
	RunID    string        `json:"run_id"`
	Trials   int           `json:"trials"`
	TMax     float64       `json:"t_max"`
	Duration time.Duration `json:"duration"`
	Rates    []RateReport  `json:"rates"`
}
