package smoketest

import "time"

// Config holds configuration for the API smoke test
type Config struct {
	BaseURL       string        // Base URL of the service
	NumCases      int           // Number of trains to generate and submit
	Workers       int           // Number of concurrent workers
	Rate          float64       // Background rate (Hz) for simulated trains
	TMax          float64       // Duration of each simulated train (s)
	BurstFraction float64       // Fraction of cases that get an injected burst
	BurstCount    int           // Number of injected events per burst case
	Seed          uint64        // Base seed for train generation
	Timeout       time.Duration // HTTP request timeout
	Verbose       bool          // Enable verbose logging
}

// Case is one train submitted to the service.
type Case struct {
	ID     string
	Events []float64
	Rate   float64
	Burst  bool
}

// Result pairs a case with the score the service returned for it.
type Result struct {
	Case  Case
	Score float64
	Blame []float64
}

// Stats holds smoke test statistics
type Stats struct {
	CasesGenerated  int
	CasesSubmitted  int
	CasesSuccessful int
	CasesFailed     int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
