package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/evsig/internal/smoketest"
	"github.com/okian/evsig/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumCases      = 200
	defaultRate          = 10.0
	defaultTMax          = 1.0
	defaultBurstFraction = 0.25
	defaultBurstCount    = 6
	defaultSeed          = 1
	defaultTimeout       = 30 * time.Second
	defaultTestTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:9090", "Base URL of the service")
		numCases      = flag.Int("cases", defaultNumCases, "Number of trains to generate and submit")
		workers       = flag.Int("workers", runtime.NumCPU()*2, "Number of concurrent workers")
		rate          = flag.Float64("rate", defaultRate, "Background rate (Hz) for simulated trains")
		tMax          = flag.Float64("tmax", defaultTMax, "Duration of each simulated train (s)")
		burstFraction = flag.Float64("burst-fraction", defaultBurstFraction, "Fraction of cases with an injected burst")
		burstCount    = flag.Int("burst-count", defaultBurstCount, "Number of injected events per burst case")
		seed          = flag.Uint64("seed", defaultSeed, "Base seed for train generation")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &smoketest.Config{
		BaseURL:       *baseURL,
		NumCases:      *numCases,
		Workers:       *workers,
		Rate:          *rate,
		TMax:          *tMax,
		BurstFraction: *burstFraction,
		BurstCount:    *burstCount,
		Seed:          *seed,
		Timeout:       *timeout,
		Verbose:       *verbose,
	}

	if err := smoketest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("smoke test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
