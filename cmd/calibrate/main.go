package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/okian/evsig/internal/calibrate"
	"github.com/okian/evsig/pkg/logger"
)

// Default sweep configuration constants.
const (
	defaultRates    = "5,10,20,50,100"
	defaultTrials   = 10000
	defaultTMax     = 1.0
	defaultSeed     = 1
	defaultExponent = 0.5
	sweepTimeout    = 30 * time.Minute
)

func main() {
	var (
		rateList = flag.String("rates", defaultRates, "Comma-separated background rates (Hz) to sweep")
		trials   = flag.Int("trials", defaultTrials, "Number of simulated trains per rate")
		tMax     = flag.Float64("tmax", defaultTMax, "Duration of each simulated train (s)")
		workers  = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		seed     = flag.Uint64("seed", defaultSeed, "Base seed for trial generation")
		exponent = flag.Float64("exponent", defaultExponent, "Rate normalization exponent")
		output   = flag.String("output", "", "Output file for the JSON report (default: stdout)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	rates, err := parseRates(*rateList)
	if err != nil {
		os.Stderr.WriteString("invalid rates: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	report, err := calibrate.Run(ctx, &calibrate.Config{
		Rates:    rates,
		Trials:   *trials,
		TMax:     *tMax,
		Workers:  *workers,
		Seed:     *seed,
		Exponent: *exponent,
	})
	if err != nil {
		os.Stderr.WriteString("calibration failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := writeReport(report, *output); err != nil {
		os.Stderr.WriteString("failed to write report: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// parseRates splits a comma-separated rate list into floats.
func parseRates(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	rates := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		rate, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

// writeReport marshals the report to the output file, or stdout when empty.
func writeReport(report *calibrate.Report, path string) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if path == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(path, out, 0600)
}
