// Package calibrate runs Monte-Carlo sweeps of the significance score
// against pure-background trains. The resulting tail fractions show how
// often chance alone reaches a given score decade, which is what makes
// the score interpretable as a false-positive rate.
package calibrate

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/okian/evsig/internal/domain/scoring"
	"github.com/okian/evsig/internal/domain/simulate"
	"github.com/okian/evsig/pkg/logger"
	"github.com/okian/evsig/pkg/metrics"
)

// Default sweep configuration constants.
const (
	defaultTrials   = 10000
	defaultTMax     = 1.0
	p95             = 95.0
	trialSeedStride = 2654435761 // Knuth multiplicative hash constant keeps derived seeds apart
)

// decadeThresholds are the score decades tallied per rate.
var decadeThresholds = []float64{1e1, 1e2, 1e3, 1e4, 1e5}

// Run executes the full calibration sweep described by config.
func Run(ctx context.Context, config *Config) (*Report, error) {
	if len(config.Rates) == 0 {
		return nil, ErrNoRates
	}
	if config.Trials <= 0 {
		config.Trials = defaultTrials
	}
	if config.TMax <= 0 {
		config.TMax = defaultTMax
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}

	report := &Report{
		RunID:  uuid.New().String(),
		Trials: config.Trials,
		TMax:   config.TMax,
	}
	start := time.Now()

	logger.Get().Info(ctx, "starting calibration sweep",
		logger.String("runID", report.RunID),
		logger.Int("rates", len(config.Rates)),
		logger.Int("trials", config.Trials),
		logger.Int("workers", config.Workers))

	var engineOpts []scoring.Option
	if config.Exponent > 0 {
		engineOpts = append(engineOpts, scoring.WithRateNormExponent(config.Exponent))
	}
	engine := scoring.New(engineOpts...)

	for i, rate := range config.Rates {
		rr, err := sweepRate(ctx, config, engine, rate, uint64(i))
		if err != nil {
			return nil, fmt.Errorf("rate %g: %w", rate, err)
		}
		report.Rates = append(report.Rates, *rr)

		logger.Get().Info(ctx, "rate swept",
			logger.Float64("rate", rate),
			logger.Float64("median", rr.Median),
			logger.Float64("p95", rr.P95))
	}

	report.Duration = time.Since(start)
	logger.Get().Info(ctx, "calibration sweep complete",
		logger.String("runID", report.RunID),
		logger.String("duration", report.Duration.String()))
	return report, nil
}

// sweepRate scores config.Trials background trains at one rate. Trials are
// distributed over a worker pool; each trial derives its own seed from the
// base seed so results do not depend on scheduling or worker count.
func sweepRate(ctx context.Context, config *Config, engine *scoring.Engine, rate float64, rateIndex uint64) (*RateReport, error) {
	scores := make([]float64, config.Trials)
	trialErrs := make([]error, config.Trials)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for trial := range jobs {
				scores[trial], trialErrs[trial] = runTrial(config, engine, rate, rateIndex, trial)
				metrics.RecordCalibrationTrial()
			}
		}()
	}

	for trial := 0; trial < config.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			close(jobs)
			wg.Wait()
			return nil, err
		}
		jobs <- trial
	}
	close(jobs)
	wg.Wait()

	for _, err := range trialErrs {
		if err != nil {
			return nil, err
		}
	}
	return summarize(rate, scores)
}

// runTrial simulates one background train and scores it.
func runTrial(config *Config, engine *scoring.Engine, rate float64, rateIndex uint64, trial int) (float64, error) {
	seed := config.Seed + (rateIndex*uint64(config.Trials)+uint64(trial))*trialSeedStride
	sim := simulate.New(simulate.WithSeed(seed))

	train, err := sim.Train(rate, config.TMax)
	if err != nil {
		return 0, fmt.Errorf("trial %d: %w", trial, err)
	}
	score, err := engine.Score(train, rate)
	if err != nil {
		return 0, fmt.Errorf("trial %d: %w", trial, err)
	}
	return score, nil
}

// summarize reduces one rate's scores to summary statistics and tail tallies.
func summarize(rate float64, scores []float64) (*RateReport, error) {
	mean, err := stats.Mean(scores)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	median, err := stats.Median(scores)
	if err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}
	pct, err := stats.Percentile(scores, p95)
	if err != nil {
		return nil, fmt.Errorf("percentile: %w", err)
	}
	max, err := stats.Max(scores)
	if err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}

	rr := &RateReport{
		Rate:   rate,
		Trials: len(scores),
		Mean:   mean,
		Median: median,
		P95:    pct,
		Max:    max,
	}
	for _, threshold := range decadeThresholds {
		count := 0
		for _, s := range scores {
			if s >= threshold {
				count++
			}
		}
		rr.Thresholds = append(rr.Thresholds, ThresholdTally{
			Threshold: threshold,
			Count:     count,
			Fraction:  float64(count) / float64(len(scores)),
		})
	}
	return rr, nil
}
