// Package smoketest drives the significance service end to end: it
// simulates Poisson trains, injects bursts into a fraction of them, submits
// everything concurrently over HTTP, and checks that the returned scores
// separate burst cases from pure background.
package smoketest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/okian/evsig/pkg/logger"
)

// Run executes the complete smoke test.
func Run(ctx context.Context, config *Config) error {
	testStats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting significance smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("cases", config.NumCases),
		logger.Int("workers", config.Workers),
		logger.Float64("rate", config.Rate),
		logger.Float64("burstFraction", config.BurstFraction))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate trains
	cases, err := generateCases(ctx, config, testStats)
	if err != nil {
		return fmt.Errorf("train generation failed: %w", err)
	}

	// Step 3: Submit trains concurrently
	results, err := submitCases(ctx, config, cases, testStats)
	if err != nil {
		return fmt.Errorf("train submission failed: %w", err)
	}

	// Step 4: Verify score separation
	if err := verifyResults(ctx, results); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	testStats.EndTime = time.Now()
	testStats.Duration = testStats.EndTime.Sub(testStats.StartTime)

	logger.Get().Info(ctx, "smoke test completed successfully",
		logger.Int("submitted", testStats.CasesSubmitted),
		logger.Int("successful", testStats.CasesSuccessful),
		logger.Int("failed", testStats.CasesFailed),
		logger.String("duration", testStats.Duration.String()))
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// submitCases submits trains concurrently using a worker pool and collects
// the scores the service returns.
func submitCases(ctx context.Context, config *Config, cases []Case, testStats *Stats) ([]Result, error) {
	client := newHTTPClient(config.Timeout)
	scoreURL := config.BaseURL + "/api/v1/score"
	blameURL := config.BaseURL + "/api/v1/blame"

	var (
		submitted  int64
		successful int64
		failed     int64
	)

	results := make([]Result, len(cases))
	resultOK := make([]bool, len(cases))

	jobs := make(chan int, config.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// On cancellation the per-request context makes the HTTP
			// calls fail fast; workers keep draining so the producer
			// never blocks on a full channel.
			for i := range jobs {
				res, err := submitSingleCase(ctx, client, scoreURL, blameURL, cases[i])
				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "case failed",
							logger.String("caseID", cases[i].ID), logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&successful, 1)
				results[i] = *res
				resultOK[i] = true
			}
		}()
	}

	for i := range cases {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	testStats.CasesSubmitted = int(atomic.LoadInt64(&submitted))
	testStats.CasesSuccessful = int(atomic.LoadInt64(&successful))
	testStats.CasesFailed = int(atomic.LoadInt64(&failed))

	if testStats.CasesSuccessful == 0 {
		return nil, fmt.Errorf("no case succeeded (%d failed)", testStats.CasesFailed)
	}

	ok := make([]Result, 0, testStats.CasesSuccessful)
	for i, r := range results {
		if resultOK[i] {
			ok = append(ok, r)
		}
	}
	return ok, nil
}

// submitSingleCase scores one train and, for burst cases, also fetches the
// blame decomposition.
func submitSingleCase(ctx context.Context, client *HTTPClient, scoreURL, blameURL string, c Case) (*Result, error) {
	var scored scoreResponse
	if err := postJSON(ctx, client, scoreURL, scoreRequest{Rate: c.Rate, Events: c.Events}, &scored); err != nil {
		return nil, err
	}

	result := &Result{Case: c, Score: scored.Score}
	if !c.Burst {
		return result, nil
	}

	var blamed blameResponse
	if err := postJSON(ctx, client, blameURL, scoreRequest{Rate: c.Rate, Events: c.Events, Method: "score"}, &blamed); err != nil {
		return nil, err
	}
	result.Blame = blamed.Blame
	return result, nil
}

// postJSON posts a request and decodes a 200 response into out.
func postJSON(ctx context.Context, client *HTTPClient, url string, body, out interface{}) error {
	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return err
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}
	return unmarshalJSON(data, out)
}

// verifyResults checks that burst cases separate from background cases.
func verifyResults(ctx context.Context, results []Result) error {
	var burstScores, backgroundScores []float64
	for _, r := range results {
		if r.Case.Burst {
			burstScores = append(burstScores, r.Score)
		} else {
			backgroundScores = append(backgroundScores, r.Score)
		}
	}

	if len(burstScores) == 0 || len(backgroundScores) == 0 {
		logger.Get().Warn(ctx, "skipping separation check, need both burst and background cases",
			logger.Int("burst", len(burstScores)),
			logger.Int("background", len(backgroundScores)))
		return nil
	}

	burstMedian, err := stats.Median(burstScores)
	if err != nil {
		return fmt.Errorf("burst median: %w", err)
	}
	backgroundMedian, err := stats.Median(backgroundScores)
	if err != nil {
		return fmt.Errorf("background median: %w", err)
	}

	logger.Get().Info(ctx, "score separation",
		logger.Float64("burstMedian", burstMedian),
		logger.Float64("backgroundMedian", backgroundMedian))

	if burstMedian <= backgroundMedian {
		return fmt.Errorf("burst cases did not outscore background: burst median %g <= background median %g",
			burstMedian, backgroundMedian)
	}

	// Every burst case also got a blame vector; the injected events sit at
	// the front of the train, so the max blame should land there.
	for _, r := range results {
		if r.Case.Burst && len(r.Blame) != len(r.Case.Events) {
			return fmt.Errorf("case %s: blame length %d != train length %d",
				r.Case.ID, len(r.Blame), len(r.Case.Events))
		}
	}
	return nil
}
