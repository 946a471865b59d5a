package smoketest

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/okian/evsig/internal/domain/simulate"
	"github.com/okian/evsig/pkg/logger"
)

// Burst injection constants. Injected events start shortly after stimulus
// onset and are spaced tightly enough to look like a genuine response.
const (
	burstOnset       = 0.005
	burstSpacing     = 0.002
	caseSeedStride   = 7919
	duplicateEpsilon = 1e-9
)

// generateCases builds the simulated trains to submit. Every case draws a
// fresh background train; a configured fraction additionally gets a tight
// burst of injected events, which the service should score far above the
// pure-background cases.
func generateCases(ctx context.Context, config *Config, stats *Stats) ([]Case, error) {
	logger.Get().Info(ctx, "generating simulated trains",
		logger.Int("numCases", config.NumCases),
		logger.Float64("rate", config.Rate))

	burstEvery := 0
	if config.BurstFraction > 0 {
		burstEvery = int(1.0 / config.BurstFraction)
	}

	cases := make([]Case, config.NumCases)
	for i := range cases {
		sim := simulate.New(simulate.WithSeed(config.Seed + uint64(i)*caseSeedStride))
		events, err := sim.Train(config.Rate, config.TMax)
		if err != nil {
			return nil, fmt.Errorf("failed to generate case %d: %w", i, err)
		}

		burst := burstEvery > 0 && i%burstEvery == 0
		if burst {
			events = injectBurst(events, config.BurstCount)
		}

		cases[i] = Case{
			ID:     uuid.New().String(),
			Events: events,
			Rate:   config.Rate,
			Burst:  burst,
		}
	}

	stats.CasesGenerated = len(cases)
	logger.Get().Info(ctx, "generated trains successfully", logger.Int("count", len(cases)))
	return cases, nil
}

// injectBurst splices a tight cluster of events into a background train.
// The merged train stays strictly ascending; collisions with background
// events are nudged by a sub-microsecond epsilon.
func injectBurst(background []float64, count int) []float64 {
	merged := make([]float64, 0, len(background)+count)
	merged = append(merged, background...)
	for i := 0; i < count; i++ {
		merged = append(merged, burstOnset+float64(i)*burstSpacing)
	}
	sort.Float64s(merged)
	for i := 1; i < len(merged); i++ {
		if merged[i] <= merged[i-1] {
			merged[i] = merged[i-1] + duplicateEpsilon
		}
	}
	return merged
}
