// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/evsig/internal/domain/blame"
	"github.com/okian/evsig/internal/domain/integral"
	"github.com/okian/evsig/internal/domain/model"
	"github.com/okian/evsig/internal/domain/scoring"
	"github.com/okian/evsig/pkg/logger"
	"github.com/okian/evsig/pkg/metrics"
)

// Service bundles the significance engines behind one facade. All methods
// are synchronous, pure computations; the only shared mutable state is the
// integral engine's curve cache, which is safe for concurrent use.
type Service struct {
	scorer     *scoring.Engine
	integrator *integral.Engine
	attributor *blame.Attributor

	// Defaults applied when a caller does not supply a window.
	window model.Window

	// Engine construction parameters
	gridResolution   int
	curveCacheSize   int
	rateNormExponent float64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGridResolution sets the integral grid resolution.
func WithGridResolution(points int) Option {
	return func(s *Service) {
		if points > 1 {
			s.gridResolution = points
		}
	}
}

// WithCurveCacheSize caps the integral engine's curve cache.
func WithCurveCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.curveCacheSize = size
		}
	}
}

// WithRateNormExponent sets the score normalization exponent.
func WithRateNormExponent(exp float64) Option {
	return func(s *Service) {
		if exp > 0 {
			s.rateNormExponent = exp
		}
	}
}

// WithDefaultWindow sets the integral window used when requests omit one.
func WithDefaultWindow(tMin, tMax float64) Option {
	return func(s *Service) {
		if tMin < tMax {
			s.window = model.Window{TMin: tMin, TMax: tMax}
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates the service and its engines.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		window:           model.Window{TMin: 0.005, TMax: 0.3},
		gridResolution:   1000,
		curveCacheSize:   256,
		rateNormExponent: 0.5,
		logger:           logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.scorer = scoring.New(scoring.WithRateNormExponent(s.rateNormExponent))
	integ, err := integral.New(
		integral.WithGridResolution(s.gridResolution),
		integral.WithCacheSize(s.curveCacheSize),
	)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	s.integrator = integ
	s.attributor = blame.New(integ)
	return s, nil
}

// DefaultWindow returns the window applied when a request omits bounds.
func (s *Service) DefaultWindow() model.Window {
	return s.window
}

// Score computes the windowed significance score for a train.
func (s *Service) Score(ctx context.Context, train model.Train, rate float64) (float64, error) {
	if err := s.precheck(ctx, train); err != nil {
		metrics.RecordScoringError()
		return 0, err
	}
	start := time.Now()
	score, err := s.scorer.Score(train, rate)
	if err != nil {
		metrics.RecordScoringError()
		return 0, err
	}
	metrics.RecordScore(float64(time.Since(start).Nanoseconds()) / 1e6)
	s.logger.Debug(ctx, "score computed",
		logger.Int("events", len(train)),
		logger.Float64("rate", rate),
		logger.Float64("score", score))
	return score, nil
}

// Integral computes the significance integral for a train over the window.
func (s *Service) Integral(ctx context.Context, train model.Train, rate float64, w model.Window) (float64, error) {
	if err := s.precheck(ctx, train); err != nil {
		metrics.RecordIntegralError()
		return 0, err
	}
	if err := w.Validate(); err != nil {
		metrics.RecordIntegralError()
		return 0, err
	}
	start := time.Now()
	val, err := s.integrator.Integrate(train, rate, w.TMin, w.TMax)
	if err != nil {
		metrics.RecordIntegralError()
		return 0, err
	}
	metrics.RecordIntegral(float64(time.Since(start).Nanoseconds()) / 1e6)
	return val, nil
}

// ScoreBlame decomposes the windowed score into per-event contributions.
func (s *Service) ScoreBlame(ctx context.Context, train model.Train, rate float64) ([]float64, error) {
	if err := s.precheck(ctx, train); err != nil {
		metrics.RecordBlameError()
		return nil, err
	}
	start := time.Now()
	vec, err := s.attributor.ScoreBlame(train, rate)
	if err != nil {
		metrics.RecordBlameError()
		return nil, err
	}
	metrics.RecordBlame(float64(time.Since(start).Nanoseconds()) / 1e6)
	return vec, nil
}

// IntegralBlame decomposes the significance integral into per-event
// contributions over the window.
func (s *Service) IntegralBlame(ctx context.Context, train model.Train, rate float64, w model.Window) ([]float64, error) {
	if err := s.precheck(ctx, train); err != nil {
		metrics.RecordBlameError()
		return nil, err
	}
	if err := w.Validate(); err != nil {
		metrics.RecordBlameError()
		return nil, err
	}
	start := time.Now()
	vec, err := s.attributor.IntegralBlame(train, rate, w.TMin, w.TMax)
	if err != nil {
		metrics.RecordBlameError()
		return nil, err
	}
	metrics.RecordBlame(float64(time.Since(start).Nanoseconds()) / 1e6)
	return vec, nil
}

// PublishMetrics pushes curve-cache statistics to the metrics registry.
// Intended to be called periodically from a background updater.
func (s *Service) PublishMetrics() {
	hits, misses, size := s.integrator.CacheStats()
	metrics.UpdateCurveCache(hits, misses, size)
}

// precheck rejects cancelled contexts and malformed trains before any
// engine work.
func (s *Service) precheck(ctx context.Context, train model.Train) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if err := train.Validate(); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	return nil
}
