// Package service orchestrates analysis runs: validation, result caching,
// single-flight deduplication, aggregation and the pure analysis stages, plus
// relationship graph builds over the same aggregated data.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"grantnet/internal/network/aggregate"
	"grantnet/internal/network/metrics"
	"grantnet/internal/network/models"
	"grantnet/internal/network/ports"
	"grantnet/internal/network/thematic"
	"grantnet/internal/platform/config"
	dErrors "grantnet/pkg/domain-errors"
	"grantnet/pkg/platform/sentinel"
)

const (
	tracerName      = "grantnet/internal/network/service"
	defaultCacheTTL = 24 * time.Hour
)

// Service is the entry point for analyses, network builds, pathway queries and
// recommendations. It is safe for concurrent use.
type Service struct {
	grants    ports.GrantStore
	board     ports.BoardStore
	cache     ports.ResultCache
	publisher ports.ResultPublisher

	aggregator *aggregate.Aggregator
	clusterer  *thematic.Clusterer

	analysis config.Analysis
	cacheTTL time.Duration
	flight   singleflight.Group

	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
	clock    func() time.Time
	newRunID func() string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBoardStore enables person nodes in network builds.
func WithBoardStore(board ports.BoardStore) Option {
	return func(s *Service) {
		s.board = board
	}
}

// WithCache enables result caching. A non-positive ttl keeps the default.
func WithCache(cache ports.ResultCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithPublisher sends completion events for every computed run.
func WithPublisher(p ports.ResultPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithAnalysisConfig overrides the analysis tuning.
func WithAnalysisConfig(cfg config.Analysis) Option {
	return func(s *Service) {
		s.analysis = cfg
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRunIDs replaces the run id generator.
func WithRunIDs(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newRunID = next
		}
	}
}

// New constructs a Service reading grants from grants.
func New(grants ports.GrantStore, opts ...Option) (*Service, error) {
	if grants == nil {
		return nil, fmt.Errorf("grant store is required")
	}
	s := &Service{
		grants:   grants,
		analysis: config.DefaultAnalysis(),
		cacheTTL: defaultCacheTTL,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		clock:    time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.analysis.Validate(); err != nil {
		return nil, fmt.Errorf("analysis config: %w", err)
	}

	aggregator, err := aggregate.New(grants,
		aggregate.WithConfig(aggregate.Config{
			Workers:       s.analysis.Workers,
			FunderTimeout: s.analysis.FunderTimeout,
		}),
		aggregate.WithLogger(s.logger),
		aggregate.WithMetrics(s.metrics),
	)
	if err != nil {
		return nil, err
	}
	s.aggregator = aggregator

	clusterer, err := thematic.New(thematic.Config{
		MinKeywordLength: s.analysis.MinKeywordLength,
		MaxKeywords:      s.analysis.MaxKeywords,
		OverlapThreshold: s.analysis.OverlapThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("thematic config: %w", err)
	}
	s.clusterer = clusterer
	return s, nil
}

// translate maps infrastructure failures to domain errors. Coded errors pass
// through unchanged.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	var coded *dErrors.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, sentinel.ErrTimeout):
		return dErrors.Wrap(err, dErrors.CodeTimeout, op+" timed out")
	case errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, op+" cancelled")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, op+" unavailable")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, op+" not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, op+" failed")
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func failuresOrEmpty(failures []models.FunderFailure) []models.FunderFailure {
	if failures == nil {
		return []models.FunderFailure{}
	}
	return failures
}
