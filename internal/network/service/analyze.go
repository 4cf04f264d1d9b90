package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"grantnet/internal/network/aggregate"
	"grantnet/internal/network/bundling"
	"grantnet/internal/network/cachekey"
	"grantnet/internal/network/models"
	"grantnet/internal/network/normalize"
	"grantnet/internal/network/overlap"
	"grantnet/internal/network/stability"
	"grantnet/pkg/platform/sentinel"
)

// Analyze runs a bundling analysis. Identical requests are served from the
// result cache when one is configured, and at most one computation per cache
// key is in flight at a time; concurrent callers share its result. Funders
// whose grants cannot be retrieved are listed in Metadata.Failures and the
// run continues without them. If ctx is cancelled no partial result is
// returned.
func (s *Service) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.Analyze")
	defer span.End()

	req, err := s.prepareAnalysis(req)
	if err != nil {
		s.metrics.IncrementRun("rejected")
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}
	key := cachekey.ForAnalysis(req)
	span.SetAttributes(
		attribute.String("cache_key", key),
		attribute.Int("funders", len(req.FunderIDs)),
		attribute.IntSlice("years", req.Years),
	)

	result, err := s.resolve(ctx, req, key)
	if err != nil {
		s.metrics.IncrementRun("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")
		return nil, translate(err, "analysis")
	}
	span.SetAttributes(attribute.String("run_id", result.Metadata.RunID))
	if !req.IncludePurposes {
		return result.WithoutPurposes(), nil
	}
	return result, nil
}

func (s *Service) prepareAnalysis(req models.AnalysisRequest) (models.AnalysisRequest, error) {
	req.FunderIDs = normalize.FunderIDs(req.FunderIDs)
	req.DefaultMinFundersTo(s.analysis.DefaultMinFunders)
	req.Normalize()
	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

func (s *Service) resolve(ctx context.Context, req models.AnalysisRequest, key string) (*models.AnalysisResult, error) {
	if cached, ok := s.lookup(ctx, key); ok {
		s.metrics.IncrementRun("cached")
		return cached, nil
	}

	for {
		ch := s.flight.DoChan(key, func() (any, error) {
			return s.compute(ctx, req, key)
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				// The leader's caller went away; run again under our own context.
				if res.Shared && isCancellation(res.Err) && ctx.Err() == nil {
					continue
				}
				return nil, res.Err
			}
			if res.Shared {
				s.metrics.IncrementRun("shared")
			}
			return res.Val.(*models.AnalysisResult), nil
		}
	}
}

// lookup treats cache errors as misses.
func (s *Service) lookup(ctx context.Context, key string) (*models.AnalysisResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		s.metrics.IncrementCacheLookup("hit")
		cached.Metadata.FromCache = true
		return cached, true
	case errors.Is(err, sentinel.ErrNotFound):
		s.metrics.IncrementCacheLookup("miss")
	default:
		s.metrics.IncrementCacheLookup("error")
		s.logger.WarnContext(ctx, "result cache lookup failed",
			"cache_key", key,
			"error", err,
		)
	}
	return nil, false
}

func (s *Service) compute(ctx context.Context, req models.AnalysisRequest, key string) (*models.AnalysisResult, error) {
	runID := s.newRunID()
	ctx, span := s.tracer.Start(ctx, "service.compute", trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()

	start := s.clock()
	agg, err := s.aggregator.Aggregate(ctx, aggregate.Request{
		FunderIDs: req.FunderIDs,
		Years:     req.Years,
		Geography: req.Geography,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "analysis abandoned",
			"run_id", runID,
			"error", err,
		)
		return nil, err
	}

	bundled := bundling.Bundle(agg, req.MinFunders)
	stability.Apply(bundled, req.Years)
	clusters := s.clusterer.Cluster(bundled)
	s.clusterer.AnnotateCommonPurposes(bundled)
	rosters := agg.RosterLists()
	overlaps := overlap.Analyze(bundled, rosters)
	elapsed := s.clock().Sub(start)

	result := &models.AnalysisResult{
		FundersAnalyzed: len(agg.Funders),
		BundledCount:    len(bundled),
		Recipients:      bundled,
		Overlaps:        overlaps,
		Clusters:        clusters,
		Rosters:         rosters,
		Metadata: models.RunMetadata{
			RunID:      runID,
			CacheKey:   key,
			StartedAt:  start.UTC(),
			ElapsedMS:  elapsed.Milliseconds(),
			Funders:    req.FunderIDs,
			Years:      req.Years,
			MinFunders: req.MinFunders,
			Geography:  req.Geography,
			Failures:   failuresOrEmpty(agg.Failures),
		},
	}

	s.metrics.IncrementRun("computed")
	s.metrics.ObserveAnalysis(elapsed, len(bundled))
	s.logger.InfoContext(ctx, "analysis completed",
		"run_id", runID,
		"funders_analyzed", result.FundersAnalyzed,
		"bundled", result.BundledCount,
		"failures", len(result.Metadata.Failures),
		"duration_ms", result.Metadata.ElapsedMS,
	)

	s.store(ctx, key, result)
	s.publish(ctx, result)
	return result, nil
}

// store and publish failures are logged; the computed result stands.
func (s *Service) store(ctx context.Context, key string, result *models.AnalysisResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "result cache write failed",
			"run_id", result.Metadata.RunID,
			"cache_key", key,
			"error", err,
		)
	}
}

func (s *Service) publish(ctx context.Context, result *models.AnalysisResult) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAnalysis(ctx, result); err != nil {
		s.logger.ErrorContext(ctx, "completion event publish failed",
			"run_id", result.Metadata.RunID,
			"error", err,
		)
	}
}
