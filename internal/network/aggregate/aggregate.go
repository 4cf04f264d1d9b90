// Package aggregate retrieves grant records for a set of funders and groups
// them by canonical recipient key.
package aggregate

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"grantnet/internal/network/metrics"
	"grantnet/internal/network/models"
	"grantnet/internal/network/normalize"
	"grantnet/internal/network/ports"
	"grantnet/pkg/platform/sentinel"
)

const tracerName = "grantnet/internal/network/aggregate"

// Config bounds retrieval concurrency and per-funder latency.
type Config struct {
	Workers       int
	FunderTimeout time.Duration
}

// DefaultConfig returns the production retrieval settings.
func DefaultConfig() Config {
	return Config{
		Workers:       8,
		FunderTimeout: 10 * time.Second,
	}
}

// Request selects the grants to aggregate.
type Request struct {
	FunderIDs []string
	Years     []int
	Geography string
}

// Recipient is every grant one canonical recipient received in the window.
type Recipient struct {
	Key         models.RecipientKey
	DisplayName string
	Geography   string
	Grants      []models.GrantRecord
}

// Result is the aggregated view of one run. Rosters hold each analyzed
// funder's complete recipient set, not only bundled recipients.
type Result struct {
	Recipients map[models.RecipientKey]*Recipient
	Rosters    map[string]map[models.RecipientKey]struct{}
	Funders    []string
	Failures   []models.FunderFailure
	Years      []int
}

// Keys returns every recipient key in ascending order.
func (r *Result) Keys() []models.RecipientKey {
	keys := make([]models.RecipientKey, 0, len(r.Recipients))
	for k := range r.Recipients {
		keys = append(keys, k)
	}
	models.SortKeys(keys)
	return keys
}

// Roster returns the sorted recipient keys funded by funderID.
func (r *Result) Roster(funderID string) []models.RecipientKey {
	set := r.Rosters[funderID]
	keys := make([]models.RecipientKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	models.SortKeys(keys)
	return keys
}

// RosterLists returns every roster as a sorted slice.
func (r *Result) RosterLists() map[string][]models.RecipientKey {
	out := make(map[string][]models.RecipientKey, len(r.Rosters))
	for funderID := range r.Rosters {
		out[funderID] = r.Roster(funderID)
	}
	return out
}

// Aggregator fans grant retrieval out across funders with bounded concurrency.
type Aggregator struct {
	store   ports.GrantStore
	config  Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

func WithConfig(cfg Config) Option {
	return func(a *Aggregator) {
		if cfg.Workers > 0 {
			a.config.Workers = cfg.Workers
		}
		if cfg.FunderTimeout > 0 {
			a.config.FunderTimeout = cfg.FunderTimeout
		}
	}
}

// New constructs an Aggregator reading from store.
func New(store ports.GrantStore, opts ...Option) (*Aggregator, error) {
	if store == nil {
		return nil, fmt.Errorf("grant store is required")
	}
	a := &Aggregator{
		store:  store,
		config: DefaultConfig(),
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

type funderOutcome struct {
	records []models.GrantRecord
	failure *models.FunderFailure
}

// Aggregate retrieves each funder's grants concurrently and groups them by
// recipient key. A funder that fails or times out is recorded in
// Result.Failures and excluded. If ctx is cancelled the partial retrievals are
// discarded and ctx's error is returned.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (*Result, error) {
	ctx, span := a.tracer.Start(ctx, "aggregate.Aggregate", trace.WithAttributes(
		attribute.Int("funders", len(req.FunderIDs)),
		attribute.IntSlice("years", req.Years),
	))
	defer span.End()

	outcomes := make([]funderOutcome, len(req.FunderIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for i, funderID := range req.FunderIDs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcomes[i] = a.fetch(gctx, funderID, req)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "aggregation cancelled")
		return nil, err
	}

	result := a.merge(req, outcomes)
	span.SetAttributes(
		attribute.Int("recipients", len(result.Recipients)),
		attribute.Int("failures", len(result.Failures)),
	)
	return result, nil
}

func (a *Aggregator) fetch(ctx context.Context, funderID string, req Request) funderOutcome {
	ctx, span := a.tracer.Start(ctx, "aggregate.fetch", trace.WithAttributes(attribute.String("funder_id", funderID)))
	defer span.End()

	fctx, cancel := context.WithTimeout(ctx, a.config.FunderTimeout)
	defer cancel()

	start := time.Now()
	records, err := a.store.GrantsByFunder(fctx, funderID, req.Years, req.Geography)
	elapsed := time.Since(start)
	a.metrics.ObserveFunderFetch(err == nil, elapsed)

	if err != nil {
		failure := classifyFailure(funderID, err)
		span.SetStatus(codes.Error, string(failure.Category))
		a.metrics.IncrementFunderFailure(string(failure.Category))
		if ctx.Err() == nil {
			a.logger.WarnContext(ctx, "funder excluded from analysis",
				"funder_id", funderID,
				"category", failure.Category,
				"duration_ms", elapsed.Milliseconds(),
				"error", err,
			)
		}
		return funderOutcome{failure: &failure}
	}
	return funderOutcome{records: records}
}

func classifyFailure(funderID string, err error) models.FunderFailure {
	return models.FunderFailure{
		FunderID: funderID,
		Category: FailureCategoryOf(err),
		Reason:   err.Error(),
	}
}

// FailureCategoryOf maps a collaborator error to timeout, unavailable or error.
func FailureCategoryOf(err error) models.FailureCategory {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, sentinel.ErrTimeout):
		return models.FailureTimeout
	case errors.Is(err, sentinel.ErrUnavailable):
		return models.FailureUnavailable
	default:
		return models.FailureError
	}
}

// merge runs single-threaded in request order so output does not depend on
// which retrieval finished first.
func (a *Aggregator) merge(req Request, outcomes []funderOutcome) *Result {
	result := &Result{
		Recipients: make(map[models.RecipientKey]*Recipient),
		Rosters:    make(map[string]map[models.RecipientKey]struct{}),
		Funders:    make([]string, 0, len(req.FunderIDs)),
		Failures:   []models.FunderFailure{},
		Years:      req.Years,
	}
	inWindow := make(map[int]struct{}, len(req.Years))
	for _, y := range req.Years {
		inWindow[y] = struct{}{}
	}

	for i, funderID := range req.FunderIDs {
		out := outcomes[i]
		if out.failure != nil {
			result.Failures = append(result.Failures, *out.failure)
			continue
		}
		result.Funders = append(result.Funders, funderID)
		roster := make(map[models.RecipientKey]struct{})
		result.Rosters[funderID] = roster

		records := slices.Clone(out.records)
		slices.SortStableFunc(records, compareRecords)

		skipped := 0
		for _, rec := range records {
			if _, ok := inWindow[rec.FiscalYear]; !ok || rec.Amount < 0 {
				skipped++
				continue
			}
			rec.FunderID = funderID
			key := normalize.RecipientKey(rec.RecipientTaxID, rec.RecipientName)
			roster[key] = struct{}{}

			recipient, ok := result.Recipients[key]
			if !ok {
				recipient = &Recipient{Key: key}
				result.Recipients[key] = recipient
			}
			if recipient.DisplayName == "" {
				recipient.DisplayName = rec.RecipientName
			}
			if recipient.Geography == "" {
				recipient.Geography = rec.Geography
			}
			recipient.Grants = append(recipient.Grants, rec)
		}
		if skipped > 0 {
			a.logger.Warn("grant records outside window or negative skipped",
				"funder_id", funderID,
				"skipped", skipped,
			)
		}
	}
	return result
}

func compareRecords(x, y models.GrantRecord) int {
	return cmp.Or(
		cmp.Compare(x.FiscalYear, y.FiscalYear),
		cmp.Compare(x.RecipientTaxID, y.RecipientTaxID),
		cmp.Compare(x.RecipientName, y.RecipientName),
		cmp.Compare(x.Purpose, y.Purpose),
		cmp.Compare(x.Amount, y.Amount),
	)
}
