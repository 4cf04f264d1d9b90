package service

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"grantnet/internal/network/aggregate"
	"grantnet/internal/network/graph"
	"grantnet/internal/network/models"
	"grantnet/internal/network/normalize"
	"grantnet/internal/network/recommend"
	dErrors "grantnet/pkg/domain-errors"
)

// BuildNetwork aggregates the requested funders and returns the relationship
// graph with degree for every node, betweenness and closeness when requested,
// and funder peer groups.
func (s *Service) BuildNetwork(ctx context.Context, req models.NetworkRequest) (*models.NetworkReport, error) {
	ctx, span := s.tracer.Start(ctx, "service.BuildNetwork")
	defer span.End()

	g, failures, boardFailures, err := s.buildGraph(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, "network build failed")
		return nil, translate(err, "network build")
	}
	if boardFailures == nil {
		boardFailures = []models.OrganizationFailure{}
	}

	groups, q := g.PeerGroups()
	report := &models.NetworkReport{
		Nodes:      g.Nodes(),
		Edges:      g.Edges(),
		Metrics:    g.Metrics(req.Centrality),
		PeerGroups: groups,
		Modularity: q,
		Failures:   failuresOrEmpty(failures),

		BoardFailures: boardFailures,
	}
	span.SetAttributes(
		attribute.Int("nodes", len(report.Nodes)),
		attribute.Int("edges", len(report.Edges)),
		attribute.Int("peer_groups", len(groups)),
		attribute.Int("board_failures", len(boardFailures)),
	)
	return report, nil
}

// FindPathway returns the shortest connections between two nodes of the
// network selected by req.Network. Bare funder ids are accepted as endpoints.
// No connection is an empty result, not an error.
func (s *Service) FindPathway(ctx context.Context, req models.PathwayRequest) (*models.Pathway, error) {
	ctx, span := s.tracer.Start(ctx, "service.FindPathway")
	defer span.End()

	req.Network.FunderIDs = normalize.FunderIDs(req.Network.FunderIDs)
	req.Network.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, _, _, err := s.buildGraph(ctx, req.Network)
	if err != nil {
		span.SetStatus(codes.Error, "network build failed")
		return nil, translate(err, "pathway")
	}
	maxHops := req.MaxHops
	if maxHops == 0 {
		maxHops = s.analysis.MaxHops
	}
	pathway := g.Pathway(req.Source, req.Target, maxHops)
	span.SetAttributes(attribute.Int("paths", len(pathway.Paths)))
	return &pathway, nil
}

// Recommend analyzes the target together with the requested funders and
// suggests recipients funded by peers in the target's peer group.
func (s *Service) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendationReport, error) {
	ctx, span := s.tracer.Start(ctx, "service.Recommend")
	defer span.End()

	target := normalize.FunderID(req.TargetFunder)
	if target == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "target_funder is required")
	}
	analysisReq := req.Analysis
	analysisReq.IncludePurposes = false
	if !slices.Contains(normalize.FunderIDs(analysisReq.FunderIDs), target) {
		analysisReq.FunderIDs = append(slices.Clone(analysisReq.FunderIDs), target)
	}

	result, err := s.Analyze(ctx, analysisReq)
	if err != nil {
		return nil, err
	}

	b := graph.NewBuilder()
	b.AddRosters(result.Rosters)
	groups, _ := b.Build().PeerGroups()

	report, err := recommend.Recommend(recommend.Input{
		Target:     target,
		PeerGroups: groups,
		Rosters:    result.Rosters,
		Overlaps:   result.Overlaps,
	})
	if err != nil {
		span.SetStatus(codes.Error, "recommendation failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("recommendations", len(report.Recommendations)))
	return report, nil
}

// buildGraph returns the graph with the funders and organizations whose
// data could not be retrieved.
func (s *Service) buildGraph(ctx context.Context, req models.NetworkRequest) (*graph.Graph, []models.FunderFailure, []models.OrganizationFailure, error) {
	req.FunderIDs = normalize.FunderIDs(req.FunderIDs)
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, nil, nil, err
	}

	agg, err := s.aggregator.Aggregate(ctx, aggregate.Request{
		FunderIDs: req.FunderIDs,
		Years:     req.Years,
		Geography: req.Geography,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	b := graph.NewBuilder()
	b.AddFunding(agg)
	var boardFailures []models.OrganizationFailure
	if req.IncludeBoard && s.board != nil {
		if boardFailures, err = s.addBoard(ctx, b, agg); err != nil {
			return nil, nil, nil, err
		}
	}
	g := b.Build()
	s.metrics.ObserveGraph(len(g.Nodes()))
	return g, agg.Failures, boardFailures, nil
}

type organization struct {
	nodeID string
	lookup string
}

// addBoard fetches affiliations for every funder and recipient with the
// aggregator's concurrency bound. A failed lookup drops that organization's
// people and is returned as an OrganizationFailure, in organization order;
// cancellation aborts the build.
func (s *Service) addBoard(ctx context.Context, b *graph.Builder, agg *aggregate.Result) ([]models.OrganizationFailure, error) {
	orgs := make([]organization, 0, len(agg.Funders)+len(agg.Recipients))
	for _, funderID := range agg.Funders {
		orgs = append(orgs, organization{nodeID: graph.FunderNodeID(funderID), lookup: funderID})
	}
	for _, key := range agg.Keys() {
		orgs = append(orgs, organization{nodeID: graph.RecipientNodeID(key), lookup: key.Value()})
	}

	affiliations := make([][]models.BoardAffiliation, len(orgs))
	lookupErrs := make([]error, len(orgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.analysis.Workers)
	for i, org := range orgs {
		g.Go(func() error {
			affs, err := s.board.AffiliationsByOrganization(gctx, org.lookup)
			if err != nil {
				if isCancellation(err) && ctx.Err() != nil {
					return err
				}
				s.logger.WarnContext(gctx, "board lookup failed",
					"organization_id", org.lookup,
					"error", err,
				)
				lookupErrs[i] = err
				return nil
			}
			affiliations[i] = affs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("board lookup: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failures []models.OrganizationFailure
	fromYear, toYear := yearSpan(agg.Years)
	for i, org := range orgs {
		if err := lookupErrs[i]; err != nil {
			failures = append(failures, models.OrganizationFailure{
				OrganizationID: org.lookup,
				NodeID:         org.nodeID,
				Category:       aggregate.FailureCategoryOf(err),
				Reason:         err.Error(),
			})
			continue
		}
		b.AddAffiliations(org.nodeID, affiliations[i], fromYear, toYear)
	}
	return failures, nil
}

func yearSpan(years []int) (int, int) {
	if len(years) == 0 {
		return 0, 0
	}
	return slices.Min(years), slices.Max(years)
}
