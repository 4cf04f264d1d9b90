// Package ports defines the collaborator interfaces the analysis core consumes.
// Interfaces live here because the aggregator, graph build and service all
// depend on them.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks GrantStore,BoardStore,ResultCache,ResultPublisher

import (
	"context"
	"time"

	"grantnet/internal/network/models"
)

// GrantStore reads raw grant records. One call returns every record for one
// funder in the requested years; implementations must not query per record.
// An empty geography means no geographic filter.
type GrantStore interface {
	GrantsByFunder(ctx context.Context, funderID string, years []int, geography string) ([]models.GrantRecord, error)
}

// BoardStore returns governance affiliations for an organization.
type BoardStore interface {
	AffiliationsByOrganization(ctx context.Context, organizationID string) ([]models.BoardAffiliation, error)
}

// ResultCache stores analysis output keyed by the request signature.
// Get returns sentinel.ErrNotFound on a miss or an expired entry.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.AnalysisResult, error)
	Set(ctx context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error
}

// ResultPublisher hands finished analyses to downstream consumers.
type ResultPublisher interface {
	PublishAnalysis(ctx context.Context, result *models.AnalysisResult) error
}
