//go:build integration

package results_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"grantnet/internal/network/models"
	"grantnet/internal/network/store/results"
	"grantnet/pkg/platform/sentinel"
	"grantnet/pkg/testutil/containers"
)

func cachedResult(runID string) *models.AnalysisResult {
	return &models.AnalysisResult{
		FundersAnalyzed: 3,
		BundledCount:    1,
		Recipients: []models.BundledRecipient{{
			Key:          models.TaxIDKey("123456789"),
			DisplayName:  "Acme",
			FunderCount:  3,
			TotalFunding: 53000,
			Stability:    models.StabilityGrowing,
		}},
		Metadata: models.RunMetadata{RunID: runID},
	}
}

// =============================================================================
// Redis
// =============================================================================

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *results.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = results.NewRedis(s.redis.Client)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.Reset(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTripAndExpiry() {
	ctx := context.Background()

	_, err := s.cache.Get(ctx, "k")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.cache.Set(ctx, "k", cachedResult("r1"), time.Second))
	got, err := s.cache.Get(ctx, "k")
	s.Require().NoError(err)
	s.Equal(cachedResult("r1"), got)

	ttl, err := s.redis.Client.TTL(ctx, "grantnet:k").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	time.Sleep(1500 * time.Millisecond)
	_, err = s.cache.Get(ctx, "k")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// =============================================================================
// Postgres
// =============================================================================

type PostgresCacheSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
}

func TestPostgresCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCacheSuite))
}

func (s *PostgresCacheSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
}

func (s *PostgresCacheSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "analysis_cache"))
}

func (s *PostgresCacheSuite) TestUpsertLastWriteWins() {
	ctx := context.Background()
	cache := results.NewPostgres(s.postgres.DB)

	s.Require().NoError(cache.Set(ctx, "k", cachedResult("r1"), time.Hour))
	s.Require().NoError(cache.Set(ctx, "k", cachedResult("r2"), time.Hour))

	got, err := cache.Get(ctx, "k")
	s.Require().NoError(err)
	s.Equal("r2", got.Metadata.RunID)
}

func (s *PostgresCacheSuite) TestExpiredEntriesAreMissesAndPurged() {
	ctx := context.Background()
	now := time.Now()
	writer := results.NewPostgres(s.postgres.DB, results.WithClock(func() time.Time { return now }))
	reader := results.NewPostgres(s.postgres.DB, results.WithClock(func() time.Time { return now.Add(2 * time.Hour) }))

	s.Require().NoError(writer.Set(ctx, "k", cachedResult("r1"), time.Hour))

	_, err := writer.Get(ctx, "k")
	s.Require().NoError(err)

	_, err = reader.Get(ctx, "k")
	s.ErrorIs(err, sentinel.ErrNotFound)

	purged, err := reader.PurgeExpired(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), purged)
}
