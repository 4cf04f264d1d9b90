//go:build integration

package board_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"grantnet/internal/network/models"
	"grantnet/internal/network/store/board"
	"grantnet/pkg/testutil/containers"
)

type PostgresBoardSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *board.PostgresStore
}

func TestPostgresBoardSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresBoardSuite))
}

func (s *PostgresBoardSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = board.NewPostgres(s.postgres.DB)
}

func (s *PostgresBoardSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "board_memberships"))
}

func (s *PostgresBoardSuite) TestInsertAndLookup() {
	ctx := context.Background()
	err := s.store.Insert(ctx, []models.BoardAffiliation{
		{PersonID: "p1", PersonName: "Jane Doe", OrganizationID: "The Acme Food Bank", Role: "chair", StartYear: 2018},
		{PersonName: "Sam Roe", OrganizationID: "12-3456789", EndYear: 2020},
	})
	s.Require().NoError(err)

	got, err := s.store.AffiliationsByOrganization(ctx, "acme food bank")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("p1", got[0].PersonID)
	s.Equal("chair", got[0].Role)
	s.Equal(2018, got[0].StartYear)

	got, err = s.store.AffiliationsByOrganization(ctx, "123456789")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(2020, got[0].EndYear)
}
