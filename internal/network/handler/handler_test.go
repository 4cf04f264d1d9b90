package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grantnet/internal/network/models"
	"grantnet/internal/network/service"
	"grantnet/internal/network/store/grants"
	"grantnet/pkg/testutil"
)

func newRouter(t *testing.T, opts ...Option) chi.Router {
	t.Helper()
	store := grants.NewInMemory(
		models.GrantRecord{FunderID: "f1", RecipientTaxID: "111111111", RecipientName: "Harbor Pantry", Amount: 1000, FiscalYear: 2023, Purpose: "food pantry"},
		models.GrantRecord{FunderID: "f2", RecipientTaxID: "111111111", RecipientName: "Harbor Pantry", Amount: 2000, FiscalYear: 2023, Purpose: "food pantry"},
		models.GrantRecord{FunderID: "f2", RecipientTaxID: "222222222", RecipientName: "Reading Room", Amount: 500, FiscalYear: 2023, Purpose: "literacy"},
		models.GrantRecord{FunderID: "f3", RecipientTaxID: "222222222", RecipientName: "Reading Room", Amount: 700, FiscalYear: 2023, Purpose: "literacy"},
		models.GrantRecord{FunderID: "f3", RecipientTaxID: "333333333", RecipientName: "Story Bus", Amount: 300, FiscalYear: 2023, Purpose: "mobile library"},
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(store, service.WithLogger(logger))
	require.NoError(t, err)

	r := chi.NewRouter()
	New(svc, logger, opts...).Register(r)
	return r
}

func TestHandleAnalyze(t *testing.T) {
	router := newRouter(t)

	t.Run("bundled recipients without purposes", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/analyses", models.AnalysisRequest{
			FunderIDs: []string{"f1", "f2"},
			Years:     []int{2023},
		})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)

		result := testutil.UnmarshalResponse[models.AnalysisResult](t, rr)
		assert.Equal(t, 2, result.FundersAnalyzed)
		require.Len(t, result.Recipients, 1)
		assert.Equal(t, "Harbor Pantry", result.Recipients[0].DisplayName)
		for _, src := range result.Recipients[0].Sources {
			assert.Empty(t, src.Purposes)
		}
	})

	t.Run("validation error", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/analyses", models.AnalysisRequest{Years: []int{2023}})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("explicit zero threshold", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/v1/analyses",
			`{"funder_ids": ["f1", "f2"], "years": [2023], "min_funders": 0}`)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/v1/analyses", `{"funder_ids": [`)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("unknown field", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/v1/analyses", `{"funders": ["f1"], "years": [2023]}`)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}

func TestHandleNetworkAndPathway(t *testing.T) {
	router := newRouter(t)
	network := models.NetworkRequest{FunderIDs: []string{"f1", "f2"}, Years: []int{2023}}

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/network", network))
	testutil.AssertStatusOK(t, rr)
	report := testutil.UnmarshalResponse[models.NetworkReport](t, rr)
	assert.Len(t, report.Nodes, 4)
	assert.Len(t, report.Edges, 3)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/network/pathways", models.PathwayRequest{
		Network: network,
		Source:  "f1",
		Target:  "f2",
	}))
	testutil.AssertStatusOK(t, rr)
	pathway := testutil.UnmarshalResponse[models.Pathway](t, rr)
	require.Len(t, pathway.Paths, 1)
	assert.Equal(t, []string{"funder:f1", "recipient:tax-id:111111111", "funder:f2"}, pathway.Paths[0].Nodes)
}

func TestHandleRecommend(t *testing.T) {
	router := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/recommendations", models.RecommendRequest{
		Analysis:     models.AnalysisRequest{FunderIDs: []string{"f2", "f3"}, Years: []int{2023}},
		TargetFunder: "f1",
	}))
	testutil.AssertStatusOK(t, rr)
	report := testutil.UnmarshalResponse[models.RecommendationReport](t, rr)
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, "f3", report.Recommendations[0].PeerFunder)
	assert.Equal(t, []models.RecipientKey{models.TaxIDKey("222222222"), models.TaxIDKey("333333333")}, report.Recommendations[0].CandidateRecipients)
}

func TestHandleHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := newRouter(t, WithHealthCheck("postgres", func(context.Context) error { return nil }))
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("degraded", func(t *testing.T) {
		router := newRouter(t, WithHealthCheck("redis", func(context.Context) error { return errors.New("connection refused") }))
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "status", "degraded")
	})
}
