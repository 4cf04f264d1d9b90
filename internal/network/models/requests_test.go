package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "grantnet/pkg/domain-errors"
)

func TestAnalysisRequestMinFunders(t *testing.T) {
	t.Run("absent threshold takes the default", func(t *testing.T) {
		var req AnalysisRequest
		require.NoError(t, json.Unmarshal([]byte(`{"funder_ids": ["f1"], "years": [2023]}`), &req))
		req.Normalize()
		assert.Equal(t, DefaultMinFunders, req.MinFunders)
		assert.NoError(t, req.Validate())
	})

	t.Run("explicit zero is rejected", func(t *testing.T) {
		var req AnalysisRequest
		require.NoError(t, json.Unmarshal([]byte(`{"funder_ids": ["f1"], "years": [2023], "min_funders": 0}`), &req))
		req.Normalize()
		assert.Equal(t, 0, req.MinFunders)
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})

	t.Run("explicit value is kept", func(t *testing.T) {
		var req AnalysisRequest
		require.NoError(t, json.Unmarshal([]byte(`{"funder_ids": ["f1"], "years": [2023], "min_funders": 3}`), &req))
		req.DefaultMinFundersTo(5)
		assert.Equal(t, 3, req.MinFunders)
	})

	t.Run("WithMinFunders marks zero as explicit", func(t *testing.T) {
		req := AnalysisRequest{FunderIDs: []string{"f1"}, Years: []int{2023}}.WithMinFunders(0)
		req.Normalize()
		assert.Error(t, req.Validate())
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		var req AnalysisRequest
		assert.Error(t, json.Unmarshal([]byte(`{"funders": ["f1"]}`), &req))
	})

	t.Run("nested in a recommend request", func(t *testing.T) {
		var req RecommendRequest
		body := `{"target_funder": "f1", "analysis": {"funder_ids": ["f1"], "years": [2023], "min_funders": 0}}`
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		req.Analysis.Normalize()
		assert.Error(t, req.Analysis.Validate())
	})
}

func TestNormalizeTrimsGeography(t *testing.T) {
	analysis := AnalysisRequest{FunderIDs: []string{"f1"}, Years: []int{2023}, Geography: "  WA \t"}
	analysis.Normalize()
	assert.Equal(t, "WA", analysis.Geography)

	network := NetworkRequest{FunderIDs: []string{"f1"}, Years: []int{2023}, Geography: " OR "}
	network.Normalize()
	assert.Equal(t, "OR", network.Geography)
}
