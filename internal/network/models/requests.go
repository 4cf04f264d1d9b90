package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	dErrors "grantnet/pkg/domain-errors"
	pstrings "grantnet/pkg/platform/strings"
)

const (
	// DefaultMinFunders is the bundling threshold when none is given.
	DefaultMinFunders = 2
	// DefaultMaxHops bounds pathway searches.
	DefaultMaxHops = 3

	minFiscalYear = 1900
	maxFiscalYear = 2200
)

// AnalysisRequest is the input to one bundling analysis run.
type AnalysisRequest struct {
	FunderIDs       []string `json:"funder_ids"`
	Years           []int    `json:"years"`
	MinFunders      int      `json:"min_funders,omitempty"`
	Geography       string   `json:"geography,omitempty"`
	IncludePurposes bool     `json:"include_purposes"`

	// minFundersGiven marks an explicit threshold, which is validated
	// rather than defaulted even when zero.
	minFundersGiven bool
}

// UnmarshalJSON records whether min_funders was present. Unknown fields are
// rejected.
func (r *AnalysisRequest) UnmarshalJSON(data []byte) error {
	type plain AnalysisRequest
	var raw struct {
		plain
		MinFunders *int `json:"min_funders"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*r = AnalysisRequest(raw.plain)
	if raw.MinFunders != nil {
		r.MinFunders = *raw.MinFunders
		r.minFundersGiven = true
	}
	return nil
}

// WithMinFunders returns a copy carrying an explicit threshold. Values below
// one fail validation instead of taking the default.
func (r AnalysisRequest) WithMinFunders(n int) AnalysisRequest {
	r.MinFunders = n
	r.minFundersGiven = true
	return r
}

// DefaultMinFundersTo sets the threshold to n unless one was given.
func (r *AnalysisRequest) DefaultMinFundersTo(n int) {
	if r.MinFunders == 0 && !r.minFundersGiven {
		r.MinFunders = n
	}
}

// Normalize canonicalizes list fields so equivalent requests compare equal.
// Funder ids are expected to be canonicalized by the caller beforehand.
func (r *AnalysisRequest) Normalize() {
	r.FunderIDs = pstrings.SortedUnique(r.FunderIDs)
	r.Years = pstrings.SortedUniqueInts(r.Years)
	r.Geography = strings.TrimSpace(r.Geography)
	r.DefaultMinFundersTo(DefaultMinFunders)
}

// Validate rejects requests that cannot produce a meaningful run.
func (r *AnalysisRequest) Validate() error {
	if len(r.FunderIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one funder id is required")
	}
	if err := validateYears(r.Years); err != nil {
		return err
	}
	if r.MinFunders < 1 {
		return dErrors.New(dErrors.CodeValidation, "min_funders must be at least 1")
	}
	return nil
}

func validateYears(years []int) error {
	if len(years) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one fiscal year is required")
	}
	for _, y := range years {
		if y < minFiscalYear || y > maxFiscalYear {
			return dErrors.New(dErrors.CodeValidation, "fiscal year out of range")
		}
	}
	return nil
}

// RunMetadata describes how a result was produced.
type RunMetadata struct {
	RunID      string          `json:"run_id"`
	CacheKey   string          `json:"cache_key"`
	StartedAt  time.Time       `json:"started_at"`
	ElapsedMS  int64           `json:"elapsed_ms"`
	FromCache  bool            `json:"from_cache"`
	Funders    []string        `json:"funders"`
	Years      []int           `json:"years"`
	MinFunders int             `json:"min_funders"`
	Geography  string          `json:"geography,omitempty"`
	Failures   []FunderFailure `json:"failures"`
}

// AnalysisResult is the structured output of one analysis run.
type AnalysisResult struct {
	FundersAnalyzed int                       `json:"funders_analyzed"`
	BundledCount    int                       `json:"bundled_count"`
	Recipients      []BundledRecipient        `json:"recipients"`
	Overlaps        []FoundationOverlap       `json:"overlaps"`
	Clusters        []ThematicCluster         `json:"clusters"`
	Rosters         map[string][]RecipientKey `json:"rosters"`
	Metadata        RunMetadata               `json:"metadata"`
}

// WithoutPurposes returns a shallow copy whose recipients carry no purpose text.
func (r *AnalysisResult) WithoutPurposes() *AnalysisResult {
	out := *r
	out.Recipients = make([]BundledRecipient, len(r.Recipients))
	for i, rec := range r.Recipients {
		out.Recipients[i] = rec.WithoutPurposes()
	}
	return &out
}

// NetworkRequest is the input to a relationship graph build.
type NetworkRequest struct {
	FunderIDs    []string `json:"funder_ids"`
	Years        []int    `json:"years"`
	Geography    string   `json:"geography,omitempty"`
	IncludeBoard bool     `json:"include_board"`
	Centrality   bool     `json:"centrality"`
}

// Normalize canonicalizes list fields and trims the geography.
func (r *NetworkRequest) Normalize() {
	r.FunderIDs = pstrings.SortedUnique(r.FunderIDs)
	r.Years = pstrings.SortedUniqueInts(r.Years)
	r.Geography = strings.TrimSpace(r.Geography)
}

// Validate rejects empty funder lists and invalid years.
func (r *NetworkRequest) Validate() error {
	if len(r.FunderIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one funder id is required")
	}
	return validateYears(r.Years)
}

// NetworkReport is the serialized relationship graph with its metrics.
type NetworkReport struct {
	Nodes      []NetworkNode   `json:"nodes"`
	Edges      []NetworkEdge   `json:"edges"`
	Metrics    []NodeMetrics   `json:"metrics"`
	PeerGroups []PeerGroup     `json:"peer_groups"`
	Modularity float64         `json:"modularity"`
	Failures   []FunderFailure `json:"failures"`
	// BoardFailures lists organizations whose board lookup failed.
	BoardFailures []OrganizationFailure `json:"board_failures"`
}

// PathwayRequest asks for the shortest connections between two nodes.
type PathwayRequest struct {
	Network NetworkRequest `json:"network"`
	Source  string         `json:"source"`
	Target  string         `json:"target"`
	MaxHops int            `json:"max_hops"`
}

// Validate checks the endpoints and hop budget.
func (r *PathwayRequest) Validate() error {
	if r.Source == "" || r.Target == "" {
		return dErrors.New(dErrors.CodeValidation, "source and target are required")
	}
	if r.MaxHops < 0 {
		return dErrors.New(dErrors.CodeValidation, "max_hops must not be negative")
	}
	return r.Network.Validate()
}

// RecommendRequest asks for co-funding suggestions for one funder.
type RecommendRequest struct {
	Analysis     AnalysisRequest `json:"analysis"`
	TargetFunder string          `json:"target_funder"`
}

// RecommendationReport lists ranked suggestions for the target funder.
type RecommendationReport struct {
	TargetFunder    string           `json:"target_funder"`
	PeerGroup       string           `json:"peer_group"`
	Recommendations []Recommendation `json:"recommendations"`
}
