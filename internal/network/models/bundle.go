package models

import (
	"sort"
	"strings"
)

// StabilityLabel describes the multi-year funding trend of a recipient.
type StabilityLabel string

const (
	StabilityNew       StabilityLabel = "new"
	StabilityGrowing   StabilityLabel = "growing"
	StabilityDeclining StabilityLabel = "declining"
	StabilityStable    StabilityLabel = "stable"
	StabilitySporadic  StabilityLabel = "sporadic"
)

// YearAmount is the amount one funder gave in one fiscal year.
type YearAmount struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// FundingSource is one funder's contribution to a bundled recipient.
type FundingSource struct {
	FunderID      string       `json:"funder_id"`
	YearlyAmounts []YearAmount `json:"yearly_amounts"`
	Purposes      []string     `json:"purposes,omitempty"`
	Total         float64      `json:"total"`
}

// BundledRecipient is a recipient funded by at least the threshold number of
// distinct funders. Cluster and Stability are attached after bundling and
// never change the fields set before them.
type BundledRecipient struct {
	Key          RecipientKey    `json:"key"`
	DisplayName  string          `json:"display_name"`
	Geography    string          `json:"geography,omitempty"`
	Sources      []FundingSource `json:"sources"`
	TotalFunding float64         `json:"total_funding"`
	FunderCount  int             `json:"funder_count"`
	Cluster      string          `json:"cluster,omitempty"`
	Stability    StabilityLabel  `json:"stability,omitempty"`
	// CommonPurposes are purpose terms shared by at least two sources.
	CommonPurposes []string `json:"common_purposes,omitempty"`
}

// FunderIDs returns the funder ids in source order.
func (r *BundledRecipient) FunderIDs() []string {
	ids := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		ids = append(ids, s.FunderID)
	}
	return ids
}

// YearSeries flattens all sources into year -> summed amount.
func (r *BundledRecipient) YearSeries() map[int]float64 {
	series := make(map[int]float64)
	for _, s := range r.Sources {
		for _, ya := range s.YearlyAmounts {
			series[ya.Year] += ya.Amount
		}
	}
	return series
}

// PurposeText concatenates every purpose across sources.
func (r *BundledRecipient) PurposeText() string {
	var parts []string
	for _, s := range r.Sources {
		parts = append(parts, s.Purposes...)
	}
	return strings.Join(parts, " ")
}

// WithoutPurposes returns a copy with purpose text and the terms derived from
// it removed.
func (r BundledRecipient) WithoutPurposes() BundledRecipient {
	sources := make([]FundingSource, len(r.Sources))
	for i, s := range r.Sources {
		s.Purposes = nil
		sources[i] = s
	}
	r.Sources = sources
	r.CommonPurposes = nil
	return r
}

// FoundationOverlap is the similarity of two funders' recipient rosters.
// FunderA sorts before FunderB.
type FoundationOverlap struct {
	FunderA     string         `json:"funder_a"`
	FunderB     string         `json:"funder_b"`
	Shared      []RecipientKey `json:"shared_recipients"`
	SharedCount int            `json:"shared_count"`
	UnionCount  int            `json:"union_count"`
	Similarity  float64        `json:"similarity"`
}

// Involves reports whether funderID is one side of the pair.
func (o FoundationOverlap) Involves(funderID string) bool {
	return o.FunderA == funderID || o.FunderB == funderID
}

// Other returns the side of the pair that is not funderID.
func (o FoundationOverlap) Other(funderID string) string {
	if o.FunderA == funderID {
		return o.FunderB
	}
	return o.FunderA
}

// ThematicCluster groups recipients that share purpose keywords.
type ThematicCluster struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Keywords   []string       `json:"keywords"`
	Recipients []RecipientKey `json:"recipients"`
}

// SortKeys sorts recipient keys ascending in place.
func SortKeys(keys []RecipientKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}
