package models

import "strings"

const (
	taxIDKeyPrefix = "tax-id:"
	nameKeyPrefix  = "name:"
)

// RecipientKey is the canonical identity of a grant recipient within one run.
// It is either "tax-id:<9 digits>" or "name:<normalized name>"; the two tiers
// are never merged.
type RecipientKey string

// TaxIDKey builds a tax-id tier key from an already validated identifier.
func TaxIDKey(id string) RecipientKey {
	return RecipientKey(taxIDKeyPrefix + id)
}

// NameKey builds a name tier key from an already normalized name.
func NameKey(normalized string) RecipientKey {
	return RecipientKey(nameKeyPrefix + normalized)
}

func (k RecipientKey) String() string {
	return string(k)
}

// Value returns the key without its tier prefix: the tax id digits or the
// normalized name.
func (k RecipientKey) Value() string {
	s := string(k)
	if v, ok := strings.CutPrefix(s, taxIDKeyPrefix); ok {
		return v
	}
	return strings.TrimPrefix(s, nameKeyPrefix)
}

// IsTaxID reports whether the key was derived from a tax identifier.
func (k RecipientKey) IsTaxID() bool {
	return strings.HasPrefix(string(k), taxIDKeyPrefix)
}

// GrantRecord is one disbursement as read from the grant store. Records are
// immutable once loaded.
type GrantRecord struct {
	FunderID       string  `json:"funder_id" yaml:"funder_id"`
	RecipientTaxID string  `json:"recipient_tax_id,omitempty" yaml:"recipient_tax_id"`
	RecipientName  string  `json:"recipient_name" yaml:"recipient_name"`
	Amount         float64 `json:"amount" yaml:"amount"`
	FiscalYear     int     `json:"fiscal_year" yaml:"fiscal_year"`
	Purpose        string  `json:"purpose,omitempty" yaml:"purpose"`
	Geography      string  `json:"geography,omitempty" yaml:"geography"`
}

// FailureCategory classifies why a funder was excluded from a run.
type FailureCategory string

const (
	FailureTimeout     FailureCategory = "timeout"
	FailureUnavailable FailureCategory = "unavailable"
	FailureError       FailureCategory = "error"
)

// FunderFailure records a funder whose grants could not be retrieved.
type FunderFailure struct {
	FunderID string          `json:"funder_id"`
	Category FailureCategory `json:"category"`
	Reason   string          `json:"reason"`
}

// OrganizationFailure records an organization whose board memberships could
// not be retrieved. Its people are missing from the network.
type OrganizationFailure struct {
	OrganizationID string          `json:"organization_id"`
	NodeID         string          `json:"node_id"`
	Category       FailureCategory `json:"category"`
	Reason         string          `json:"reason"`
}

// BoardAffiliation links a person to an organization they govern. The
// organization id is a funder id or a recipient tax id / name.
type BoardAffiliation struct {
	PersonID       string `json:"person_id" yaml:"person_id"`
	PersonName     string `json:"person_name" yaml:"person_name"`
	OrganizationID string `json:"organization_id" yaml:"organization_id"`
	Role           string `json:"role,omitempty" yaml:"role"`
	StartYear      int    `json:"start_year,omitempty" yaml:"start_year"`
	EndYear        int    `json:"end_year,omitempty" yaml:"end_year"`
}
