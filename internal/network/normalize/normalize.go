// Package normalize derives canonical recipient and funder identities.
//
// Matching is exact on the normalized form: two names that differ after
// normalization are different entities. Tax-id keys and name keys live in
// separate tiers and are never merged, even when a later record supplies the
// missing tax id for an organization first seen by name.
package normalize

import (
	"strings"
	"unicode"

	"grantnet/internal/network/models"
)

const taxIDLength = 9

// unknownName keys records that carry neither a valid tax id nor a name.
const unknownName = "unknown"

// legalSuffixes are dropped wherever they appear as whole tokens.
var legalSuffixes = map[string]struct{}{
	"inc":          {},
	"incorporated": {},
	"corp":         {},
	"corporation":  {},
	"co":           {},
	"llc":          {},
	"ltd":          {},
	"foundation":   {},
	"fund":         {},
	"trust":        {},
}

// RecipientKey canonicalizes a (tax id, name) pair.
func RecipientKey(taxID, name string) models.RecipientKey {
	if id, ok := TaxID(taxID); ok {
		return models.TaxIDKey(id)
	}
	return models.NameKey(Name(name))
}

// TaxID strips non-digits and reports whether the result is a usable
// nine-digit, non-zero identifier.
func TaxID(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != taxIDLength {
		return "", false
	}
	if strings.Trim(digits, "0") == "" {
		return "", false
	}
	return digits, true
}

// Name lowercases, replaces punctuation with spaces, drops legal suffix
// tokens and a leading "the", and collapses whitespace.
func Name(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case r == '\'' || r == '’':
			// "children's" -> "childrens"
			return -1
		default:
			return ' '
		}
	}, raw)

	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return unknownName
	}

	kept := make([]string, 0, len(fields))
	for i, f := range fields {
		if i == 0 && f == "the" {
			continue
		}
		if _, ok := legalSuffixes[f]; ok {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		// Names made only of suffix words ("The Foundation") keep their
		// collapsed form so they still produce a stable key.
		return strings.Join(fields, " ")
	}
	return strings.Join(kept, " ")
}

// FunderID canonicalizes a funder identifier: a valid tax id is reduced to
// its digits, anything else is trimmed.
func FunderID(raw string) string {
	if id, ok := TaxID(raw); ok {
		return id
	}
	return strings.TrimSpace(raw)
}

// FunderIDs canonicalizes each identifier, dropping empties.
func FunderIDs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if id := FunderID(r); id != "" {
			out = append(out, id)
		}
	}
	return out
}
