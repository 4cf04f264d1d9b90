// Package overlap measures how similar funders' recipient rosters are.
package overlap

import (
	"cmp"
	"slices"

	"grantnet/internal/network/models"
)

// Analyze computes the Jaccard similarity of every funder pair that co-funds
// at least one bundled recipient. Rosters are each funder's complete recipient
// set in the window, so both numerator and denominator see recipients that
// were not bundled. Results are sorted by similarity descending, then shared
// count descending, then funder ids ascending.
func Analyze(bundled []models.BundledRecipient, rosters map[string][]models.RecipientKey) []models.FoundationOverlap {
	pairs := make(map[[2]string]struct{})
	for _, r := range bundled {
		funders := r.FunderIDs()
		for i := range funders {
			for j := i + 1; j < len(funders); j++ {
				pairs[orderedPair(funders[i], funders[j])] = struct{}{}
			}
		}
	}

	sets := make(map[string]map[models.RecipientKey]struct{}, len(rosters))
	for funderID, roster := range rosters {
		set := make(map[models.RecipientKey]struct{}, len(roster))
		for _, k := range roster {
			set[k] = struct{}{}
		}
		sets[funderID] = set
	}

	out := make([]models.FoundationOverlap, 0, len(pairs))
	for pair := range pairs {
		out = append(out, Compare(pair[0], pair[1], sets[pair[0]], sets[pair[1]]))
	}
	Sort(out)
	return out
}

// Compare builds the overlap record for one pair. An empty union has
// similarity 0.
func Compare(a, b string, rosterA, rosterB map[models.RecipientKey]struct{}) models.FoundationOverlap {
	if b < a {
		a, b = b, a
		rosterA, rosterB = rosterB, rosterA
	}
	shared := make([]models.RecipientKey, 0)
	for k := range rosterA {
		if _, ok := rosterB[k]; ok {
			shared = append(shared, k)
		}
	}
	models.SortKeys(shared)

	union := len(rosterA) + len(rosterB) - len(shared)
	similarity := 0.0
	if union > 0 {
		similarity = float64(len(shared)) / float64(union)
	}
	return models.FoundationOverlap{
		FunderA:     a,
		FunderB:     b,
		Shared:      shared,
		SharedCount: len(shared),
		UnionCount:  union,
		Similarity:  similarity,
	}
}

// Sort orders overlaps by the stable output ordering.
func Sort(overlaps []models.FoundationOverlap) {
	slices.SortFunc(overlaps, func(x, y models.FoundationOverlap) int {
		return cmp.Or(
			cmp.Compare(y.Similarity, x.Similarity),
			cmp.Compare(y.SharedCount, x.SharedCount),
			cmp.Compare(x.FunderA, y.FunderA),
			cmp.Compare(x.FunderB, y.FunderB),
		)
	})
}

// Similarity returns the similarity of a and b from overlaps in either
// order, or 0 when the pair was not computed.
func Similarity(overlaps []models.FoundationOverlap, a, b string) float64 {
	pair := orderedPair(a, b)
	for _, o := range overlaps {
		if o.FunderA == pair[0] && o.FunderB == pair[1] {
			return o.Similarity
		}
	}
	return 0
}

func orderedPair(a, b string) [2]string {
	if b < a {
		return [2]string{b, a}
	}
	return [2]string{a, b}
}
