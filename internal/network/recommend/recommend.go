// Package recommend suggests co-funding opportunities drawn from a funder's
// peer group.
package recommend

import (
	"cmp"
	"fmt"
	"slices"

	"grantnet/internal/network/graph"
	"grantnet/internal/network/models"
	"grantnet/internal/network/overlap"
	dErrors "grantnet/pkg/domain-errors"
)

// Input is everything one recommendation needs from a finished analysis.
type Input struct {
	Target     string
	PeerGroups []models.PeerGroup
	Rosters    map[string][]models.RecipientKey
	Overlaps   []models.FoundationOverlap
}

// Recommend lists the peers in the target's peer group that do not yet
// co-fund any recipient with the target, each with the recipients it funds.
// Peers sharing a recipient with the target are already co-funders and are
// omitted, as are peers with an empty roster. Suggestions are ranked by
// roster similarity descending, then peer id ascending. A target that was not
// analyzed is a not-found error; a target without peers gets an empty list.
func Recommend(in Input) (*models.RecommendationReport, error) {
	targetRoster, ok := in.Rosters[in.Target]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("funder %q was not analyzed", in.Target))
	}
	report := &models.RecommendationReport{
		TargetFunder:    in.Target,
		Recommendations: []models.Recommendation{},
	}

	group, ok := graph.PeerGroupOf(in.PeerGroups, in.Target)
	if !ok {
		return report, nil
	}
	report.PeerGroup = group.ID

	funded := make(map[models.RecipientKey]struct{}, len(targetRoster))
	for _, k := range targetRoster {
		funded[k] = struct{}{}
	}

	for _, peer := range group.Funders {
		if peer == in.Target {
			continue
		}
		roster := in.Rosters[peer]
		if len(roster) == 0 || coFunds(funded, roster) {
			continue
		}
		candidates := slices.Clone(roster)
		models.SortKeys(candidates)
		report.Recommendations = append(report.Recommendations, models.Recommendation{
			TargetFunder:        in.Target,
			PeerFunder:          peer,
			PeerGroup:           group.ID,
			Similarity:          overlap.Similarity(in.Overlaps, in.Target, peer),
			CandidateRecipients: candidates,
		})
	}

	slices.SortFunc(report.Recommendations, func(a, b models.Recommendation) int {
		return cmp.Or(cmp.Compare(b.Similarity, a.Similarity), cmp.Compare(a.PeerFunder, b.PeerFunder))
	})
	return report, nil
}

func coFunds(funded map[models.RecipientKey]struct{}, roster []models.RecipientKey) bool {
	for _, k := range roster {
		if _, ok := funded[k]; ok {
			return true
		}
	}
	return false
}
