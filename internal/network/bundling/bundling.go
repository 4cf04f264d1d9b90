// Package bundling identifies recipients supported by several funders at once.
package bundling

import (
	"cmp"
	"slices"

	"grantnet/internal/network/aggregate"
	"grantnet/internal/network/models"
	pstrings "grantnet/pkg/platform/strings"
)

// Bundle returns every recipient funded by at least minFunders distinct
// funders, ordered by total funding descending, then funder count
// descending, then key ascending. Each funder appears once per recipient with
// its grants summed per fiscal year.
func Bundle(agg *aggregate.Result, minFunders int) []models.BundledRecipient {
	if agg == nil {
		return []models.BundledRecipient{}
	}
	if minFunders < 1 {
		minFunders = 1
	}

	bundled := make([]models.BundledRecipient, 0)
	for _, key := range agg.Keys() {
		recipient := agg.Recipients[key]
		sources := fundingSources(recipient.Grants)
		if len(sources) < minFunders {
			continue
		}
		var total float64
		for _, s := range sources {
			total += s.Total
		}
		bundled = append(bundled, models.BundledRecipient{
			Key:          key,
			DisplayName:  recipient.DisplayName,
			Geography:    recipient.Geography,
			Sources:      sources,
			TotalFunding: total,
			FunderCount:  len(sources),
		})
	}

	Sort(bundled)
	return bundled
}

// Sort orders bundled recipients by the stable output ordering.
func Sort(recipients []models.BundledRecipient) {
	slices.SortFunc(recipients, func(a, b models.BundledRecipient) int {
		return cmp.Or(
			cmp.Compare(b.TotalFunding, a.TotalFunding),
			cmp.Compare(b.FunderCount, a.FunderCount),
			cmp.Compare(a.Key, b.Key),
		)
	})
}

func fundingSources(grants []models.GrantRecord) []models.FundingSource {
	type accumulator struct {
		byYear   map[int]float64
		purposes []string
	}
	byFunder := make(map[string]*accumulator)
	for _, g := range grants {
		acc, ok := byFunder[g.FunderID]
		if !ok {
			acc = &accumulator{byYear: make(map[int]float64)}
			byFunder[g.FunderID] = acc
		}
		acc.byYear[g.FiscalYear] += g.Amount
		if g.Purpose != "" {
			acc.purposes = append(acc.purposes, g.Purpose)
		}
	}

	funders := make([]string, 0, len(byFunder))
	for id := range byFunder {
		funders = append(funders, id)
	}
	slices.Sort(funders)

	sources := make([]models.FundingSource, 0, len(funders))
	for _, id := range funders {
		acc := byFunder[id]
		years := make([]int, 0, len(acc.byYear))
		for y := range acc.byYear {
			years = append(years, y)
		}
		slices.Sort(years)

		src := models.FundingSource{
			FunderID:      id,
			YearlyAmounts: make([]models.YearAmount, 0, len(years)),
			Purposes:      pstrings.DedupeAndTrim(acc.purposes),
		}
		for _, y := range years {
			src.YearlyAmounts = append(src.YearlyAmounts, models.YearAmount{Year: y, Amount: acc.byYear[y]})
			src.Total += acc.byYear[y]
		}
		sources = append(sources, src)
	}
	return sources
}
