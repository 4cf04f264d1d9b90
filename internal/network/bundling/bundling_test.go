package bundling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grantnet/internal/network/aggregate"
	"grantnet/internal/network/models"
)

func resultOf(grants ...models.GrantRecord) *aggregate.Result {
	res := &aggregate.Result{
		Recipients: map[models.RecipientKey]*aggregate.Recipient{},
		Rosters:    map[string]map[models.RecipientKey]struct{}{},
	}
	for _, g := range grants {
		key := models.NameKey(g.RecipientName)
		r, ok := res.Recipients[key]
		if !ok {
			r = &aggregate.Recipient{Key: key, DisplayName: g.RecipientName}
			res.Recipients[key] = r
		}
		r.Grants = append(r.Grants, g)
		if res.Rosters[g.FunderID] == nil {
			res.Rosters[g.FunderID] = map[models.RecipientKey]struct{}{}
		}
		res.Rosters[g.FunderID][key] = struct{}{}
	}
	return res
}

func g(funder, recipient string, amount float64, year int, purpose string) models.GrantRecord {
	return models.GrantRecord{FunderID: funder, RecipientName: recipient, Amount: amount, FiscalYear: year, Purpose: purpose}
}

func TestBundleThreeFunderScenario(t *testing.T) {
	agg := resultOf(
		g("f1", "r", 10000, 2021, "literacy"),
		g("f1", "r", 10000, 2022, "literacy"),
		g("f1", "r", 10000, 2023, "literacy programs"),
		g("f2", "r", 5000, 2021, ""),
		g("f2", "r", 5000, 2022, ""),
		g("f2", "r", 5000, 2023, ""),
		g("f3", "r", 8000, 2023, "literacy"),
	)

	bundled := Bundle(agg, 2)
	require.Len(t, bundled, 1)
	r := bundled[0]
	assert.Equal(t, 3, r.FunderCount)
	assert.Equal(t, 53000.0, r.TotalFunding)
	assert.Equal(t, []string{"f1", "f2", "f3"}, r.FunderIDs())
	assert.Equal(t, map[int]float64{2021: 15000, 2022: 15000, 2023: 23000}, r.YearSeries())
	assert.Equal(t, []string{"literacy", "literacy programs"}, r.Sources[0].Purposes)
	assert.Equal(t, 30000.0, r.Sources[0].Total)
}

func TestBundleThreshold(t *testing.T) {
	agg := resultOf(
		g("f1", "solo", 1000, 2022, ""),
		g("f1", "pair", 100, 2022, ""),
		g("f2", "pair", 100, 2022, ""),
		g("f1", "repeat", 100, 2021, ""),
		g("f1", "repeat", 100, 2022, ""),
	)

	t.Run("grants from one funder count once", func(t *testing.T) {
		bundled := Bundle(agg, 2)
		require.Len(t, bundled, 1)
		assert.Equal(t, models.NameKey("pair"), bundled[0].Key)
	})

	t.Run("every bundled recipient meets the threshold", func(t *testing.T) {
		for _, threshold := range []int{1, 2, 3} {
			for _, r := range Bundle(agg, threshold) {
				assert.GreaterOrEqual(t, r.FunderCount, threshold)
			}
		}
	})

	t.Run("threshold above funder count yields empty list", func(t *testing.T) {
		bundled := Bundle(agg, 3)
		assert.NotNil(t, bundled)
		assert.Empty(t, bundled)
	})

	t.Run("nil aggregate yields empty list", func(t *testing.T) {
		assert.Empty(t, Bundle(nil, 2))
	})
}

func TestBundleOrdering(t *testing.T) {
	agg := resultOf(
		g("f1", "b", 500, 2022, ""),
		g("f2", "b", 500, 2022, ""),
		g("f1", "a", 500, 2022, ""),
		g("f2", "a", 500, 2022, ""),
		g("f1", "c", 100, 2022, ""),
		g("f2", "c", 100, 2022, ""),
		g("f3", "c", 800, 2022, ""),
		g("f1", "d", 400, 2022, ""),
		g("f2", "d", 300, 2022, ""),
		g("f3", "d", 300, 2022, ""),
	)

	bundled := Bundle(agg, 2)
	keys := make([]models.RecipientKey, 0, len(bundled))
	for _, r := range bundled {
		keys = append(keys, r.Key)
	}
	// All totals tie at 1000: funder count breaks the tie, then key.
	assert.Equal(t, []models.RecipientKey{
		models.NameKey("c"), models.NameKey("d"), models.NameKey("a"), models.NameKey("b"),
	}, keys)

	again := Bundle(agg, 2)
	assert.Equal(t, bundled, again)
}
