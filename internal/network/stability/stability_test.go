package stability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"grantnet/internal/network/models"
)

func TestClassify(t *testing.T) {
	window := []int{2021, 2022, 2023}

	tests := []struct {
		name   string
		series map[int]float64
		window []int
		want   models.StabilityLabel
	}{
		{
			name:   "summed three funder series grows",
			series: map[int]float64{2021: 15000, 2022: 15000, 2023: 23000},
			window: window,
			want:   models.StabilityGrowing,
		},
		{
			name:   "funded only in final year is new",
			series: map[int]float64{2023: 4000},
			window: window,
			want:   models.StabilityNew,
		},
		{
			name:   "zero amounts in earlier years do not count as funded",
			series: map[int]float64{2021: 0, 2022: 0, 2023: 4000},
			window: window,
			want:   models.StabilityNew,
		},
		{
			name:   "within twenty percent is stable",
			series: map[int]float64{2021: 10000, 2023: 11500},
			window: window,
			want:   models.StabilityStable,
		},
		{
			name:   "exactly twenty percent growth is stable",
			series: map[int]float64{2021: 10000, 2022: 12000},
			window: []int{2021, 2022},
			want:   models.StabilityStable,
		},
		{
			name:   "drop of more than twenty percent declines",
			series: map[int]float64{2021: 10000, 2022: 9000, 2023: 7000},
			window: window,
			want:   models.StabilityDeclining,
		},
		{
			name:   "flat two year series is stable",
			series: map[int]float64{2021: 5000, 2022: 5000},
			window: []int{2021, 2022},
			want:   models.StabilityStable,
		},
		{
			name:   "gaps in a long window are sporadic regardless of trend",
			series: map[int]float64{2018: 1000, 2022: 9000},
			window: []int{2018, 2019, 2020, 2021, 2022},
			want:   models.StabilitySporadic,
		},
		{
			name:   "one early year in a three year window is sporadic",
			series: map[int]float64{2021: 1000},
			window: window,
			want:   models.StabilitySporadic,
		},
		{
			name:   "one early year in a two year window declines",
			series: map[int]float64{2021: 1000},
			window: []int{2021, 2022},
			want:   models.StabilityDeclining,
		},
		{
			name:   "no funding at all is sporadic",
			series: map[int]float64{},
			window: window,
			want:   models.StabilitySporadic,
		},
		{
			name:   "empty window falls back to series years",
			series: map[int]float64{2020: 100, 2021: 200},
			window: nil,
			want:   models.StabilityGrowing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.series, tt.window))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	series := map[int]float64{2019: 100, 2020: 300, 2021: 50, 2022: 400}
	window := []int{2022, 2019, 2021, 2020}
	first := Classify(series, window)
	for range 20 {
		assert.Equal(t, first, Classify(series, window))
	}
	assert.Equal(t, []int{2022, 2019, 2021, 2020}, window, "window must not be reordered in place")
}

func TestApply(t *testing.T) {
	recipients := []models.BundledRecipient{
		{
			Key: models.NameKey("r"),
			Sources: []models.FundingSource{
				{FunderID: "f1", YearlyAmounts: []models.YearAmount{{Year: 2023, Amount: 500}}},
				{FunderID: "f2", YearlyAmounts: []models.YearAmount{{Year: 2023, Amount: 700}}},
			},
		},
	}
	Apply(recipients, []int{2021, 2022, 2023})
	assert.Equal(t, models.StabilityNew, recipients[0].Stability)
}
