// Package stability labels the multi-year funding trend of bundled recipients.
package stability

import (
	"slices"

	"grantnet/internal/network/models"
	pstrings "grantnet/pkg/platform/strings"
)

const (
	growthFactor  = 1.2
	declineFactor = 0.8

	// sporadicMinWindow is the smallest window in which gaps are judged.
	sporadicMinWindow = 3
)

// Classify labels a year -> amount series against the analyzed window.
// Only years inside the window with a positive amount count as funded. When
// window is empty the series' own years are used.
//
// Precedence: no funded year is sporadic; funding only in the most recent
// window year is new; a window of three or more years funded in fewer than
// half of them is sporadic; a single lapsed year is declining; otherwise the
// most recent funded amount is compared with the earliest.
func Classify(series map[int]float64, window []int) models.StabilityLabel {
	if len(window) == 0 {
		for y := range series {
			window = append(window, y)
		}
	}
	window = pstrings.SortedUniqueInts(window)

	funded := make([]int, 0, len(window))
	for _, y := range window {
		if series[y] > 0 {
			funded = append(funded, y)
		}
	}

	if len(funded) == 0 {
		return models.StabilitySporadic
	}
	latest := window[len(window)-1]
	if len(funded) == 1 && funded[0] == latest {
		return models.StabilityNew
	}
	if len(window) >= sporadicMinWindow && 2*len(funded) < len(window) {
		return models.StabilitySporadic
	}
	if len(funded) == 1 {
		return models.StabilityDeclining
	}

	earliest := series[funded[0]]
	recent := series[funded[len(funded)-1]]
	switch {
	case recent > earliest*growthFactor:
		return models.StabilityGrowing
	case recent < earliest*declineFactor:
		return models.StabilityDeclining
	default:
		return models.StabilityStable
	}
}

// Apply sets the Stability field of every recipient in place.
func Apply(recipients []models.BundledRecipient, window []int) {
	window = slices.Clone(window)
	for i := range recipients {
		recipients[i].Stability = Classify(recipients[i].YearSeries(), window)
	}
}
