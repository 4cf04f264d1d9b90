// Package cachekey derives the result cache key for an analysis request.
package cachekey

import (
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"grantnet/internal/network/models"
	pstrings "grantnet/pkg/platform/strings"
)

// version is bumped whenever the cached result shape changes.
const version = "v1"

// ForAnalysis returns a key that is equal for requests that select the same
// funders, years, threshold and geography, regardless of list order or
// duplicates. IncludePurposes does not take part: cached results always hold
// purposes.
func ForAnalysis(req models.AnalysisRequest) string {
	funders := pstrings.SortedUnique(req.FunderIDs)
	years := pstrings.SortedUniqueInts(req.Years)
	minFunders := req.MinFunders
	if minFunders == 0 {
		minFunders = models.DefaultMinFunders
	}

	var b strings.Builder
	b.WriteString(version)
	b.WriteString("|funders=")
	b.WriteString(strings.Join(funders, ","))
	b.WriteString("|years=")
	for i, y := range years {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(y))
	}
	b.WriteString("|min=")
	b.WriteString(strconv.Itoa(minFunders))
	b.WriteString("|geo=")
	b.WriteString(strings.ToLower(strings.TrimSpace(req.Geography)))

	sum := blake2b.Sum256([]byte(b.String()))
	return "analysis:" + hex.EncodeToString(sum[:])
}
