// Package strings provides string slice helpers shared by the analysis pipeline.
package strings

import (
	"cmp"
	"slices"
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. First-seen order is preserved.
//
//	DedupeAndTrim([]string{"  youth arts ", "capacity", "youth arts", ""})
//	// []string{"youth arts", "capacity"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// SortedUnique trims, drops empties, dedupes and sorts ascending. It is the
// canonical form for identifier lists that feed cache keys.
func SortedUnique(values []string) []string {
	out := dedupe(values, strings.TrimSpace)
	slices.Sort(out)
	return out
}

// SortedUniqueInts dedupes and sorts integers ascending.
func SortedUniqueInts[T cmp.Ordered](values []T) []T {
	if len(values) == 0 {
		return values
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

func dedupe(values []string, norm func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = norm(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
