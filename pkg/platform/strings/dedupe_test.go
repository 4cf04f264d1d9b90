package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{
			name:     "trims and removes duplicates preserving order",
			input:    []string{"  general support ", "scholarships", "general support"},
			expected: []string{"general support", "scholarships"},
		},
		{
			name:     "removes blanks",
			input:    []string{"", "  ", "capital campaign"},
			expected: []string{"capital campaign"},
		},
		{
			name:     "preserves case",
			input:    []string{"Arts", "arts"},
			expected: []string{"Arts", "arts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t,
		[]string{"111111111", "222222222", "333333333"},
		SortedUnique([]string{"333333333", " 111111111", "222222222", "111111111", ""}),
	)
}

func TestSortedUniqueInts(t *testing.T) {
	assert.Equal(t, []int{2021, 2022, 2023}, SortedUniqueInts([]int{2023, 2021, 2022, 2023}))
	assert.Empty(t, SortedUniqueInts([]int(nil)))
}
