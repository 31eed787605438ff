package matching

import (
	"sort"
	"strings"

	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Scorer provides the string comparison algorithms used by fuzzy resolution
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Similarity is the score used everywhere names are compared fuzzily: the
// maximum of the plain Levenshtein ratio and the token-sorted ratio, computed
// on normalized strings. Symmetric and case-insensitive by construction.
func (s *Scorer) Similarity(a, b string) float64 {
	a = normalizers.Identifier(a)
	b = normalizers.Identifier(b)

	plain := s.Levenshtein(a, b)
	sorted := s.Levenshtein(tokenSort(a), tokenSort(b))

	if sorted > plain {
		return sorted
	}
	return plain
}

// Levenshtein calculates the Levenshtein distance between two strings
// Returns a similarity score between 0.0 and 1.0
func (s *Scorer) Levenshtein(a, b string) float64 {
	distance := s.LevenshteinDistance(a, b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance calculates the edit distance between two strings
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create two rows for dynamic programming
	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

// tokenSort rewrites a string as its whitespace-separated tokens in sorted
// order, so "Yankees NY" and "NY Yankees" compare as equal.
func tokenSort(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
