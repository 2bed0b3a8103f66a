package enrichment

import "strings"

// Similarity scores how close two strings are on a [0,1] scale.
// Equal strings (ignoring case) score 1, substring containment in either
// direction scores 0.8, everything else falls back to normalized edit
// distance over runes. Two empty strings are considered identical, and an
// empty string is contained in every other string.
func Similarity(a, b string) float64 {
	s1 := strings.ToLower(a)
	s2 := strings.ToLower(b)

	if s1 == s2 {
		return 1.0
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return 0.8
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	longer := len(r1)
	if len(r2) > longer {
		longer = len(r2)
	}
	if longer == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(r1, r2))/float64(longer)
}

// levenshtein computes the edit distance between two rune slices using a
// two-row dynamic programming table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
