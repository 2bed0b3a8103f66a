package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical strings", "腕時計", "腕時計", 1.0},
		{"case insensitive equality", "SEIKO", "seiko", 1.0},
		{"both empty", "", "", 1.0},
		{"substring containment", "腕時計", "時計", 0.8},
		{"substring reversed", "watch", "wristwatch", 0.8},
		{"one edit in three runes", "abc", "abd", 1.0 - 1.0/3.0},
		{"completely different", "ab", "xy", 0.0},
		{"empty versus non-empty", "", "abc", 0.8},
		{"non-empty versus empty", "abc", "", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"腕時計", "時計ベルト"},
		{"camera", "カメラ"},
		{"フィギュア", "フィギア"},
		{"", "watch"},
	}

	for _, p := range pairs {
		assert.InDelta(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), 1e-9,
			"Similarity(%q, %q) should be symmetric", p[0], p[1])
	}
}

func TestSimilarityRange(t *testing.T) {
	samples := []string{"", "時計", "腕時計レディース", "SEIKO 5", "completely unrelated text"}
	for _, a := range samples {
		for _, b := range samples {
			s := Similarity(a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestSimilarityCountsRunesNotBytes(t *testing.T) {
	// 4 runes vs 4 runes with one substitution, multi-byte runes.
	assert.InDelta(t, 0.75, Similarity("あいうえ", "あいうお"), 1e-9)
}
