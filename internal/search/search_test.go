package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		max  int
		want int
	}{
		{"", "", 2, 0},
		{"abc", "abc", 2, 0},
		{"incepton", "inception", 2, 1},
		{"kitten", "sitting", 3, 3},
		{"kitten", "sitting", 2, 3},
		{"a", "abcdef", 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance([]rune(tt.a), []rune(tt.b), tt.max))
		})
	}
}

func TestFuzzyMatch(t *testing.T) {
	assert.True(t, FuzzyMatch("incepton", "inception", 1, 3))
	assert.True(t, FuzzyMatch("matrx", "matrix", 2, 1))
	assert.False(t, FuzzyMatch("xnception", "inception", 2, 1), "prefix must match exactly")
	assert.False(t, FuzzyMatch("dune", "dunkirk", 1, 3))
	assert.True(t, FuzzyMatch("it", "it", 1, 3))
	assert.False(t, FuzzyMatch("it", "is", 1, 3))
}

func TestScoreRanksTypoAboveUnrelated(t *testing.T) {
	inception, ok := Score("incepton", map[string]string{FieldTitle: "Inception", FieldTitleVO: "Inception"})
	assert.True(t, ok)

	_, ok = Score("incepton", map[string]string{FieldTitle: "The Matrix", FieldTitleVO: "The Matrix"})
	assert.False(t, ok)

	assert.Greater(t, inception, 0.0)
}

func TestScorePhraseOutweighsFuzzy(t *testing.T) {
	exact, ok := Score("the dark knight", map[string]string{FieldTitle: "The Dark Knight"})
	assert.True(t, ok)

	fuzzy, ok := Score("the dark knigth", map[string]string{FieldTitle: "The Dark Knight"})
	assert.True(t, ok)

	assert.Greater(t, exact, fuzzy)
}

func TestScoreTitleOutweighsOriginalTitle(t *testing.T) {
	primary, _ := Score("amelie", map[string]string{FieldTitle: "Amelie", FieldTitleVO: "Le Fabuleux Destin"})
	original, _ := Score("amelie", map[string]string{FieldTitle: "Le Fabuleux Destin", FieldTitleVO: "Amelie"})
	assert.Greater(t, primary, original)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "the dark knight", Normalize("  The   Dark-Knight "))
	assert.Empty(t, Normalize("   "))
}
