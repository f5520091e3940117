// Package search holds the relevance model for catalog title search. The same
// weighted clauses drive the Atlas Search pipeline and the in-process scorer
// used by the memory store.
package search

import (
	"strings"
	"unicode"
)

// Searched fields.
const (
	FieldTitle   = "title"
	FieldTitleVO = "title_vo"
)

// MinimumShouldMatch is the number of clauses a document must satisfy.
const MinimumShouldMatch = 1

type ClauseKind int

const (
	Phrase ClauseKind = iota
	Fuzzy
)

// Clause is one weighted should-clause of the compound query.
type Clause struct {
	Kind         ClauseKind
	Path         string
	Boost        float64
	MaxEdits     int
	PrefixLength int
}

// Clauses lists the relevance clauses in descending weight order. The
// primary title weighs roughly twice the original-language title.
var Clauses = []Clause{
	{Kind: Phrase, Path: FieldTitle, Boost: 15},
	{Kind: Phrase, Path: FieldTitleVO, Boost: 7},
	{Kind: Fuzzy, Path: FieldTitle, Boost: 10, MaxEdits: 1, PrefixLength: 3},
	{Kind: Fuzzy, Path: FieldTitleVO, Boost: 5, MaxEdits: 1, PrefixLength: 3},
	{Kind: Fuzzy, Path: FieldTitle, Boost: 6, MaxEdits: 2, PrefixLength: 1},
	{Kind: Fuzzy, Path: FieldTitleVO, Boost: 3, MaxEdits: 2, PrefixLength: 1},
}

// Normalize trims and collapses whitespace so equivalent queries share a
// cache key and a score.
func Normalize(q string) string {
	return strings.Join(Tokenize(q), " ")
}

// Tokenize lowercases s and splits it on anything that is not a letter or a
// digit, roughly like the standard Lucene analyzer.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Score returns the summed boost of every clause that matches the document
// fields, and whether enough clauses matched for the document to be a hit.
func Score(q string, fields map[string]string) (float64, bool) {
	query := Tokenize(q)
	if len(query) == 0 {
		return 0, false
	}

	var score float64
	matched := 0
	for _, cl := range Clauses {
		field := Tokenize(fields[cl.Path])
		if len(field) == 0 {
			continue
		}

		var weight float64
		switch cl.Kind {
		case Phrase:
			if containsPhrase(field, query) {
				weight = 1
			}
		case Fuzzy:
			weight = fuzzyCoverage(field, query, cl.MaxEdits, cl.PrefixLength)
		}
		if weight > 0 {
			matched++
			score += cl.Boost * weight
		}
	}
	return score, matched >= MinimumShouldMatch
}

func containsPhrase(field, phrase []string) bool {
	if len(phrase) > len(field) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(field); i++ {
		for j := range phrase {
			if field[i+j] != phrase[j] {
				continue outer
			}
		}
		return true
	}
	return false
}

// fuzzyCoverage is the share of query terms that have a field term within
// maxEdits sharing the first prefix runes.
func fuzzyCoverage(field, query []string, maxEdits, prefix int) float64 {
	hits := 0
	for _, q := range query {
		for _, f := range field {
			if FuzzyMatch(q, f, maxEdits, prefix) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(query))
}

// FuzzyMatch reports whether term and candidate share their first prefix
// runes and differ by at most maxEdits insertions, deletions or substitutions.
func FuzzyMatch(term, candidate string, maxEdits, prefix int) bool {
	a, b := []rune(term), []rune(candidate)
	if len(a) < prefix || len(b) < prefix {
		return string(a) == string(b)
	}
	for i := 0; i < prefix; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return Distance(a[prefix:], b[prefix:], maxEdits) <= maxEdits
}

// Distance is the Levenshtein distance between a and b. It stops early and
// returns max+1 once the distance is known to exceed max.
func Distance(a, b []rune, max int) int {
	if d := len(a) - len(b); d > max || -d > max {
		return max + 1
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > max {
			return max + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
