// Package filtersort implements the filter-and-sort engine - component
// §4.D: given a query and a set of candidate strings, reject candidates
// that are not a subsequence match and rank survivors by how good a match
// they are.
package filtersort

import "unicode"

// Word is the case-folded, pre-counted form of a query string, built once
// per filter-and-sort call and reused across every candidate it is matched
// against.
type Word struct {
	Original string
	Folded   []rune
	Counts   map[rune]int
}

// NewWord builds a Word from a raw query string.
func NewWord(query string) *Word {
	folded := make([]rune, 0, len(query))
	counts := make(map[rune]int, len(query))
	for _, r := range query {
		f := unicode.ToLower(r)
		folded = append(folded, f)
		counts[f]++
	}
	return &Word{Original: query, Folded: folded, Counts: counts}
}

// IsEmpty reports whether the query is the empty string.
func (w *Word) IsEmpty() bool { return len(w.Folded) == 0 }
