package filtersort

import (
	"sort"

	"github.com/standardbeagle/ycmd-go/internal/candidate"
)

// Repo is the process-wide Candidate interning table shared by every
// FilterAndSort call, per component §4.C.
var Repo = candidate.NewRepository()

// scoreTuple is the lexicographic ranking key computed for a surviving
// candidate - component §4.D step 4. Comparisons prefer, in order: a
// literal word prefix, a literal candidate prefix, more matched positions
// landing on word boundaries, a first-character case match, a higher
// matched/candidate-length ratio, and finally the original input index as
// a deterministic tie-break.
type scoreTuple struct {
	isWordPrefix      bool
	isCandidatePrefix bool
	wordBoundaryCount int
	caseMatches       bool
	ratio             float64
	index             int
}

// less reports whether a ranks strictly ahead of b (a should sort first).
func (a scoreTuple) less(b scoreTuple) bool {
	if a.isWordPrefix != b.isWordPrefix {
		return a.isWordPrefix
	}
	if a.isCandidatePrefix != b.isCandidatePrefix {
		return a.isCandidatePrefix
	}
	if a.wordBoundaryCount != b.wordBoundaryCount {
		return a.wordBoundaryCount > b.wordBoundaryCount
	}
	if a.caseMatches != b.caseMatches {
		return a.caseMatches
	}
	if a.ratio != b.ratio {
		return a.ratio > b.ratio
	}
	return a.index < b.index
}

type ranked[T any] struct {
	item T
	s    scoreTuple
}

// FilterAndSort implements component §4.D: it rejects every item whose
// sortProperty text is not a subsequence match for query, then returns the
// survivors ranked best-match-first. maxCandidates truncates the result;
// zero means "return all". An empty query is a passthrough - every item
// survives, in original order, truncated to maxCandidates.
//
// sortProperty extracts the text to match against from an item (ycmd's
// filter_and_sort_candidates endpoint lets callers name which JSON field of
// an arbitrary object to sort on); an error from it drops that one item
// rather than failing the whole call, mirroring the reference server's
// per-candidate tolerance of malformed entries.
func FilterAndSort[T any](query string, items []T, maxCandidates int, sortProperty func(T) (string, error)) ([]T, error) {
	word := NewWord(query)
	if word.IsEmpty() {
		out := items
		if maxCandidates > 0 && maxCandidates < len(out) {
			out = out[:maxCandidates]
		}
		return out, nil
	}

	results := make([]ranked[T], 0, len(items))
	for i, item := range items {
		text, err := sortProperty(item)
		if err != nil {
			continue
		}

		c := Repo.Get(text)
		if c.IsEmpty() {
			continue
		}
		if !c.ContainsAll(word.Counts) {
			continue
		}

		mr := matchWord(word, c)
		if !mr.matched {
			continue
		}

		results = append(results, ranked[T]{
			item: item,
			s: scoreTuple{
				isWordPrefix:      mr.isWordPrefix,
				isCandidatePrefix: mr.isCandidatePrefix,
				wordBoundaryCount: mr.wordBoundaryCount,
				caseMatches:       mr.caseMatches,
				ratio:             float64(mr.matchedLen) / float64(c.Len()),
				index:             i,
			},
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].s.less(results[j].s)
	})

	if maxCandidates > 0 && maxCandidates < len(results) {
		results = results[:maxCandidates]
	}

	out := make([]T, len(results))
	for i, r := range results {
		out[i] = r.item
	}
	return out, nil
}

// FilterAndSortStrings is the common case where items are already the raw
// text to match against (completion insertion text, identifier strings).
func FilterAndSortStrings(query string, items []string, maxCandidates int) ([]string, error) {
	return FilterAndSort(query, items, maxCandidates, func(s string) (string, error) { return s, nil })
}
