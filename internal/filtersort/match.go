package filtersort

import (
	"unicode"
	"unicode/utf8"

	"github.com/standardbeagle/ycmd-go/internal/candidate"
)

// matchResult holds the outcome of matching a Word against one Candidate:
// whether it matched at all, plus the raw ingredients for scoring a match.
// Positions are left unset (nil) on a failed match.
type matchResult struct {
	matched bool

	// isCandidatePrefix is true when the first matched rune is folded[0]:
	// the query matches starting at the very beginning of the candidate.
	isCandidatePrefix bool

	// isWordPrefix is true when the query, taken as a contiguous run from
	// its first matched position, is itself a literal (non-gapped) prefix
	// of some word inside the candidate - not merely a scattered
	// subsequence starting at a word boundary.
	isWordPrefix bool

	// wordBoundaryCount is how many of the (possibly gapped) matched
	// positions land on a word-start index - the camelCase/snake_case
	// bonus: query "fb" against "foo_bar" hits two word starts.
	wordBoundaryCount int

	// caseMatches is true when the first rune of the query and the
	// candidate's rune at the first matched position have the same case.
	caseMatches bool

	// matchedLen is the number of query runes matched (== len(query) on
	// any successful match, since every query rune must be consumed).
	matchedLen int
}

// matchWord performs the greedy leftmost subsequence match of word against
// c, then computes the scoring ingredients over the resulting positions.
// An empty word always matches (every candidate passes an empty query).
func matchWord(word *Word, c *candidate.Candidate) matchResult {
	if word.IsEmpty() {
		return matchResult{matched: true}
	}

	folded := c.Folded()
	wordStarts := c.WordStarts()

	positions := make([]int, 0, len(word.Folded))
	cursor := 0
	for _, qr := range word.Folded {
		pos := -1
		for i := cursor; i < len(folded); i++ {
			if folded[i] == qr {
				pos = i
				break
			}
		}
		if pos == -1 {
			return matchResult{matched: false}
		}
		positions = append(positions, pos)
		cursor = pos + 1
	}

	first := positions[0]
	wbCount := 0
	for _, p := range positions {
		if wordStarts[p] {
			wbCount++
		}
	}

	return matchResult{
		matched:           true,
		isCandidatePrefix: first == 0,
		isWordPrefix:      wordStarts[first] && literalWordPrefix(word, c, first),
		wordBoundaryCount: wbCount,
		caseMatches:       caseOf(firstRune(word.Original)) == caseOf(c.RuneAt(first)),
		matchedLen:        len(positions),
	}
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// literalWordPrefix reports whether word, taken contiguously (no gaps),
// equals the candidate's folded runes starting at index start - i.e. the
// query literally prefixes the word that starts at start, rather than just
// matching its first character there.
func literalWordPrefix(word *Word, c *candidate.Candidate, start int) bool {
	folded := c.Folded()
	if start+len(word.Folded) > len(folded) {
		return false
	}
	for i, qr := range word.Folded {
		if folded[start+i] != qr {
			return false
		}
	}
	return true
}

// caseOf classifies a rune as upper, lower, or neither, for the
// first-character case-match bonus.
func caseOf(r rune) int {
	switch {
	case unicode.IsUpper(r):
		return 1
	case unicode.IsLower(r):
		return 0
	default:
		return 2
	}
}
