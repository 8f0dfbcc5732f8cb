// Package candidate implements the interned, pre-tokenised Candidate
// representation used by the filter-and-sort engine - component §4.C.
package candidate

import "unicode"

// Candidate is the process-owned, pre-tokenised form of a completion
// string. It is built once per unique original text and then shared
// (borrowed, never copied) across every filter-and-sort call that touches
// that string.
type Candidate struct {
	// Text is the original completion text, exactly as inserted.
	Text string

	// runes is Text's original (non-folded) rune sequence, same length and
	// index alignment as folded - used only to recover the original case of
	// a matched character for scoring.
	runes []rune

	// folded is Text's runes, case-folded (simple lower-casing) - the form
	// every match/score computation below operates on.
	folded []rune

	// wordStart[i] is true when folded[i] begins a "word" inside the
	// candidate: index 0, the char after a non-alnum separator, or an
	// upper-case letter following a lower-case one (camelCase boundary).
	wordStart []bool

	// counts is the case-folded rune frequency histogram, used for the
	// fast multiplicity reject in ContainsAll.
	counts map[rune]int
}

// New builds (and fully pre-computes) a Candidate for text. Called exactly
// once per unique string by the repository.
func New(text string) *Candidate {
	runes := []rune(text)
	folded := make([]rune, len(runes))
	wordStart := make([]bool, len(runes))
	counts := make(map[rune]int, len(runes))

	prevLower := false
	prevSeparator := true // index 0 always starts a word
	for i, r := range runes {
		f := unicode.ToLower(r)
		folded[i] = f
		counts[f]++

		isLetterOrDigit := unicode.IsLetter(r) || unicode.IsDigit(r)
		switch {
		case prevSeparator && isLetterOrDigit:
			wordStart[i] = true
		case prevLower && unicode.IsUpper(r):
			wordStart[i] = true
		}

		prevSeparator = !isLetterOrDigit
		prevLower = unicode.IsLower(r)
	}

	return &Candidate{
		Text:      text,
		runes:     runes,
		folded:    folded,
		wordStart: wordStart,
		counts:    counts,
	}
}

// IsEmpty reports whether the candidate's text is empty.
func (c *Candidate) IsEmpty() bool { return len(c.Text) == 0 }

// Folded returns the case-folded rune view used for matching.
func (c *Candidate) Folded() []rune { return c.folded }

// WordStarts returns the per-index word-boundary markers.
func (c *Candidate) WordStarts() []bool { return c.wordStart }

// Len returns the candidate's length in runes.
func (c *Candidate) Len() int { return len(c.folded) }

// RuneAt returns the original (non-folded) rune at a folded-index position.
func (c *Candidate) RuneAt(i int) rune { return c.runes[i] }

// ContainsAll is the fast multiplicity reject: every case-folded rune in
// query must appear in the candidate at least as many times as it appears
// in query.
func (c *Candidate) ContainsAll(queryCounts map[rune]int) bool {
	for r, need := range queryCounts {
		if c.counts[r] < need {
			return false
		}
	}
	return true
}

// ContainsBytes reports whether every rune of queryWord (case-folded)
// appears in the candidate with sufficient multiplicity - the SPEC_FULL
// §4.D step 2 fast reject taken directly on a raw query string, used when a
// caller does not have a built Word.
func (c *Candidate) ContainsBytes(queryWord string) bool {
	need := make(map[rune]int)
	for _, r := range queryWord {
		need[unicode.ToLower(r)]++
	}
	return c.ContainsAll(need)
}
