// Package idcompleter implements the identifier completion engine -
// component §4.E: a per-filetype, per-file database of identifiers seen in
// open buffers, searchable through internal/filtersort.
package idcompleter

import (
	"sync"

	"github.com/standardbeagle/ycmd-go/internal/filtersort"
	"github.com/standardbeagle/ycmd-go/internal/identifier"
)

// anyFiletype is the bucket identifiers recorded with an empty filetype
// fall into (any other filetype string gets a bucket of its own);
// results_for_query_and_type always searches
// it in addition to the requested filetype, mirroring the reference
// server's "identifiers from every buffer, of the requested type or no
// type" behaviour.
const anyFiletype = ""

// Database holds the identifiers collected from every open buffer, indexed
// by filetype and then by filepath so that a file's identifiers can be
// atomically replaced (clear_for_file_and_add) without touching any other
// file's entries.
type Database struct {
	mu       sync.RWMutex
	regexes  *identifier.Registry
	byFT     map[string]map[string][]string // filetype -> filepath -> ordered unique identifiers
}

// NewDatabase returns an empty database using regexes to find identifiers
// (identifier.Default if nil).
func NewDatabase(regexes *identifier.Registry) *Database {
	if regexes == nil {
		regexes = identifier.Default
	}
	return &Database{
		regexes: regexes,
		byFT:    make(map[string]map[string][]string),
	}
}

// ClearForFileAndAdd replaces filepath's identifier set under filetype with
// every identifier extracted from contents, deduplicated in first-seen
// order. This is the FileReadyToParse handler's core operation: a buffer's
// identifiers are always fully recomputed, never incrementally patched,
// since edits can remove as well as add identifiers.
func (d *Database) ClearForFileAndAdd(filetype, filepath string, contents []byte) {
	tokens := identifier.ExtractAllGrammarAware(d.regexes, contents, filetype)
	dedup := dedupeOrdered(tokens)

	d.mu.Lock()
	defer d.mu.Unlock()
	bucket, ok := d.byFT[filetype]
	if !ok {
		bucket = make(map[string][]string)
		d.byFT[filetype] = bucket
	}
	bucket[filepath] = dedup
}

// AddSingleIdentifier appends word to filepath's bucket under filetype if
// it is not already present; a no-op otherwise. Used for
// CurrentIdentifierFinished/InsertLeave, where only one new identifier is
// known to have appeared and a full re-extraction would be wasteful.
func (d *Database) AddSingleIdentifier(filetype, filepath, word string) {
	if word == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	bucket, ok := d.byFT[filetype]
	if !ok {
		bucket = make(map[string][]string)
		d.byFT[filetype] = bucket
	}
	existing := bucket[filepath]
	for _, w := range existing {
		if w == word {
			return
		}
	}
	bucket[filepath] = append(existing, word)
}

// ClearForFile removes every identifier recorded for filepath across all
// filetypes. Not wired to any event_notification kind (§4.E lists
// BufferUnload as acknowledged-only, not acted on); exposed for a caller
// that wants an explicit forget-this-file operation outside the event
// dispatch path.
func (d *Database) ClearForFile(filepath string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, bucket := range d.byFT {
		delete(bucket, filepath)
	}
}

// ResultsForQueryAndType runs query through filtersort against every
// identifier recorded under filetype plus the type-less bucket, returning
// at most maxCandidates results ranked best match first. An empty filetype
// searches only the type-less bucket.
func (d *Database) ResultsForQueryAndType(query, filetype string, maxCandidates int) ([]string, error) {
	d.mu.RLock()
	var all []string
	seen := make(map[string]bool)
	collect := func(ft string) {
		for _, words := range d.byFT[ft] {
			for _, w := range words {
				if !seen[w] {
					seen[w] = true
					all = append(all, w)
				}
			}
		}
	}
	collect(filetype)
	if filetype != anyFiletype {
		collect(anyFiletype)
	}
	d.mu.RUnlock()

	return filtersort.FilterAndSortStrings(query, all, maxCandidates)
}

// dedupeOrdered returns toks with duplicates removed, keeping the first
// occurrence's position.
func dedupeOrdered(toks []string) []string {
	seen := make(map[string]bool, len(toks))
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
