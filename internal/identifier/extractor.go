package identifier

// ExtractAll returns every non-overlapping identifier match in contents for
// filetype, in order, duplicates preserved — component §4.B of SPEC_FULL.
// The caller (internal/idcompleter) is responsible for deduplication on
// insert; this function stays a pure, total transform of its input.
func ExtractAll(reg *Registry, contents []byte, filetype string) []string {
	re := reg.ForFiletype(filetype)
	matches := re.FindAll(contents, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, string(m))
	}
	return out
}

// indexOfIdentifier reports whether the byte offset `index` satisfies op
// against the end offset of an identifier match on line, returning that
// match's text. This backs IdentifierUnderCursor/IdentifierBeforeCursor.
func indexOfIdentifier(reg *Registry, line []byte, index int, filetype string, op func(matchEnd, index int) bool) string {
	re := reg.ForFiletype(filetype)
	locs := re.FindAllIndex(line, -1)
	for _, loc := range locs {
		if op(loc[1], index) {
			return string(line[loc[0]:loc[1]])
		}
	}
	return ""
}

// UnderCursor returns the first identifier on line whose end is strictly
// past index (the byte offset one before the 1-based column): the
// identifier containing index, or, when index falls between identifiers,
// the next one after it.
func UnderCursor(reg *Registry, line []byte, index int, filetype string) string {
	return indexOfIdentifier(reg, line, index, filetype, func(matchEnd, idx int) bool {
		return matchEnd > idx
	})
}

// BeforeCursor returns the last identifier on line whose end is at or
// before index.
func BeforeCursor(reg *Registry, line []byte, index int, filetype string) string {
	var last string
	re := reg.ForFiletype(filetype)
	for _, loc := range re.FindAllIndex(line, -1) {
		if loc[1] <= index {
			last = string(line[loc[0]:loc[1]])
		}
	}
	return last
}
