// Package reqwrap implements RequestWrap: the per-request value object that
// resolves a 1-based line/byte-column position into an identifier query,
// its start column (bytes) and start codepoint - component §4.A.
//
// A Wrap is built once per incoming request and is not safe for concurrent
// use; every derived field is computed at most once and cached, mirroring
// the reference implementation's lazily-initialised value semantics.
package reqwrap

import (
	"unicode/utf8"

	"github.com/standardbeagle/ycmd-go/internal/identifier"
)

// Wrap resolves RequestWrap's derived fields for a single (line, column)
// position inside a single buffer's contents.
type Wrap struct {
	contents  []byte
	lineNum   int // 1-based
	columnNum int // 1-based byte offset
	filetype  string
	regexes   *identifier.Registry

	linesOnce   bool
	lines       [][]byte

	lineBytesOnce bool
	lineBytes     []byte

	lineValueOnce bool
	lineValue     []rune

	columnCodepointOnce bool
	columnCodepoint     int

	startCodepointOnce bool
	startCodepoint     int

	startColumnOnce bool
	startColumn     int
}

// New builds a Wrap. contents is the full buffer text, lineNum/columnNum
// are the 1-based line and byte column from the request, filetype is the
// buffer's first (authoritative) filetype, and regexes resolves per-filetype
// identifier patterns.
func New(contents []byte, lineNum, columnNum int, filetype string, regexes *identifier.Registry) *Wrap {
	if regexes == nil {
		regexes = identifier.Default
	}
	return &Wrap{
		contents:  contents,
		lineNum:   lineNum,
		columnNum: columnNum,
		filetype:  filetype,
		regexes:   regexes,
	}
}

// Lines splits contents on LF. A terminal LF does not produce a trailing
// empty entry; a line with a trailing CR keeps it (editors send either line
// ending convention and CR is just another byte to this layer).
func (w *Wrap) Lines() [][]byte {
	if w.linesOnce {
		return w.lines
	}
	w.linesOnce = true

	if len(w.contents) == 0 {
		w.lines = [][]byte{}
		return w.lines
	}

	contents := w.contents
	if contents[len(contents)-1] == '\n' {
		contents = contents[:len(contents)-1]
	}

	var lines [][]byte
	start := 0
	for i := 0; i < len(contents); i++ {
		if contents[i] == '\n' {
			lines = append(lines, contents[start:i])
			start = i + 1
		}
	}
	lines = append(lines, contents[start:])
	w.lines = lines
	return w.lines
}

// LineBytes returns lines()[lineNum-1], or an empty slice if lineNum is out
// of range.
func (w *Wrap) LineBytes() []byte {
	if w.lineBytesOnce {
		return w.lineBytes
	}
	w.lineBytesOnce = true

	lines := w.Lines()
	if w.lineNum >= 1 && w.lineNum <= len(lines) {
		w.lineBytes = lines[w.lineNum-1]
	} else {
		w.lineBytes = []byte{}
	}
	return w.lineBytes
}

// LineValue decodes LineBytes to its codepoint (rune) sequence.
func (w *Wrap) LineValue() []rune {
	if w.lineValueOnce {
		return w.lineValue
	}
	w.lineValueOnce = true
	w.lineValue = []rune(string(w.LineBytes()))
	return w.lineValue
}

// ColumnNum is the 1-based byte column as received on the wire.
func (w *Wrap) ColumnNum() int { return w.columnNum }

// ColumnCodepoint is the number of codepoints in line_bytes[0:column_num-1],
// plus one for 1-based indexing, i.e. the 1-based codepoint index
// corresponding to ColumnNum. A column past the end of the line is treated
// as the end of the line.
func (w *Wrap) ColumnCodepoint() int {
	if w.columnCodepointOnce {
		return w.columnCodepoint
	}
	w.columnCodepointOnce = true

	lineBytes := w.LineBytes()
	end := w.columnNum - 1
	if end > len(lineBytes) {
		end = len(lineBytes)
	}
	if end < 0 {
		end = 0
	}
	w.columnCodepoint = utf8.RuneCount(lineBytes[:end]) + 1
	return w.columnCodepoint
}

// StartCodepoint implements StartOfLongestIdentifierEndingAt: the 1-based
// codepoint index at which the longest identifier ending just before the
// cursor starts. If the character immediately preceding the cursor is not
// an identifier character, it equals ColumnCodepoint.
func (w *Wrap) StartCodepoint() int {
	if w.startCodepointOnce {
		return w.startCodepoint
	}
	w.startCodepointOnce = true

	lineValue := w.LineValue()
	end := w.ColumnCodepoint() - 1 // 0-based, one past the end
	if end <= 0 {
		w.startCodepoint = 1
		return 1
	}
	if end > len(lineValue) {
		end = len(lineValue)
	}

	re := w.regexes.ForFiletype(w.filetype)
	start := end
	for start > 0 {
		candidate := string(lineValue[start-1 : end])
		loc := re.FindStringIndex(candidate)
		if loc == nil || loc[0] != 0 || loc[1] != len(candidate) {
			break
		}
		start--
	}
	w.startCodepoint = start + 1
	return w.startCodepoint
}

// StartColumn re-encodes line_value[0:start_codepoint-1] to UTF-8 and
// reports its byte length plus one: the 1-based byte offset in line_bytes
// at which the query starts.
func (w *Wrap) StartColumn() int {
	if w.startColumnOnce {
		return w.startColumn
	}
	w.startColumnOnce = true

	prefix := w.LineValue()[:w.StartCodepoint()-1]
	n := 0
	for _, r := range prefix {
		n += utf8.RuneLen(r)
	}
	w.startColumn = n + 1
	return w.startColumn
}

// Query returns the codepoint slice of line_value between start and the
// cursor column.
func (w *Wrap) Query() []rune {
	lv := w.LineValue()
	start := w.StartCodepoint() - 1
	end := w.ColumnCodepoint() - 1
	if start < 0 {
		start = 0
	}
	if end > len(lv) {
		end = len(lv)
	}
	if start > end {
		start = end
	}
	return lv[start:end]
}

// QueryString is Query re-encoded to UTF-8.
func (w *Wrap) QueryString() string {
	return string(w.Query())
}

// QueryBytes returns the byte slice of line_bytes between start_column and
// column_num.
func (w *Wrap) QueryBytes() []byte {
	lb := w.LineBytes()
	start := w.StartColumn() - 1
	end := w.columnNum - 1
	if start < 0 {
		start = 0
	}
	if end > len(lb) {
		end = len(lb)
	}
	if start > end {
		start = end
	}
	return lb[start:end]
}
