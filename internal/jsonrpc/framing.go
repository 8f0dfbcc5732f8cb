// Package jsonrpc implements the Content-Length-framed JSON-RPC 2.0 wire
// format used to talk to an LSP server child process - component §4.F. It
// is transport-agnostic: Reader/Writer wrap any io.Reader/io.Writer, so the
// same code frames stdin/stdout pipes in tests as it does a real process.
package jsonrpc

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/standardbeagle/ycmd-go/internal/debug"
)

const contentLengthHeader = "content-length"

// Reader pulls framed JSON-RPC messages off an underlying stream.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadMessage reads one frame's header block and body, returning the raw
// JSON payload. A header block with no (or a zero) Content-Length is
// skipped and the next frame is read instead, mirroring the reference
// client's tolerance of stray lines between messages. io.EOF propagates
// once the underlying stream is closed.
func (r *Reader) ReadMessage() (json.RawMessage, error) {
	for {
		contentLength, err := r.readHeaders()
		if err != nil {
			return nil, err
		}
		if contentLength == 0 {
			debug.LogLSP("skipping frame with no Content-Length header")
			continue
		}

		body := make([]byte, contentLength)
		if _, err := io.ReadFull(r.br, body); err != nil {
			return nil, fmt.Errorf("jsonrpc: reading %d-byte body: %w", contentLength, err)
		}
		return json.RawMessage(body), nil
	}
}

// readHeaders consumes header lines until a blank line, returning
// Content-Length (0 if absent or malformed). Header names are matched
// case-insensitively; both CRLF and bare LF line endings are accepted.
func (r *Reader) readHeaders() (int, error) {
	contentLength := 0
	for {
		line, err := r.br.ReadString('\n')
		if err != nil {
			return 0, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return contentLength, nil
		}

		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(line[:colon]))
		if name != contentLengthHeader {
			continue
		}
		value := strings.TrimSpace(line[colon+1:])
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		contentLength = n
	}
}

// Writer serialises messages to an underlying stream under a single mutex,
// so concurrent callers (a request goroutine and the notification sender)
// never interleave a partial frame.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteMessage marshals v and writes it as one Content-Length-framed
// message.
func (w *Writer) WriteMessage(v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("jsonrpc: marshaling message: %w", err)
	}

	var frame bytes.Buffer
	fmt.Fprintf(&frame, "Content-Length: %d\r\n\r\n", len(body))
	frame.Write(body)

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.w.Write(frame.Bytes())
	return err
}
