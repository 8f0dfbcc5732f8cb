package lsp

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/standardbeagle/ycmd-go/internal/jsonrpc"
)

// fakeServer wires a Client to an in-memory pipe pair and answers requests
// according to handler, simulating a language server without spawning one.
type fakeServer struct {
	clientStdin  io.Reader // what the fake server reads (our stdin)
	serverStdout io.Writer // what the fake server writes (our stdout)
}

func newTestClient(t *testing.T, handle func(method string, id *json.RawMessage, params json.RawMessage) (json.RawMessage, bool)) *Client {
	t.Helper()
	clientReadEnd, serverWriteEnd := io.Pipe()
	serverReadEnd, clientWriteEnd := io.Pipe()

	c := newClient("test", clientWriteEnd, clientReadEnd)

	go func() {
		r := jsonrpc.NewReader(serverReadEnd)
		w := jsonrpc.NewWriter(serverWriteEnd)
		for {
			raw, err := r.ReadMessage()
			if err != nil {
				return
			}
			var msg jsonrpc.Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				return
			}
			if msg.Method == "" {
				continue
			}
			result, respond := handle(msg.Method, msg.ID, msg.Params)
			if !respond || msg.ID == nil {
				continue
			}
			_ = w.WriteMessage(&jsonrpc.Message{JSONRPC: "2.0", ID: msg.ID, Result: result})
		}
	}()

	// Closing both pipe pairs unblocks the pump goroutine's ReadMessage
	// (and the fake server goroutine above) with io.EOF/io.ErrClosedPipe,
	// so no test leaves either goroutine running past the test's lifetime.
	t.Cleanup(func() {
		_ = clientWriteEnd.Close()
		_ = clientReadEnd.Close()
		_ = serverWriteEnd.Close()
		_ = serverReadEnd.Close()
	})

	return c
}

func TestInitializeHandshake(t *testing.T) {
	c := newTestClient(t, func(method string, id *json.RawMessage, params json.RawMessage) (json.RawMessage, bool) {
		if method == "initialize" {
			return json.RawMessage(`{"capabilities":{}}`), true
		}
		return nil, false
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Initialize(ctx, "file:///tmp"); err != nil {
		t.Fatal(err)
	}
	if c.State() != Ready {
		t.Fatalf("state = %v, want Ready", c.State())
	}
}

func TestCompleteTranslatesItems(t *testing.T) {
	c := newTestClient(t, func(method string, id *json.RawMessage, params json.RawMessage) (json.RawMessage, bool) {
		switch method {
		case "initialize":
			return json.RawMessage(`{}`), true
		case "textDocument/completion":
			return json.RawMessage(`{"isIncomplete":false,"items":[{"label":"foo","kind":3,"detail":"func()"}]}`), true
		}
		return nil, false
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Initialize(ctx, "file:///tmp"); err != nil {
		t.Fatal(err)
	}

	cands, err := c.Complete(ctx, "file:///tmp/a.go", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 1 || cands[0].InsertionText != "foo" || cands[0].Kind != "Function" {
		t.Fatalf("got %+v", cands)
	}
}

func TestCompletePrefersTextEditOverInsertTextAndLabel(t *testing.T) {
	c := newTestClient(t, func(method string, id *json.RawMessage, params json.RawMessage) (json.RawMessage, bool) {
		switch method {
		case "initialize":
			return json.RawMessage(`{}`), true
		case "textDocument/completion":
			return json.RawMessage(`{"items":[{"label":"foo","insertText":"fooInsert","textEdit":{"range":{"start":{"line":0,"character":0},"end":{"line":0,"character":3}},"newText":"fooEdit"}}]}`), true
		}
		return nil, false
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Initialize(ctx, "file:///tmp"); err != nil {
		t.Fatal(err)
	}

	cands, err := c.Complete(ctx, "file:///tmp/a.go", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 1 || cands[0].InsertionText != "fooEdit" {
		t.Fatalf("expected textEdit.newText to win, got %+v", cands)
	}
}

func TestCompleteMergesMarkupDocumentationOverDetail(t *testing.T) {
	c := newTestClient(t, func(method string, id *json.RawMessage, params json.RawMessage) (json.RawMessage, bool) {
		switch method {
		case "initialize":
			return json.RawMessage(`{}`), true
		case "textDocument/completion":
			return json.RawMessage(`{"items":[{"label":"foo","detail":"func()","documentation":{"kind":"markdown","value":"does the foo thing"}}]}`), true
		}
		return nil, false
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Initialize(ctx, "file:///tmp"); err != nil {
		t.Fatal(err)
	}

	cands, err := c.Complete(ctx, "file:///tmp/a.go", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 1 || cands[0].DetailedInfo != "does the foo thing" {
		t.Fatalf("expected markup documentation to win over detail, got %+v", cands)
	}
}

func TestCompleteBareArrayResult(t *testing.T) {
	c := newTestClient(t, func(method string, id *json.RawMessage, params json.RawMessage) (json.RawMessage, bool) {
		if method == "textDocument/completion" {
			return json.RawMessage(`[{"label":"bar"}]`), true
		}
		return json.RawMessage(`{}`), true
	})

	cands, err := c.Complete(context.Background(), "file:///tmp/a.go", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 1 || cands[0].InsertionText != "bar" {
		t.Fatalf("got %+v", cands)
	}
}

func TestSyncFileSkipsUnchangedContent(t *testing.T) {
	var notifyMethods []string
	c := newTestClient(t, func(method string, id *json.RawMessage, params json.RawMessage) (json.RawMessage, bool) {
		notifyMethods = append(notifyMethods, method)
		return nil, false
	})

	if err := c.SyncFile("file:///a.go", "go", "package main"); err != nil {
		t.Fatal(err)
	}
	if err := c.SyncFile("file:///a.go", "go", "package main"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	count := 0
	for _, m := range notifyMethods {
		if m == "textDocument/didOpen" || m == "textDocument/didChange" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one sync notification for unchanged content, got %d (%v)", count, notifyMethods)
	}
}

func TestSyncFileSendsChangeOnEdit(t *testing.T) {
	var notifyMethods []string
	c := newTestClient(t, func(method string, id *json.RawMessage, params json.RawMessage) (json.RawMessage, bool) {
		notifyMethods = append(notifyMethods, method)
		return nil, false
	})

	_ = c.SyncFile("file:///a.go", "go", "package main")
	_ = c.SyncFile("file:///a.go", "go", "package main\nfunc main(){}")
	time.Sleep(50 * time.Millisecond)

	var opens, changes int
	for _, m := range notifyMethods {
		if m == "textDocument/didOpen" {
			opens++
		}
		if m == "textDocument/didChange" {
			changes++
		}
	}
	if opens != 1 || changes != 1 {
		t.Fatalf("expected 1 open + 1 change, got opens=%d changes=%d (%v)", opens, changes, notifyMethods)
	}
}
