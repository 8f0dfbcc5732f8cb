package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/standardbeagle/ycmd-go/internal/debug"
	"github.com/standardbeagle/ycmd-go/internal/jsonrpc"
)

// Client manages one spawned LSP server process and its message pump: the
// Go analogue of ClangdCompleter's clangd/server_stdout/server_stdin/
// pending_requests quartet, generalised to any filetype's language server.
type Client struct {
	Filetype string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *jsonrpc.Reader
	writer *jsonrpc.Writer

	pending *jsonrpc.PendingTable
	state   *stateBox
	sync    *FileSync

	notifications chan *jsonrpc.Message
	serverReqs    chan *jsonrpc.Message
}

// Spawn starts binary (located by the caller via config or PATH search) as
// the language server for filetype and begins its message pump. The
// process's stderr is forwarded to stderrDest for diagnostics, matching the
// reference implementation's `bp::std_err > stderr`.
func Spawn(ctx context.Context, filetype, binary string, args []string, stderrDest io.Writer) (*Client, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	if stderrDest != nil {
		cmd.Stderr = stderrDest
	} else {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("lsp: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("lsp: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("lsp: starting %s: %w", binary, err)
	}

	c := newClient(filetype, stdin, stdout)
	c.cmd = cmd
	return c, nil
}

// newClient wires a Client directly to an already-open read/write pair,
// without spawning a process - used by Spawn and, with an in-memory pipe,
// by tests that need to exercise the pump and Call/Notify without a real
// language server binary.
func newClient(filetype string, stdin io.WriteCloser, stdout io.Reader) *Client {
	c := &Client{
		Filetype:      filetype,
		stdin:         stdin,
		reader:        jsonrpc.NewReader(stdout),
		writer:        jsonrpc.NewWriter(stdin),
		pending:       jsonrpc.NewPendingTable(),
		state:         newStateBox(),
		sync:          newFileSync(),
		notifications: make(chan *jsonrpc.Message, 32),
		serverReqs:    make(chan *jsonrpc.Message, 8),
	}
	c.state.Set(Initialising)

	go c.pump()
	return c
}

// pump is the message-pump goroutine: classifies every frame as a
// notification, a server->client request, or a response and routes it,
// exactly as message_pump does in the reference completer.
func (c *Client) pump() {
	defer func() {
		c.pending.DrainAll()
		close(c.notifications)
		close(c.serverReqs)
		if c.state.Get() != Stopped {
			c.state.Set(Failed)
		}
	}()

	for {
		raw, err := c.reader.ReadMessage()
		if err != nil {
			if err != io.EOF {
				debug.CatastrophicError("lsp[%s]: message pump ending: %v", c.Filetype, err)
			}
			return
		}

		var msg jsonrpc.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			debug.CatastrophicError("lsp[%s]: malformed frame, ending pump: %v", c.Filetype, err)
			return
		}

		switch {
		case msg.IsResponse():
			if !c.pending.Deliver(&msg) {
				debug.LogLSP("[%s] response to unknown id %s", c.Filetype, jsonrpc.FormatID(msg.ID))
			}
		case msg.IsRequest():
			ack := &jsonrpc.Message{JSONRPC: "2.0", ID: msg.ID, Result: json.RawMessage("null")}
			if err := c.writer.WriteMessage(ack); err != nil {
				debug.LogLSP("[%s] acknowledging server request %s: %v", c.Filetype, msg.Method, err)
			}
			select {
			case c.serverReqs <- &msg:
			default:
				debug.LogLSP("[%s] dropping server request %s: queue full", c.Filetype, msg.Method)
			}
		case msg.IsNotification():
			select {
			case c.notifications <- &msg:
			default:
				debug.LogLSP("[%s] dropping notification %s: queue full", c.Filetype, msg.Method)
			}
		}
	}
}

// Notifications returns the channel of server->client notifications
// (diagnostics, workspace events).
func (c *Client) Notifications() <-chan *jsonrpc.Message { return c.notifications }

// ServerRequests returns the channel of server->client requests
// (workspace/configuration and similar). The pump answers each one with a
// null result before queuing it; no completer depends on their content.
func (c *Client) ServerRequests() <-chan *jsonrpc.Message { return c.serverReqs }

// State reports the client's current lifecycle state.
func (c *Client) State() State { return c.state.Get() }

// Call sends a request and blocks for its response, or until ctx is
// cancelled.
func (c *Client) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	id := c.pending.NextID()
	req, err := jsonrpc.NewRequest(id, method, params)
	if err != nil {
		return err
	}
	ch := c.pending.Register(id)

	if err := c.writer.WriteMessage(req); err != nil {
		c.pending.Cancel(id)
		return fmt.Errorf("lsp: sending %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		c.pending.Cancel(id)
		return ctx.Err()
	case resp, ok := <-ch:
		if !ok || resp == nil {
			return fmt.Errorf("lsp: %s: connection closed while awaiting response", method)
		}
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 {
			return json.Unmarshal(resp.Result, result)
		}
		return nil
	}
}

// Notify sends a one-way notification.
func (c *Client) Notify(method string, params interface{}) error {
	n, err := jsonrpc.NewNotification(method, params)
	if err != nil {
		return err
	}
	return c.writer.WriteMessage(n)
}

// Initialize performs the LSP initialize/initialized handshake and
// transitions the client to Ready on success, Failed otherwise.
func (c *Client) Initialize(ctx context.Context, rootURI string) error {
	params := InitializeParams{
		ProcessID: os.Getpid(),
		RootURI:   rootURI,
		Capabilities: ClientCapabilities{
			TextDocument: TextDocumentClientCapabilities{
				Completion: CompletionClientCapabilities{},
			},
		},
	}

	var result json.RawMessage
	if err := c.Call(ctx, "initialize", params, &result); err != nil {
		c.state.Set(Failed)
		return fmt.Errorf("lsp[%s]: initialize: %w", c.Filetype, err)
	}
	if err := c.Notify("initialized", struct{}{}); err != nil {
		c.state.Set(Failed)
		return fmt.Errorf("lsp[%s]: initialized notification: %w", c.Filetype, err)
	}

	c.state.Set(Ready)
	return nil
}

// WaitReady blocks until initialization completes (successfully or not).
func (c *Client) WaitReady() State { return c.state.WaitReady() }

// Stop requests graceful shutdown (shutdown/exit per the LSP spec), then
// kills the process if it does not exit within timeout.
func (c *Client) Stop(timeout time.Duration) error {
	c.state.Set(Draining)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = c.Call(ctx, "shutdown", nil, nil)
	_ = c.Notify("exit", nil)

	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()

	select {
	case err := <-done:
		c.state.Set(Stopped)
		return err
	case <-time.After(timeout):
		_ = c.cmd.Process.Kill()
		c.state.Set(Stopped)
		return fmt.Errorf("lsp[%s]: process did not exit within %s, killed", c.Filetype, timeout)
	}
}
