package dispatch

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/standardbeagle/ycmd-go/internal/lsp"
	"github.com/standardbeagle/ycmd-go/internal/types"
)

// Locator resolves the binary and arguments to spawn for a filetype's LSP
// engine (e.g. clangd for cpp, from config's clangd_binary_path or PATH).
// ok is false when no binary could be found for filetype.
type Locator func(filetype string) (binary string, args []string, ok bool)

// LspEngines lazily spawns and owns one lsp.Client per filetype, providing
// the SemanticEngine capability set the dispatcher drives.
type LspEngines struct {
	mu       sync.Mutex
	clients  map[string]*lsp.Client
	locate   Locator
	stderr   io.Writer
}

// NewLspEngines returns an engine set that spawns binaries via locate,
// forwarding every child's stderr to stderr (nil discards it).
func NewLspEngines(locate Locator, stderr io.Writer) *LspEngines {
	return &LspEngines{clients: make(map[string]*lsp.Client), locate: locate, stderr: stderr}
}

func (e *LspEngines) EnsureReady(ctx context.Context, filetype, workingDir string) error {
	if EngineForFiletype(filetype) != KindLspClient {
		return nil
	}

	e.mu.Lock()
	client, ok := e.clients[filetype]
	if !ok {
		binary, args, found := e.locate(filetype)
		if !found {
			e.mu.Unlock()
			return fmt.Errorf("dispatch: no LSP binary configured for filetype %q", filetype)
		}
		spawned, err := lsp.Spawn(ctx, filetype, binary, args, e.stderr)
		if err != nil {
			e.mu.Unlock()
			return err
		}
		e.clients[filetype] = spawned
		client = spawned
		go func() {
			_ = spawned.Initialize(ctx, lsp.FileURI(workingDir))
		}()
	}
	e.mu.Unlock()

	state := client.WaitReady()
	if state != lsp.Ready {
		return fmt.Errorf("dispatch: LSP engine for %q did not become ready (state=%v)", filetype, state)
	}
	return nil
}

func (e *LspEngines) client(filetype string) *lsp.Client {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clients[filetype]
}

func (e *LspEngines) HandleEvent(ctx context.Context, req *types.EventNotificationRequest) error {
	fd, ok := req.FileData[req.Filepath]
	if !ok || len(fd.Filetypes) == 0 {
		return nil
	}
	filetype := fd.Filetypes[0]
	if EngineForFiletype(filetype) != KindLspClient {
		return nil
	}

	client := e.client(filetype)
	if client == nil || client.State() != lsp.Ready {
		return nil
	}

	// §4.G sync_files: reconcile the engine's whole opened-buffer view
	// against this request's file_data, restricted to buffers of this
	// engine's filetype (a cpp engine does not close python buffers it was
	// never told about).
	view := make(map[string]lsp.FileDataView, len(req.FileData))
	for path, f := range req.FileData {
		if len(f.Filetypes) > 0 && f.Filetypes[0] == filetype {
			view[path] = lsp.FileDataView{Filetypes: f.Filetypes, Contents: f.Contents}
		}
	}
	return client.SyncFiles(view)
}

func (e *LspEngines) ComputeCandidates(ctx context.Context, filetype, path, contents string, lineNum, startCodepoint int) ([]types.Candidate, error) {
	client := e.client(filetype)
	if client == nil || client.State() != lsp.Ready {
		return nil, nil
	}

	uri := lsp.FileURI(path)
	if err := client.SyncFile(uri, filetype, contents); err != nil {
		return nil, nil
	}
	cands, err := client.Complete(ctx, uri, lineNum-1, startCodepoint-1)
	if err != nil {
		// Per §7: completion RPC failure yields an empty list, not a
		// request failure.
		return nil, nil
	}
	return cands, nil
}

func (e *LspEngines) Available(filetype string) bool {
	client := e.client(filetype)
	return client != nil && client.State() == lsp.Ready
}
