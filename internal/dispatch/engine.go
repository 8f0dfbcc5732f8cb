// Package dispatch implements the completion dispatcher - component §4.H:
// per-filetype engine selection between the identifier completer and a
// lazily-spawned LSP client, and the event/completion-request gating logic
// that combines them.
package dispatch

import (
	"context"

	"github.com/standardbeagle/ycmd-go/internal/types"
)

// Kind is the completer's tagged-variant discriminant: completers are
// selected by matching on a tagged variant, not by virtual dispatch.
type Kind string

const (
	KindIdentifier Kind = "Identifier"
	KindLspClient  Kind = "LspClient"
	KindNone       Kind = "None"
)

// EngineForFiletype picks the semantic engine kind for a filetype: cpp and
// python (reserved for a future LSP binary) get an LSP-backed engine,
// everything else has none. The identifier engine always applies,
// independent of this choice.
func EngineForFiletype(filetype string) Kind {
	switch filetype {
	case "cpp", "c":
		return KindLspClient
	case "python":
		return KindLspClient
	default:
		return KindNone
	}
}

// SemanticEngine is the capability set a semantic (LSP-backed) completer
// exposes to the dispatcher.
type SemanticEngine interface {
	// EnsureReady lazily spawns and initialises the engine for filetype if
	// it has not been already, blocking until it is ready or has failed.
	EnsureReady(ctx context.Context, filetype, workingDir string) error

	// HandleEvent synchronises the engine's view of open buffers for this
	// event (sync_files and friends).
	HandleEvent(ctx context.Context, req *types.EventNotificationRequest) error

	// ComputeCandidates asks the engine for completions at the given
	// buffer/position. startCodepoint is the 1-based codepoint index of the
	// identifier's start (RequestWrap.StartCodepoint), per §4.G's
	// Position{character = req.start_codepoint-1} - not the cursor column.
	// Returns (nil, nil) when no engine applies or it is not ready - never
	// an error the caller must special-case.
	ComputeCandidates(ctx context.Context, filetype, path string, contents string, lineNum, startCodepoint int) ([]types.Candidate, error)

	// Available reports whether the engine for filetype is initialised and
	// ready to answer completions right now (semantic_completion_available).
	Available(filetype string) bool
}
