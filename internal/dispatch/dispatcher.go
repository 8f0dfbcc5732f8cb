package dispatch

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/standardbeagle/ycmd-go/internal/identifier"
	"github.com/standardbeagle/ycmd-go/internal/idcompleter"
	"github.com/standardbeagle/ycmd-go/internal/reqwrap"
	"github.com/standardbeagle/ycmd-go/internal/types"
)

// Dispatcher combines the always-present identifier completer with the
// per-filetype semantic (LSP) engine, implementing component §4.H's event
// fan-out and completion-request gating.
type Dispatcher struct {
	Identifiers *idcompleter.Database
	Semantic    SemanticEngine
	Regexes     *identifier.Registry

	MinCharsForCompletion       int
	MinIdentifierCandidateChars int
}

// NewDispatcher wires a dispatcher. minChars/minIdentChars are the
// user_options-configured gating thresholds (§4.H steps 1 and 3).
func NewDispatcher(ids *idcompleter.Database, semantic SemanticEngine, regexes *identifier.Registry, minChars, minIdentChars int) *Dispatcher {
	return &Dispatcher{
		Identifiers:                 ids,
		Semantic:                    semantic,
		Regexes:                     regexes,
		MinCharsForCompletion:       minChars,
		MinIdentifierCandidateChars: minIdentChars,
	}
}

// HandleEvent fans the event out concurrently to the identifier completer
// and the semantic engine, per §4.H step 2: both run to completion before
// this returns. If a semantic engine applies to the buffer's filetype and
// is not yet initialised, it is initialised first and waited on.
func (d *Dispatcher) HandleEvent(ctx context.Context, req *types.EventNotificationRequest) {
	fd, ok := req.FileData[req.Filepath]
	filetype := ""
	if ok && len(fd.Filetypes) > 0 {
		filetype = fd.Filetypes[0]
	}

	if d.Semantic != nil && EngineForFiletype(filetype) == KindLspClient {
		_ = d.Semantic.EnsureReady(ctx, filetype, req.WorkingDirectory)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Identifiers.HandleEvent(req)
	}()

	if d.Semantic != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Semantic.HandleEvent(ctx, req)
		}()
	}
	wg.Wait()
}

// CompletionResult is the dispatcher's answer to a completion request,
// ready to be rendered as the wire CompletionResponse.
type CompletionResult struct {
	Candidates            []types.Candidate
	CompletionStartColumn int
}

// ComputeCandidates implements §4.H's completion-request steps 1-4.
func (d *Dispatcher) ComputeCandidates(ctx context.Context, req *types.SimpleRequest) (CompletionResult, error) {
	fd := req.FileData[req.Filepath]
	filetype := ""
	if len(fd.Filetypes) > 0 {
		filetype = fd.Filetypes[0]
	}

	w := reqwrap.New([]byte(fd.Contents), req.LineNum, req.ColumnNum, filetype, d.Regexes)
	result := CompletionResult{CompletionStartColumn: w.StartColumn()}

	forceSemantic := req.ForceSemantic != nil && *req.ForceSemantic
	query := w.QueryString()

	// Step 1: gating on query length, unless force_semantic is explicitly
	// true - absent or explicitly false both apply the gate (S6).
	if !forceSemantic && utf8.RuneCountInString(query) < d.MinCharsForCompletion {
		return result, nil
	}

	// Step 2: ask the semantic engine, at the identifier's start position
	// (§4.G: Position{line = req.line-1, character = req.start_codepoint-1}),
	// not the cursor column - the engine completes the identifier being
	// typed, and ycmd re-filters its results client-side from that start.
	var semanticCands []types.Candidate
	if d.Semantic != nil && EngineForFiletype(filetype) == KindLspClient {
		if err := d.Semantic.EnsureReady(ctx, filetype, req.WorkingDirectory); err == nil {
			cands, err := d.Semantic.ComputeCandidates(ctx, filetype, req.Filepath, fd.Contents, req.LineNum, w.StartCodepoint())
			if err == nil {
				semanticCands = cands
			}
		}
	}

	if len(semanticCands) > 0 {
		result.Candidates = semanticCands
		return result, nil
	}

	if forceSemantic {
		// Semantic was explicitly required and produced nothing: do not
		// fall back to the identifier engine.
		return result, nil
	}

	// Step 3: identifier engine fallback, filtered by minimum length.
	identCands, err := d.Identifiers.ResultsForQueryAndType(query, filetype, 0)
	if err != nil {
		return result, err
	}
	for _, text := range identCands {
		if utf8.RuneCountInString(text) < d.MinIdentifierCandidateChars {
			continue
		}
		result.Candidates = append(result.Candidates, types.Candidate{InsertionText: text})
	}
	return result, nil
}

// SemanticCompletionAvailable reports whether the semantic engine for the
// given request's buffer filetype is initialised and ready.
func (d *Dispatcher) SemanticCompletionAvailable(req *types.SimpleRequest) bool {
	if d.Semantic == nil {
		return false
	}
	fd := req.FileData[req.Filepath]
	if len(fd.Filetypes) == 0 {
		return false
	}
	return d.Semantic.Available(fd.Filetypes[0])
}
