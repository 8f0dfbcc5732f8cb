package dispatch

import (
	"context"
	"testing"

	"github.com/standardbeagle/ycmd-go/internal/idcompleter"
	"github.com/standardbeagle/ycmd-go/internal/types"
)

type fakeSemantic struct {
	ready   bool
	results []types.Candidate
	calls   int
}

func (f *fakeSemantic) EnsureReady(ctx context.Context, filetype, workingDir string) error {
	f.ready = true
	return nil
}
func (f *fakeSemantic) HandleEvent(ctx context.Context, req *types.EventNotificationRequest) error {
	return nil
}
func (f *fakeSemantic) ComputeCandidates(ctx context.Context, filetype, path, contents string, lineNum, startCodepoint int) ([]types.Candidate, error) {
	f.calls++
	return f.results, nil
}
func (f *fakeSemantic) Available(filetype string) bool { return f.ready }

func TestCompletionGatingBelowThreshold(t *testing.T) {
	d := NewDispatcher(idcompleter.NewDatabase(nil), nil, nil, 2, 0)
	req := &types.SimpleRequest{
		Filepath:  "/a.go",
		LineNum:   1,
		ColumnNum: 2,
		FileData: map[string]types.FileData{
			"/a.go": {Filetypes: []string{"go"}, Contents: "f"},
		},
	}
	res, err := d.ComputeCandidates(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Candidates) != 0 {
		t.Fatalf("expected empty result below threshold, got %v", res.Candidates)
	}
}

func TestCompletionGatingBelowThresholdWithForceSemanticFalse(t *testing.T) {
	// S6: force_semantic present but explicitly false must still apply the
	// min_num_of_chars_for_completion gate, same as force_semantic absent.
	sem := &fakeSemantic{results: []types.Candidate{{InsertionText: "fooSemantic"}}}
	d := NewDispatcher(idcompleter.NewDatabase(nil), sem, nil, 2, 0)
	force := false
	req := &types.SimpleRequest{
		Filepath:      "/a.go",
		LineNum:       1,
		ColumnNum:     2,
		ForceSemantic: &force,
		FileData: map[string]types.FileData{
			"/a.go": {Filetypes: []string{"go"}, Contents: "f"},
		},
	}
	res, err := d.ComputeCandidates(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Candidates) != 0 {
		t.Fatalf("expected empty result below threshold with force_semantic=false, got %v", res.Candidates)
	}
	if sem.calls != 0 {
		t.Fatalf("expected semantic engine not to be called below threshold, got %d calls", sem.calls)
	}
}

func TestCompletionFallsBackToIdentifierEngine(t *testing.T) {
	ids := idcompleter.NewDatabase(nil)
	ids.AddSingleIdentifier("cpp", "/a.go", "fooBar")

	sem := &fakeSemantic{} // no results
	d := NewDispatcher(ids, sem, nil, 1, 0)
	req := &types.SimpleRequest{
		Filepath:  "/a.go",
		LineNum:   1,
		ColumnNum: 4,
		FileData: map[string]types.FileData{
			"/a.go": {Filetypes: []string{"cpp"}, Contents: "foo"},
		},
	}
	res, err := d.ComputeCandidates(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].InsertionText != "fooBar" {
		t.Fatalf("expected identifier fallback, got %v", res.Candidates)
	}
}

func TestCompletionPrefersSemanticResults(t *testing.T) {
	ids := idcompleter.NewDatabase(nil)
	ids.AddSingleIdentifier("cpp", "/a.cpp", "fooBar")

	sem := &fakeSemantic{results: []types.Candidate{{InsertionText: "fooSemantic"}}}
	d := NewDispatcher(ids, sem, nil, 1, 0)
	req := &types.SimpleRequest{
		Filepath:  "/a.cpp",
		LineNum:   1,
		ColumnNum: 4,
		FileData: map[string]types.FileData{
			"/a.cpp": {Filetypes: []string{"cpp"}, Contents: "foo"},
		},
	}
	res, err := d.ComputeCandidates(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].InsertionText != "fooSemantic" {
		t.Fatalf("expected semantic result to win, got %v", res.Candidates)
	}
	if sem.calls != 1 {
		t.Fatalf("expected semantic engine to be called once, got %d", sem.calls)
	}
}

func TestCompletionForceSemanticSuppressesFallback(t *testing.T) {
	ids := idcompleter.NewDatabase(nil)
	ids.AddSingleIdentifier("cpp", "/a.cpp", "fooBar")

	sem := &fakeSemantic{} // no results
	d := NewDispatcher(ids, sem, nil, 1, 0)
	force := true
	req := &types.SimpleRequest{
		Filepath:      "/a.cpp",
		LineNum:       1,
		ColumnNum:     4,
		ForceSemantic: &force,
		FileData: map[string]types.FileData{
			"/a.cpp": {Filetypes: []string{"cpp"}, Contents: "foo"},
		},
	}
	res, err := d.ComputeCandidates(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Candidates) != 0 {
		t.Fatalf("force_semantic should suppress identifier fallback, got %v", res.Candidates)
	}
}

func TestCompletionMinIdentifierCandidateChars(t *testing.T) {
	ids := idcompleter.NewDatabase(nil)
	ids.AddSingleIdentifier("go", "/a.go", "fo")
	ids.AddSingleIdentifier("go", "/a.go", "fooBar")

	d := NewDispatcher(ids, nil, nil, 1, 3)
	req := &types.SimpleRequest{
		Filepath:  "/a.go",
		LineNum:   1,
		ColumnNum: 2,
		FileData: map[string]types.FileData{
			"/a.go": {Filetypes: []string{"go"}, Contents: "f"},
		},
	}
	res, err := d.ComputeCandidates(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].InsertionText != "fooBar" {
		t.Fatalf("expected only fooBar to survive the minimum-length filter, got %v", res.Candidates)
	}
}
