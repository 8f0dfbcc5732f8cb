package idcompleter

import (
	"testing"

	"github.com/standardbeagle/ycmd-go/internal/types"
)

func TestClearForFileAndAddThenQuery(t *testing.T) {
	db := NewDatabase(nil)
	db.ClearForFileAndAdd("go", "/a.go", []byte("func fooBar() { var fooBaz int }"))

	got, err := db.ResultsForQueryAndType("fooB", "go", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 matches", got)
	}
}

func TestClearForFileAndAddReplacesPreviousContents(t *testing.T) {
	db := NewDatabase(nil)
	db.ClearForFileAndAdd("go", "/a.go", []byte("oldIdentifier"))
	db.ClearForFileAndAdd("go", "/a.go", []byte("newIdentifier"))

	got, err := db.ResultsForQueryAndType("old", "go", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected oldIdentifier to be gone after re-parse, got %v", got)
	}
}

func TestAddSingleIdentifierNoDuplicate(t *testing.T) {
	db := NewDatabase(nil)
	db.AddSingleIdentifier("go", "/a.go", "fooBar")
	db.AddSingleIdentifier("go", "/a.go", "fooBar")

	got, err := db.ResultsForQueryAndType("fooBar", "go", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v, want exactly one fooBar", got)
	}
}

func TestClearForFile(t *testing.T) {
	db := NewDatabase(nil)
	db.ClearForFileAndAdd("go", "/a.go", []byte("fooBar"))
	db.ClearForFile("/a.go")

	got, err := db.ResultsForQueryAndType("fooBar", "go", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no identifiers after ClearForFile, got %v", got)
	}
}

func TestHandleEventFileReadyToParse(t *testing.T) {
	db := NewDatabase(nil)
	req := &types.EventNotificationRequest{
		SimpleRequest: types.SimpleRequest{
			Filepath: "/a.go",
			FileData: map[string]types.FileData{
				"/a.go": {Filetypes: []string{"go"}, Contents: "func fooBar() {}"},
			},
		},
		EventName: types.EventFileReadyToParse,
	}
	db.HandleEvent(req)

	got, err := db.ResultsForQueryAndType("fooBar", "go", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "fooBar" {
		t.Fatalf("got %v, want [fooBar]", got)
	}
}

func TestAnyFiletypeBucketAlwaysSearched(t *testing.T) {
	db := NewDatabase(nil)
	db.ClearForFileAndAdd("", "/notes.txt", []byte("globalWord"))

	got, err := db.ResultsForQueryAndType("globalWord", "go", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected type-less identifiers to be visible from go query, got %v", got)
	}
}
