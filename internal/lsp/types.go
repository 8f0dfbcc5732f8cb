package lsp

import "strings"

// FileURI converts a filesystem path to a file:// URI. Paths are assumed
// to already be absolute, as every SimpleRequest.filepath this server
// receives is.
func FileURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "file://" + path
}

// The subset of LSP 3.17 types this client actually exercises. Field names
// follow the spec's camelCase wire names.

type InitializeParams struct {
	ProcessID    int                `json:"processId"`
	RootURI      string             `json:"rootUri"`
	Capabilities ClientCapabilities `json:"capabilities"`
}

type ClientCapabilities struct {
	Workspace    WorkspaceClientCapabilities    `json:"workspace"`
	TextDocument TextDocumentClientCapabilities `json:"textDocument"`
}

type WorkspaceClientCapabilities struct {
	ApplyEdit bool `json:"applyEdit"`
}

type TextDocumentClientCapabilities struct {
	Completion CompletionClientCapabilities `json:"completion"`
}

type CompletionClientCapabilities struct {
	CompletionItem struct {
		SnippetSupport bool `json:"snippetSupport"`
	} `json:"completionItem"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type Position struct {
	Line      int `json:"line"`      // 0-based
	Character int `json:"character"` // 0-based; this client sends a codepoint offset
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type CompletionParams struct {
	TextDocumentPositionParams
}

// CompletionItemKind mirrors the LSP numeric enum (1=Text ... 25=TypeParameter).
type CompletionItemKind int

type CompletionItem struct {
	Label         string             `json:"label"`
	Kind          CompletionItemKind `json:"kind,omitempty"`
	Detail        string             `json:"detail,omitempty"`
	Documentation interface{}        `json:"documentation,omitempty"`
	InsertText    string             `json:"insertText,omitempty"`
	TextEdit      *TextEdit          `json:"textEdit,omitempty"`
}

// Range is a half-open [start, end) span in a document, in LSP Positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextEdit is the replace-range completion shape clangd commonly returns
// instead of a bare insertText - §4.G: insertion_text prefers
// textEdit.newText over insertText over label.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// MarkupContent is LSP's {kind, value} documentation shape (markdown or
// plaintext); Documentation on a CompletionItem is either this or a bare
// string.
type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// CompletionList is what `textDocument/completion` returns when not a bare
// CompletionItem array; Client.Complete normalises both shapes.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}
