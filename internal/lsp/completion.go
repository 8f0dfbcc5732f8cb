package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/standardbeagle/ycmd-go/internal/types"
)

// kindNames mirrors LSP's CompletionItemKind enum (3.17 §Completion); used
// only to populate the wire candidate's informational Kind field.
var kindNames = map[CompletionItemKind]string{
	1: "Text", 2: "Method", 3: "Function", 4: "Constructor", 5: "Field",
	6: "Variable", 7: "Class", 8: "Interface", 9: "Module", 10: "Property",
	11: "Unit", 12: "Value", 13: "Enum", 14: "Keyword", 15: "Snippet",
	16: "Color", 17: "File", 18: "Reference", 19: "Folder", 20: "EnumMember",
	21: "Constant", 22: "Struct", 23: "Event", 24: "Operator", 25: "TypeParameter",
}

// Complete requests completions at (line, col) (0-based LSP Position) in
// uri and translates the result to this server's wire Candidate shape.
// Both CompletionList and a bare CompletionItem[] response are accepted,
// per the LSP spec's "result: CompletionItem[] | CompletionList | null".
func (c *Client) Complete(ctx context.Context, uri string, line, col int) ([]types.Candidate, error) {
	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: line, Character: col},
		},
	}

	var raw json.RawMessage
	if err := c.Call(ctx, "textDocument/completion", params, &raw); err != nil {
		return nil, fmt.Errorf("lsp[%s]: completion: %w", c.Filetype, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	items, err := decodeCompletionResult(raw)
	if err != nil {
		return nil, fmt.Errorf("lsp[%s]: decoding completion result: %w", c.Filetype, err)
	}

	out := make([]types.Candidate, 0, len(items))
	for _, it := range items {
		out = append(out, translateItem(it))
	}
	return out, nil
}

func decodeCompletionResult(raw json.RawMessage) ([]CompletionItem, error) {
	var list CompletionList
	if err := json.Unmarshal(raw, &list); err == nil && (list.Items != nil || list.IsIncomplete) {
		return list.Items, nil
	}

	var items []CompletionItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	// Fall back to the CompletionList shape even with an empty items list
	// (IsIncomplete defaulting to false looks identical to the zero value
	// above, so re-decode unconditionally as a last resort).
	var list2 CompletionList
	if err := json.Unmarshal(raw, &list2); err != nil {
		return nil, err
	}
	return list2.Items, nil
}

func translateItem(it CompletionItem) types.Candidate {
	insertion := it.Label
	if it.InsertText != "" {
		insertion = it.InsertText
	}
	if it.TextEdit != nil && it.TextEdit.NewText != "" {
		insertion = it.TextEdit.NewText
	}

	detailedInfo := it.Detail
	if doc := documentationString(it.Documentation); doc != "" {
		detailedInfo = doc
	}

	return types.Candidate{
		InsertionText: insertion,
		MenuText:      it.Label,
		DetailedInfo:  detailedInfo,
		Kind:          types.CandidateKind(kindNames[it.Kind]),
	}
}

// documentationString normalises CompletionItem.Documentation, which per
// LSP is either a bare string or a MarkupContent{kind, value} object, to
// plain text. Returns "" when absent or of an unrecognised shape.
func documentationString(doc interface{}) string {
	switch v := doc.(type) {
	case string:
		return v
	case map[string]interface{}:
		if value, ok := v["value"].(string); ok {
			return value
		}
	}
	return ""
}
