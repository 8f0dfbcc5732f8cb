// Package mcpfacade is a supplemental, additive transport (SPEC_FULL §3.4):
// it exposes the same dispatcher operations as the §6 HTTP surface as MCP
// tools, for an AI coding assistant driving the server instead of a line
// editor. Disabled unless the CLI's --mcp flag is passed; the required
// transport remains internal/httpapi.
//
// Grounded on the teacher's internal/mcp/server.go tool-registration idiom:
// one mcp.Tool{Name, Description, InputSchema} per operation, registered
// with server.AddTool, each handler decoding req.Params.Arguments itself
// rather than relying on the SDK's schema-driven binding (so error
// messages stay under this server's control, matching the teacher's own
// "manual deserialization to avoid unknown field errors" comment).
package mcpfacade

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/standardbeagle/ycmd-go/internal/dispatch"
	"github.com/standardbeagle/ycmd-go/internal/types"
)

// Facade owns the MCP server instance and the dispatcher it forwards to.
type Facade struct {
	server     *mcp.Server
	dispatcher *dispatch.Dispatcher
}

// New builds a Facade wired to d and registers its tools.
func New(d *dispatch.Dispatcher) *Facade {
	f := &Facade{
		dispatcher: d,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "ycmd-mcp-facade",
			Version: "0.1.0",
		}, nil),
	}
	f.registerTools()
	return f
}

// Run serves tool calls over stdio until ctx is cancelled.
func (f *Facade) Run(ctx context.Context) error {
	return f.server.Run(ctx, &mcp.StdioTransport{})
}

func (f *Facade) registerTools() {
	f.server.AddTool(&mcp.Tool{
		Name:        "completions",
		Description: "Compute completion candidates at a buffer position, the same request POST /completions accepts.",
		InputSchema: simpleRequestSchema(),
	}, f.handleCompletions)

	f.server.AddTool(&mcp.Tool{
		Name:        "event_notification",
		Description: "Notify the completion engines of a buffer lifecycle event (FileReadyToParse, InsertLeave, ...), the same request POST /event_notification accepts.",
		InputSchema: eventRequestSchema(),
	}, f.handleEventNotification)

	f.server.AddTool(&mcp.Tool{
		Name:        "filter_and_sort_candidates",
		Description: "Filter and rank a candidate list against a query using the same subsequence-match scorer the completion engines use.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"candidates":    {Type: "array", Description: "Candidate strings to filter and rank"},
				"query":         {Type: "string", Description: "Query to match against"},
				"max_candidates": {Type: "integer", Description: "Maximum results to return, 0 means all"},
			},
			Required: []string{"candidates", "query"},
		},
	}, f.handleFilterAndSort)
}

func simpleRequestSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"line_num":          {Type: "integer", Description: "1-based line number"},
			"column_num":        {Type: "integer", Description: "1-based byte column"},
			"filepath":          {Type: "string", Description: "Absolute path of the buffer the cursor is in"},
			"working_directory": {Type: "string"},
			"force_semantic":    {Type: "boolean"},
			"file_data": {
				Type:        "object",
				Description: "Map of filepath to {filetypes, contents} for every open buffer",
			},
		},
		Required: []string{"line_num", "column_num", "filepath", "file_data"},
	}
}

func eventRequestSchema() *jsonschema.Schema {
	s := simpleRequestSchema()
	s.Properties["event_name"] = &jsonschema.Schema{
		Type:        "string",
		Description: "One of FileReadyToParse, FileSave, BufferVisit, BufferUnload, InsertLeave, CurrentIdentifierFinished",
	}
	s.Required = append(s.Required, "event_name")
	return s
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcpfacade: marshaling result: %w", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(body)}}}, nil
}

func (f *Facade) handleCompletions(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var r types.SimpleRequest
	if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
		return nil, fmt.Errorf("mcpfacade: invalid completions arguments: %w", err)
	}

	res, err := f.dispatcher.ComputeCandidates(ctx, &r)
	if err != nil {
		return nil, err
	}
	candidates := res.Candidates
	if candidates == nil {
		candidates = []types.Candidate{}
	}
	return jsonResult(map[string]interface{}{
		"completions":             candidates,
		"completion_start_column": res.CompletionStartColumn,
	})
}

func (f *Facade) handleEventNotification(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var r types.EventNotificationRequest
	if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
		return nil, fmt.Errorf("mcpfacade: invalid event_notification arguments: %w", err)
	}
	f.dispatcher.HandleEvent(ctx, &r)
	return jsonResult(map[string]interface{}{})
}

func (f *Facade) handleFilterAndSort(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var body struct {
		Candidates    []string `json:"candidates"`
		Query         string   `json:"query"`
		MaxCandidates int      `json:"max_candidates"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &body); err != nil {
		return nil, fmt.Errorf("mcpfacade: invalid filter_and_sort_candidates arguments: %w", err)
	}

	out, err := filterAndSort(body.Query, body.Candidates, body.MaxCandidates)
	if err != nil {
		return nil, err
	}
	return jsonResult(out)
}
