// Package types holds the wire-level request/response shapes shared across
// the dispatcher, the identifier completer and the LSP engines - the
// SimpleRequest/FileData/Candidate data model from §3, plus the
// event_notification enum from §6. Nothing here owns behaviour; it is the
// vocabulary the other packages compute over.
package types

import "encoding/json"

// FileData is one buffer as the editor reports it: an ordered list of
// filetypes (the first is authoritative, §3) and its full UTF-8 contents.
type FileData struct {
	Filetypes []string `json:"filetypes"`
	Contents  string   `json:"contents"`
}

// SimpleRequest is the position/buffer payload common to most of §6's
// handlers. Per the open-question decisions recorded in DESIGN.md, the wire
// spelling is fixed to "filepath" and "column_num"; the reference server's
// alternate spellings ("file_path", "column_number") are not accepted.
type SimpleRequest struct {
	LineNum          int                        `json:"line_num"`
	ColumnNum        int                        `json:"column_num"`
	Filepath         string                     `json:"filepath"`
	FileData         map[string]FileData        `json:"file_data"`
	WorkingDirectory string                     `json:"working_directory,omitempty"`
	ExtraConfData    map[string]json.RawMessage `json:"extra_conf_data,omitempty"`

	// ForceSemantic is an optional<bool>, not a Nullable<bool>. Absent (nil)
	// and an explicit false behave the same in the dispatcher: the length
	// gate applies and an empty semantic result falls through to the
	// identifier engine (§4.H steps 1-2). Only an explicit true skips both.
	ForceSemantic *bool `json:"force_semantic,omitempty"`
}

// EventKind is one of the six event_notification event names, serialised
// as the matching string per §6's enumeration rule.
type EventKind string

const (
	EventFileReadyToParse          EventKind = "FileReadyToParse"
	EventFileSave                  EventKind = "FileSave"
	EventBufferVisit               EventKind = "BufferVisit"
	EventBufferUnload              EventKind = "BufferUnload"
	EventInsertLeave               EventKind = "InsertLeave"
	EventCurrentIdentifierFinished EventKind = "CurrentIdentifierFinished"
)

// EventNotificationRequest is a SimpleRequest tagged with the event that
// triggered it (POST /event_notification).
type EventNotificationRequest struct {
	SimpleRequest
	EventName EventKind `json:"event_name"`
}

// CandidateKind is LSP's CompletionItemKind translated to a short textual
// tag (§4.G); the identifier engine leaves it empty.
type CandidateKind string

// Candidate is a single completion result as reported to the editor -
// distinct from internal/candidate.Candidate, which is the filter-and-sort
// engine's interned, pre-tokenised internal representation of the same
// string. Optional fields are omitted entirely when empty, per §6's
// optional<T> JSON rule.
type Candidate struct {
	InsertionText string        `json:"insertion_text"`
	MenuText      string        `json:"menu_text,omitempty"`
	ExtraMenuInfo string        `json:"extra_menu_info,omitempty"`
	Kind          CandidateKind `json:"kind,omitempty"`
	DetailedInfo  string        `json:"detailed_info,omitempty"`
}
