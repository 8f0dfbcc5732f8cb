package lsp

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// openedFile tracks one buffer's LSP-visible state: whether didOpen has
// been sent, the version number LSP requires to monotonically increase on
// every didChange, and a content fingerprint used to skip sending a
// didChange for a buffer whose text hasn't actually changed since the last
// sync (editors resend full contents on every request).
type openedFile struct {
	uri     string
	version int
	hash    uint64
}

// FileSync tracks every buffer currently open() with this client, keyed by
// its LSP document URI.
type FileSync struct {
	mu    sync.Mutex
	files map[string]*openedFile
}

func newFileSync() *FileSync {
	return &FileSync{files: make(map[string]*openedFile)}
}

func fingerprint(contents string) uint64 {
	return xxhash.Sum64String(contents)
}

// SyncFile ensures the LSP server's view of uri matches contents: sends
// didOpen the first time it sees uri, and a didChange (full-text
// replacement, the simplest and most robust sync mode) only when the
// content fingerprint actually differs from what was last sent - an
// unchanged buffer produces no LSP traffic at all.
func (c *Client) SyncFile(uri, languageID, contents string) error {
	h := fingerprint(contents)

	c.sync.mu.Lock()
	of, ok := c.sync.files[uri]
	if !ok {
		of = &openedFile{uri: uri, version: 1, hash: h}
		c.sync.files[uri] = of
		c.sync.mu.Unlock()

		return c.Notify("textDocument/didOpen", DidOpenTextDocumentParams{
			TextDocument: TextDocumentItem{
				URI:        uri,
				LanguageID: languageID,
				Version:    1,
				Text:       contents,
			},
		})
	}

	if of.hash == h {
		c.sync.mu.Unlock()
		return nil
	}
	of.version++
	of.hash = h
	version := of.version
	c.sync.mu.Unlock()

	return c.Notify("textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument: VersionedTextDocumentIdentifier{URI: uri, Version: version},
		ContentChanges: []TextDocumentContentChangeEvent{
			{Text: contents},
		},
	})
}

// SyncFiles implements §4.G's sync_files: for every path in fileData that
// has at least one filetype, ensure a didOpen/didChange has been sent (via
// SyncFile), then send didClose for every previously-opened uri that is no
// longer present in fileData. A given file's own notifications stay
// totally ordered (SyncFile already serialises per-uri), and this sweep
// always runs to completion before the caller's RPC, satisfying §5's
// "sync_files runs to completion before the triggering request's response
// is generated". fileData is not filtered by filetype here; callers pass
// only the buffers this client's engine serves.
func (c *Client) SyncFiles(fileData map[string]FileDataView) error {
	present := make(map[string]bool, len(fileData))
	for path, fd := range fileData {
		if len(fd.Filetypes) == 0 {
			continue
		}
		uri := FileURI(path)
		present[uri] = true
		if err := c.SyncFile(uri, fd.Filetypes[0], fd.Contents); err != nil {
			return err
		}
	}

	c.sync.mu.Lock()
	var stale []string
	for uri := range c.sync.files {
		if !present[uri] {
			stale = append(stale, uri)
		}
	}
	c.sync.mu.Unlock()

	for _, uri := range stale {
		if err := c.CloseFile(uri); err != nil {
			return err
		}
	}
	return nil
}

// FileDataView is the minimal view of a buffer SyncFiles needs - mirrors
// types.FileData without importing internal/types, so this package stays
// free of a dependency on the wire request shape.
type FileDataView struct {
	Filetypes []string
	Contents  string
}

// CloseFile sends didClose and forgets uri's tracked state.
func (c *Client) CloseFile(uri string) error {
	c.sync.mu.Lock()
	_, ok := c.sync.files[uri]
	delete(c.sync.files, uri)
	c.sync.mu.Unlock()
	if !ok {
		return nil
	}
	return c.Notify("textDocument/didClose", DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	})
}
