package idcompleter

import (
	"github.com/standardbeagle/ycmd-go/internal/identifier"
	"github.com/standardbeagle/ycmd-go/internal/reqwrap"
	"github.com/standardbeagle/ycmd-go/internal/types"
)

// HandleEvent applies a decoded event_notification request to db. Per §4.E,
// only FileReadyToParse, InsertLeave and CurrentIdentifierFinished are
// acted on; every other event kind (FileSave, BufferVisit, BufferUnload)
// is acknowledged as a no-op, matching the dispatcher's "every completer
// sees every event" contract in component §4.H.
func (d *Database) HandleEvent(req *types.EventNotificationRequest) {
	fd, ok := req.FileData[req.Filepath]
	filetype := ""
	if ok && len(fd.Filetypes) > 0 {
		filetype = fd.Filetypes[0]
	}

	switch req.EventName {
	case types.EventFileReadyToParse:
		if ok {
			d.ClearForFileAndAdd(filetype, req.Filepath, []byte(fd.Contents))
		}

	case types.EventInsertLeave:
		if !ok {
			return
		}
		w := reqwrap.New([]byte(fd.Contents), req.LineNum, req.ColumnNum, filetype, d.regexes)
		line := w.LineBytes()
		word := identifier.UnderCursor(d.regexes, line, req.ColumnNum-1, filetype)
		d.AddSingleIdentifier(filetype, req.Filepath, word)

	case types.EventCurrentIdentifierFinished:
		if !ok {
			return
		}
		w := reqwrap.New([]byte(fd.Contents), req.LineNum, req.ColumnNum, filetype, d.regexes)
		line := w.LineBytes()
		word := identifier.BeforeCursor(d.regexes, line, req.ColumnNum-1, filetype)
		d.AddSingleIdentifier(filetype, req.Filepath, word)

	default:
		// FileSave, BufferVisit and any future event names: acknowledged,
		// nothing to update.
	}
}
