// Package warmup implements the optional startup identifier-database
// pre-population walk (SPEC_FULL §3.2): glob the project for source files
// and feed each through the identifier extractor and
// clear_for_file_and_add, so a buffer's identifiers are already known
// before the editor sends its first FileReadyToParse.
//
// Grounded on the teacher's own startup indexing walk
// (internal/indexing.MasterIndex.IndexDirectory), trimmed to populate only
// the identifier database rather than a full symbol index - no persistence,
// no symbol graph, matching spec.md's non-goals.
package warmup

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/ycmd-go/internal/debug"
	"github.com/standardbeagle/ycmd-go/internal/identifier"
)

// Config names the include/exclude glob patterns to walk, relative to root.
type Config struct {
	Root    string
	Include []string
	Exclude []string
}

// Database is the subset of idcompleter.Database warmup needs - small
// enough to spell out directly and avoid an import cycle risk as the two
// packages evolve independently.
type Database interface {
	ClearForFileAndAdd(filetype, filepath string, contents []byte)
}

// FiletypeForExt maps a handful of common extensions to the filetype names
// the identifier registry and completers use. A file whose extension isn't
// recognised is skipped - warmup only pre-seeds filetypes completers will
// actually ask the identifier database about.
var FiletypeForExt = map[string]string{
	".go":   "go",
	".c":    "c",
	".h":    "c",
	".cc":   "cpp",
	".cpp":  "cpp",
	".hpp":  "cpp",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".java": "java",
	".rs":   "rust",
	".php":  "php",
	".cs":   "cs",
	".zig":  "zig",
}

// Run walks cfg.Root matching cfg.Include (default "**/*" if empty) minus
// cfg.Exclude, and seeds db with each matched file's identifiers. Errors
// reading an individual file are logged and skipped; a file this process
// cannot read is not a reason to abort warm-up for the rest of the project.
func Run(cfg Config, db Database, regexes *identifier.Registry) {
	include := cfg.Include
	if len(include) == 0 {
		include = []string{"**/*"}
	}

	seeded := 0
	_ = filepath.WalkDir(cfg.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(cfg.Root, path)
		if err != nil {
			return nil
		}

		if !matchesAny(include, rel) || matchesAny(cfg.Exclude, rel) {
			return nil
		}

		filetype, ok := FiletypeForExt[filepath.Ext(path)]
		if !ok {
			return nil
		}

		contents, err := os.ReadFile(path)
		if err != nil {
			debug.Log("warmup", "skipping %s: %v", path, err)
			return nil
		}

		db.ClearForFileAndAdd(filetype, path, contents)
		seeded++
		return nil
	})

	debug.Log("warmup", "seeded identifiers from %d files under %s", seeded, cfg.Root)
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, filepath.ToSlash(path)); ok {
			return true
		}
	}
	return false
}
