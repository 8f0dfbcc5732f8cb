package warmup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ycmd-go/internal/identifier"
)

type recordingDatabase struct {
	calls map[string]string // filepath -> filetype
}

func (r *recordingDatabase) ClearForFileAndAdd(filetype, filepath string, contents []byte) {
	r.calls[filepath] = filetype
}

func TestRunSeedsMatchingFilesAndSkipsExcluded(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "dep.go"), []byte("package dep"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# readme"), 0644))

	db := &recordingDatabase{calls: map[string]string{}}
	Run(Config{Root: root, Exclude: []string{"vendor/**"}}, db, identifier.NewRegistry())

	mainPath := filepath.Join(root, "main.go")
	vendorPath := filepath.Join(root, "vendor", "dep.go")
	readmePath := filepath.Join(root, "README.md")

	assert.Equal(t, "go", db.calls[mainPath])
	assert.NotContains(t, db.calls, vendorPath)
	assert.NotContains(t, db.calls, readmePath)
}

func TestFiletypeForExtIncludesZig(t *testing.T) {
	assert.Equal(t, "zig", FiletypeForExt[".zig"])
}
