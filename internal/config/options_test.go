package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadOptionsFileKnownAndExtraKeys(t *testing.T) {
	path := writeTemp(t, "options.json", `{
		"min_num_of_chars_for_completion": 2,
		"min_num_identifier_candidate_chars": 0,
		"clangd_binary_path": "/usr/bin/clangd",
		"g_code_completion_uses_ultisnips_style_snippets": true
	}`)

	opts, err := LoadOptionsFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, opts.MinNumCharsForCompletion)
	assert.Equal(t, "/usr/bin/clangd", opts.ClangdBinaryPath)
	assert.Contains(t, opts.Extra, "g_code_completion_uses_ultisnips_style_snippets")
	assert.NotContains(t, opts.Extra, "clangd_binary_path")
}

func TestLoadOptionsFileMissingIsAnError(t *testing.T) {
	_, err := LoadOptionsFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
