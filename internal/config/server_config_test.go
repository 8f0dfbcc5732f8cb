package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), ".ycmd.kdl"))
	require.NoError(t, err)
	assert.Equal(t, defaultServerConfig(), cfg)
}

func TestLoadServerConfigParsesKnownNodes(t *testing.T) {
	path := writeTemp(t, ".ycmd.kdl", `
filter_sort {
	workers 4
}
lsp {
	spawn_timeout_ms 5000
}
warmup {
	include "**/*.go" "**/*.py"
	exclude "vendor/**"
}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.FilterSortWorkers)
	assert.Equal(t, 5000, cfg.LSPSpawnTimeoutMS)
	assert.True(t, cfg.Warmup.Enabled)
	assert.Equal(t, []string{"**/*.go", "**/*.py"}, cfg.Warmup.Include)
	assert.Equal(t, []string{"vendor/**"}, cfg.Warmup.Exclude)
}
