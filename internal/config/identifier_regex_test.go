package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIdentifierRegexesValid(t *testing.T) {
	path := writeTemp(t, "identifiers.toml", `
go = "[^\\W\\d]\\w*"
proto = "[A-Za-z_][A-Za-z0-9_.]*"
`)

	overrides, err := LoadIdentifierRegexes(path)
	require.NoError(t, err)
	assert.Equal(t, "[^\\W\\d]\\w*", overrides["go"])
	assert.Contains(t, overrides, "proto")
}

func TestLoadIdentifierRegexesReportsBadPattern(t *testing.T) {
	path := writeTemp(t, "identifiers.toml", `go = "[unterminated"`)

	_, err := LoadIdentifierRegexes(path)
	assert.Error(t, err)
}
