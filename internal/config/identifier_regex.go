package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

// identifierRegexFile is the TOML shape of --identifier-regex-file: a flat
// table of filetype -> regex string, e.g.
//
//	go = "[^\\W\\d]\\w*"
//	proto = "[A-Za-z_][A-Za-z0-9_.]*"
type identifierRegexFile map[string]string

// LoadIdentifierRegexes parses path and validates every pattern, returning
// the filetype -> pattern-string map identifier.Registry.SetOverrides
// expects. A malformed regex for one filetype is reported but does not
// prevent the rest of the file from loading (SetOverrides independently
// skips anything that fails to compile).
func LoadIdentifierRegexes(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading identifier regex file %s: %w", path, err)
	}

	var table identifierRegexFile
	if err := toml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("config: parsing identifier regex file %s: %w", path, err)
	}

	var firstErr error
	for filetype, pattern := range table {
		if _, err := regexp.Compile(pattern); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("config: identifier regex for %q: %w", filetype, err)
		}
	}
	return table, firstErr
}
