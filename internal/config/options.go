// Package config loads the server's two configuration layers: the required
// JSON user_options file (§6) and the optional KDL server-tuning file and
// TOML identifier-regex overrides file from SPEC_FULL §2.3. Adapted from
// the teacher's internal/config package, trimmed to this server's knobs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Options is the parsed --options_file payload. Recognised keys get typed
// fields; everything else passes through untouched in Extra so it can be
// echoed back to completers as extra_conf_data (§6).
type Options struct {
	MinNumCharsForCompletion    int    `json:"min_num_of_chars_for_completion"`
	MinNumIdentifierCandChars   int    `json:"min_num_identifier_candidate_chars"`
	ClangdBinaryPath            string `json:"clangd_binary_path"`

	// Extra holds every key of the options file not named above, keyed by
	// its original JSON name, so it can be passed through to completers
	// unchanged (§6: "Any other keys are passed through untouched").
	Extra map[string]json.RawMessage `json:"-"`
}

// defaultOptions mirrors ycmd's own defaults for the two gating thresholds.
func defaultOptions() Options {
	return Options{
		MinNumCharsForCompletion:  0,
		MinNumIdentifierCandChars: 0,
	}
}

// LoadOptionsFile reads and parses path, the --options_file argument. A
// missing or unparseable file is the CLI's documented non-zero-exit
// condition (§6's CLI surface), so this simply returns the error for main
// to report.
func LoadOptionsFile(path string) (Options, error) {
	opts := defaultOptions()

	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("config: reading options file %s: %w", path, err)
	}

	var known struct {
		MinNumCharsForCompletion  *int    `json:"min_num_of_chars_for_completion"`
		MinNumIdentifierCandChars *int    `json:"min_num_identifier_candidate_chars"`
		ClangdBinaryPath          *string `json:"clangd_binary_path"`
	}
	if err := json.Unmarshal(raw, &known); err != nil {
		return opts, fmt.Errorf("config: parsing options file %s: %w", path, err)
	}
	if known.MinNumCharsForCompletion != nil {
		opts.MinNumCharsForCompletion = *known.MinNumCharsForCompletion
	}
	if known.MinNumIdentifierCandChars != nil {
		opts.MinNumIdentifierCandChars = *known.MinNumIdentifierCandChars
	}
	if known.ClangdBinaryPath != nil {
		opts.ClangdBinaryPath = *known.ClangdBinaryPath
	}

	var everything map[string]json.RawMessage
	if err := json.Unmarshal(raw, &everything); err != nil {
		return opts, fmt.Errorf("config: parsing options file %s: %w", path, err)
	}
	for _, known := range []string{
		"min_num_of_chars_for_completion",
		"min_num_identifier_candidate_chars",
		"clangd_binary_path",
	} {
		delete(everything, known)
	}
	opts.Extra = everything

	return opts, nil
}
