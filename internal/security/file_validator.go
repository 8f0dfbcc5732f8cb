// Package security validates SimpleRequest's filepath against
// directory-traversal and working-directory escape, per SPEC_FULL §3.6 and
// §7's "input validation returns empty / 400-class error" principle. It is
// the one place the otherwise-total request-decoding layer meets a real
// trust boundary: a filepath is attacker-controlled input from the editor's
// JSON body, not a value this server picked itself.
//
// Adapted from the teacher's internal/security/file_validator.go (a
// large-file header/magic-bytes validator, a different threat model for
// indexing untrusted repository contents); the only part of that design
// this server's trust boundary needs is its "validate before trusting a
// path" shape.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateRequestPath rejects a filepath that escapes workingDirectory via
// ".." segments or a symlink, or that is not absolute. An empty
// workingDirectory skips the containment check (no project root was
// declared).
func ValidateRequestPath(requestPath, workingDirectory string) error {
	if requestPath == "" {
		return fmt.Errorf("security: empty filepath")
	}
	if !filepath.IsAbs(requestPath) {
		return fmt.Errorf("security: filepath %q is not absolute", requestPath)
	}

	cleaned := filepath.Clean(requestPath)
	if workingDirectory == "" {
		return nil
	}

	root, err := filepath.Abs(workingDirectory)
	if err != nil {
		return fmt.Errorf("security: resolving working_directory: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(cleaned)
	if err != nil {
		// A file that does not exist yet (a buffer the editor never saved)
		// is not a symlink-escape attempt; fall back to the cleaned path.
		resolved = cleaned
	}

	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return fmt.Errorf("security: filepath %q escapes working_directory: %w", requestPath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("security: filepath %q escapes working_directory %q", requestPath, workingDirectory)
	}
	return nil
}
