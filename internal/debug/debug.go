// Package debug provides the server's component-tagged logger.
//
// Output is off by default; the CLI wires it to --out/--err or to a debug
// log file. All writes are funneled through a single mutex-guarded writer so
// concurrent completers can log without interleaving partial lines.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug can be overridden at build time:
// go build -ldflags "-X github.com/standardbeagle/ycmd-go/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	output io.Writer
	mu     sync.Mutex
)

// SetOutput sets the writer debug output is sent to. Pass nil to disable.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func getOutput() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// IsEnabled reports whether logging is currently active.
func IsEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("YCMD_DEBUG")
	return v == "1" || v == "true"
}

// Printf writes an unstructured debug line.
func Printf(format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	w := getOutput()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG] "+format+"\n", args...)
}

// Log writes a component-tagged debug line, e.g. Log("LSP", "spawned %s", bin).
func Log(component, format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	w := getOutput()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// LogServer logs an HTTP-transport-level event.
func LogServer(format string, args ...interface{}) { Log("SERVER", format, args...) }

// LogLSP logs an LSP client/pump event.
func LogLSP(format string, args ...interface{}) { Log("LSP", format, args...) }

// LogIdentifier logs an identifier-completer event.
func LogIdentifier(format string, args ...interface{}) { Log("IDENT", format, args...) }

// Fatal formats an unrecoverable condition and returns it as an error rather
// than exiting; callers decide how to propagate it.
func Fatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if w := getOutput(); w != nil {
		fmt.Fprintf(w, "[FATAL] %s\n", msg)
	}
	return fmt.Errorf("fatal error: %s", msg)
}

// CatastrophicError logs a condition that terminates a subsystem (e.g. a
// parse error that ends the LSP message pump) without crashing the server.
func CatastrophicError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w := getOutput(); w != nil {
		fmt.Fprintf(w, "[CATASTROPHIC] %s\n", msg)
	}
}
