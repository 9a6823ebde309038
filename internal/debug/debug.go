// Package debug provides an opt-in logging sink for the extraction core.
// It is silent by default: output is written only when a writer has been
// set with SetDebugOutput and debug mode is on, through the DEBUG
// environment variable or the EnableDebug build flag. Extractors use it to record which
// malformed subtrees they skipped (spec.md §4.7 — never an error).
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug is a build-time flag:
// go build -ldflags "-X github.com/standardbeagle/semext/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	debugOutput io.Writer
	debugMutex  sync.Mutex
)

// SetDebugOutput sets the writer debug output goes to. Pass nil to
// disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// IsDebugEnabled reports whether debug logging is active, either via the
// build flag or the DEBUG=1/true environment variable.
func IsDebugEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Printf writes a debug message when debug output is enabled and configured.
func Printf(format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG] "+format, args...)
}

// Log writes a component-tagged debug message.
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
}

// LogExtract logs a message from a per-language extractor.
func LogExtract(format string, args ...interface{}) {
	Log("EXTRACT", format, args...)
}

// LogNormalize logs a message from the common normalization layer.
func LogNormalize(format string, args ...interface{}) {
	Log("NORMALIZE", format, args...)
}
