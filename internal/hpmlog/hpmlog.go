// Package hpmlog provides the backend's best-effort diagnostic logging: a
// writer that is silent unless explicitly enabled, so the stable JSON
// stdout/stderr contract is never polluted by default.
package hpmlog

import (
	"fmt"
	"io"
)

// Logger writes structured diagnostics to stderr when enabled. A nil
// output disables every method: all of them become no-ops, so the stable
// JSON stdout/stderr contract is never polluted unless a caller opts in.
type Logger struct {
	output io.Writer
}

// New returns a Logger writing to output. Passing nil disables logging.
func New(output io.Writer) *Logger {
	return &Logger{output: output}
}

// Enabled reports whether this logger will actually write anything.
func (l *Logger) Enabled() bool {
	return l != nil && l.output != nil
}

// Section writes a section header.
func (l *Logger) Section(name string) {
	if !l.Enabled() {
		return
	}

	_, _ = fmt.Fprintf(l.output, "\n=== %s ===\n", name)
}

// Logf writes a formatted line.
func (l *Logger) Logf(format string, args ...any) {
	if !l.Enabled() {
		return
	}

	_, _ = fmt.Fprintf(l.output, format+"\n", args...)
}

// Bulletf writes an indented bullet point.
func (l *Logger) Bulletf(format string, args ...any) {
	if !l.Enabled() {
		return
	}

	_, _ = fmt.Fprintf(l.output, "  - "+format+"\n", args...)
}

// Dependency logs one declared dependency during install as
// "Dependency: <name> <constraint>". Purely informational: dependencies are
// reported for visibility, never resolved or installed transitively.
func (l *Logger) Dependency(name, constraint string) {
	if !l.Enabled() {
		return
	}

	_, _ = fmt.Fprintf(l.output, "Dependency: %s %s\n", name, constraint)
}
