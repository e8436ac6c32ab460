package hpmlog_test

import (
	"strings"
	"testing"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/hpmlog"
)

func Test_Logger_Writes_Nothing_When_OutputIsNil(t *testing.T) {
	t.Parallel()

	l := hpmlog.New(nil)

	if l.Enabled() {
		t.Fatal("Enabled() = true for a nil-output logger, want false")
	}

	l.Logf("should not panic or write: %d", 1)
	l.Dependency("foo", ">=1.0")
}

func Test_Logger_Writes_Dependency_Line_When_Enabled(t *testing.T) {
	t.Parallel()

	var buf strings.Builder

	l := hpmlog.New(&buf)

	if !l.Enabled() {
		t.Fatal("Enabled() = false for a logger with output, want true")
	}

	l.Dependency("bar", ">=2.0")

	if got := buf.String(); got != "Dependency: bar >=2.0\n" {
		t.Fatalf("Dependency() wrote %q, want %q", got, "Dependency: bar >=2.0\n")
	}
}
