package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/manifest"
	"github.com/HackerOS-Linux-System/hpm-backend/internal/sandbox"
)

// Run resolves StorePath/name/current, loads its manifest, and execs bin
// inside the sandbox with extraArgs. The sandboxed process's stdio is
// connected directly to stdin/stdout/stderr, and its exit code is returned
// unchanged: run's stdout is the payload's stdout, not a JSON envelope.
func (e *Engine) Run(name, bin string, extraArgs []string, stdin io.Reader, stdout, stderr io.Writer) (int, *Error) {
	path := filepath.Join(e.StorePath, name, "current")

	mf, err := manifest.Load(path)
	if err != nil {
		return 0, NewError(InvalidArgs, fmt.Sprintf("loading manifest: %v", err))
	}

	policy := &sandbox.Policy{
		PackageName: mf.Name,
		Path:        path,
		Sandbox:     mf.Sandbox,
		Mode:        sandbox.ModeRun,
		Bin:         bin,
		ExtraArgs:   extraArgs,
		Display:     os.Getenv("DISPLAY"),
	}

	result, buildErr := e.Sandbox.Build(policy, stdin, stdout, stderr)
	if buildErr != nil {
		return result.ExitCode, NewError(InvalidArgs, fmt.Sprintf("sandbox run failed: %v", buildErr))
	}

	return result.ExitCode, nil
}
