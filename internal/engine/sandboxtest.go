package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/manifest"
	"github.com/HackerOS-Linux-System/hpm-backend/internal/sandbox"
)

// SandboxTest loads the manifest at path and runs the sandbox builder in
// test mode: the child exits cleanly right after setup, validating that
// the declared policy can actually be applied on this host.
func (e *Engine) SandboxTest(path string, stdin io.Reader, stdout, stderr io.Writer) *Error {
	mf, err := manifest.Load(path)
	if err != nil {
		return NewError(InstallFailed, fmt.Sprintf("loading manifest: %v", err))
	}

	policy := &sandbox.Policy{
		PackageName: mf.Name,
		Path:        path,
		Sandbox:     mf.Sandbox,
		Mode:        sandbox.ModeTest,
		Display:     os.Getenv("DISPLAY"),
	}

	_, buildErr := e.Sandbox.Build(policy, stdin, stdout, stderr)
	if buildErr != nil {
		return NewError(InstallFailed, fmt.Sprintf("sandbox setup failed: %v", buildErr))
	}

	return nil
}
