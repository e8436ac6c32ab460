package engine

import (
	"io"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/sandbox"
)

// SandboxBuilder abstracts sandbox.Build so the transaction engine can be
// exercised in tests without entering real Linux namespaces.
type SandboxBuilder interface {
	Build(p *sandbox.Policy, stdin io.Reader, stdout, stderr io.Writer) (sandbox.Result, error)
}

type realSandboxBuilder struct{}

func (realSandboxBuilder) Build(p *sandbox.Policy, stdin io.Reader, stdout, stderr io.Writer) (sandbox.Result, error) {
	return sandbox.Build(p, stdin, stdout, stderr)
}
