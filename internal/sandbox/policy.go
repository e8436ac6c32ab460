//go:build linux

// Package sandbox builds the hardened Linux container a package's install
// commands or exposed binaries run inside: namespaces, a pivoted root,
// Landlock path rules, a seccomp syscall filter, and resource limits.
package sandbox

import "github.com/HackerOS-Linux-System/hpm-backend/internal/manifest"

// Mode selects what the sandbox child does after setup completes.
type Mode int

const (
	// ModeInstall runs the manifest's install commands via /bin/sh -c.
	ModeInstall Mode = iota
	// ModeRun execs a binary exposed by the package.
	ModeRun
	// ModeTest exits cleanly right after setup, without exec'ing anything.
	ModeTest
)

// Policy is the resolved sandbox configuration for one invocation: the
// manifest's declared policy plus the concrete paths and arguments needed
// to build and enter the container.
type Policy struct {
	// PackageName seeds the container hostname.
	PackageName string
	// Path is the host directory bind-mounted onto /app inside the
	// container.
	Path string
	// Sandbox is the manifest-declared policy (network/gui/dev/filesystem).
	Sandbox manifest.Sandbox

	Mode Mode

	// InstallCommands is joined with "&&" and run via /bin/sh -c in
	// ModeInstall.
	InstallCommands []string
	// Bin is the binary under /app exec'd in ModeRun.
	Bin string
	// ExtraArgs are appended after Bin in ModeRun.
	ExtraArgs []string

	// Display is the host DISPLAY value forwarded when Sandbox.GUI is true.
	Display string

	// Profile selects the seccomp allow-list. Defaults to ProfileStrict
	// when unset.
	Profile SeccompProfile
}

// roSystemPaths are bind-mounted read-only into the container if present on
// the host, and granted matching read+exec Landlock access.
var roSystemPaths = []string{"/usr", "/lib", "/lib64", "/bin", "/etc"}

// devices are the character device nodes created under /dev when
// Sandbox.Dev is true: name, major, minor.
var devices = []struct {
	name     string
	maj, min uint32
}{
	{"null", 1, 3},
	{"zero", 1, 5},
	{"random", 1, 8},
	{"urandom", 1, 9},
	{"tty", 5, 0},
}
