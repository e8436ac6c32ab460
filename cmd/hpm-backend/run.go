package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/engine"
	"github.com/HackerOS-Linux-System/hpm-backend/internal/hpmlog"
	"github.com/HackerOS-Linux-System/hpm-backend/internal/store"
)

// Run is the entire CLI surface: a pure function over argv, env, and stdio,
// isolated from package-level globals so it can be driven directly by
// tests. Its own JSON output goes only through reportError and
// writeSuccess, keeping the stable JSON contract in one place; sandboxed
// payloads write to stdout/stderr directly, and with HPM_DEBUG=1 diagnostic
// lines also go to stderr.
func Run(stdin io.Reader, stdout, stderr io.Writer, args []string, env map[string]string) int {
	var log *hpmlog.Logger
	if env["HPM_DEBUG"] == "1" {
		log = hpmlog.New(stderr)
	}

	st := store.New(store.DefaultPath)
	eng := engine.New(engine.DefaultStorePath, st, log)

	if len(args) < 2 {
		return reportError(stderr, engine.InvalidArgs, "missing command")
	}

	cmd := args[1]
	rest := args[2:]

	switch cmd {
	case "install":
		return runInstall(eng, rest, stdin, stdout, stderr)
	case "remove":
		return runRemove(eng, rest, stdout, stderr)
	case "verify":
		return runVerify(eng, rest, stdout, stderr)
	case "verify-signature":
		return runVerifySignature(eng, rest, stdout, stderr)
	case "list-installed":
		return runListInstalled(eng, rest, stdout, stderr)
	case "sandbox-test":
		return runSandboxTest(eng, rest, stdin, stdout, stderr)
	case "run":
		return runRun(eng, rest, stdin, stdout, stderr)
	default:
		return reportError(stderr, engine.UnknownCommand, fmt.Sprintf("unknown command %q", cmd))
	}
}

func runInstall(eng *engine.Engine, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 4 {
		return reportError(stderr, engine.InvalidArgs, "usage: install <name> <version> <path> <checksum_hex>")
	}

	result, err := eng.Install(args[0], args[1], args[2], args[3], stdin, stdout, stderr)
	if err != nil {
		return reportError(stderr, err.Code, err.Message)
	}

	return writeSuccess(stdout, successEnvelope{Success: true, PackageName: result.PackageName})
}

func runRemove(eng *engine.Engine, args []string, stdout, stderr io.Writer) int {
	if len(args) < 3 {
		return reportError(stderr, engine.InvalidArgs, "usage: remove <name> <version> <path>")
	}

	result, err := eng.Remove(args[0], args[1], args[2])
	if err != nil {
		return reportError(stderr, err.Code, err.Message)
	}

	return writeSuccess(stdout, successEnvelope{Success: true, PackageName: result.PackageName})
}

func runVerify(eng *engine.Engine, args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		return reportError(stderr, engine.InvalidArgs, "usage: verify <path> <checksum_hex>")
	}

	if err := eng.Verify(args[0], args[1]); err != nil {
		return reportError(stderr, err.Code, err.Message)
	}

	return writeSuccess(stdout, successEnvelope{Success: true})
}

func runVerifySignature(eng *engine.Engine, args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		return reportError(stderr, engine.InvalidArgs, "usage: verify-signature <path> <sig_b64>")
	}

	if err := eng.VerifySignature(args[0], args[1]); err != nil {
		return reportError(stderr, err.Code, err.Message)
	}

	return writeSuccess(stdout, successEnvelope{Success: true})
}

func runListInstalled(eng *engine.Engine, args []string, stdout, stderr io.Writer) int {
	state, err := eng.ListInstalled()
	if err != nil {
		return reportError(stderr, err.Code, err.Message)
	}

	return writeSuccess(stdout, state)
}

func runSandboxTest(eng *engine.Engine, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		return reportError(stderr, engine.InvalidArgs, "usage: sandbox-test <path>")
	}

	if err := eng.SandboxTest(args[0], stdin, stdout, stderr); err != nil {
		return reportError(stderr, err.Code, err.Message)
	}

	return writeSuccess(stdout, successEnvelope{Success: true})
}

// runRun is the one command whose stdout/exit code are the payload's own,
// not a JSON envelope: a non-nil *Error here means the sandbox never
// reached the payload at all, which is the only case still reported as
// JSON on stderr.
func runRun(eng *engine.Engine, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		return reportError(stderr, engine.InvalidArgs, "usage: run <name> <bin> [args...]")
	}

	code, err := eng.Run(args[0], args[1], args[2:], stdin, stdout, stderr)
	if err != nil {
		return reportError(stderr, err.Code, err.Message)
	}

	return code
}

type successEnvelope struct {
	Success     bool   `json:"success"`
	PackageName string `json:"package_name,omitempty"`
}

func writeSuccess(stdout io.Writer, v any) int {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}

	_, _ = fmt.Fprintln(stdout, string(data))

	return 0
}

func reportError(stderr io.Writer, code engine.ErrorCode, message string) int {
	payload := struct {
		Err struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"err"`
	}{}
	payload.Err.Code = int(code)
	payload.Err.Message = message

	data, err := json.Marshal(payload)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, message)

		return int(code)
	}

	_, _ = fmt.Fprintln(stderr, string(data))

	return int(code)
}
