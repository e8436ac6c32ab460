//go:build linux

package sandbox

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// childSetup runs steps 1-18 of the sandbox builder in the current process:
// namespace unshare, hostname, private remount, user mapping, the new root
// and its mounts, pivot_root, no-new-privs, resource limits, Landlock, and
// seccomp. It must be called before any other goroutine starts doing
// filesystem or network work, since namespace changes are process-wide.
func childSetup(p *Policy) error {
	err := unshareNamespaces(p)
	if err != nil {
		return err
	}

	err = unix.Sethostname([]byte(p.PackageName))
	if err != nil {
		return fmt.Errorf("sethostname: %w", err)
	}

	err = makeMountsPrivate()
	if err != nil {
		return err
	}

	err = mapUserAndGroup()
	if err != nil {
		return err
	}

	newRoot := newRootDir(os.Getpid())

	err = setupMounts(newRoot, p)
	if err != nil {
		return err
	}

	err = pivotInto(newRoot)
	if err != nil {
		return err
	}

	err = unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0)
	if err != nil {
		return fmt.Errorf("setting no-new-privs: %w", err)
	}

	err = setResourceLimits()
	if err != nil {
		return err
	}

	err = installLandlock(p, p.Sandbox.Dev)
	if err != nil {
		return err
	}

	profile := p.Profile
	if p.Sandbox.Dev {
		profile = ProfileStandard
	}

	err = installSeccomp(profile)
	if err != nil {
		return err
	}

	err = unix.Chdir("/app")
	if err != nil {
		return fmt.Errorf("chdir to /app: %w", err)
	}

	return nil
}

// execPayload performs step 20: replaces the current process image with
// either the joined install commands under /bin/sh -c, or the requested
// /app binary. It never returns on success.
func execPayload(p *Policy) error {
	env := []string{}
	if p.Sandbox.GUI && p.Display != "" {
		env = append(env, "DISPLAY="+p.Display)
	}

	switch p.Mode {
	case ModeInstall:
		cmd := "echo 'Isolated install complete'"
		if len(p.InstallCommands) > 0 {
			cmd = joinWithAnd(p.InstallCommands)
		}

		return unix.Exec("/bin/sh", []string{"/bin/sh", "-c", cmd}, env)

	case ModeRun:
		binPath := "/app/" + p.Bin
		argv := append([]string{binPath}, p.ExtraArgs...)

		return unix.Exec(binPath, argv, env)

	default:
		return fmt.Errorf("sandbox: execPayload called in mode %d", p.Mode)
	}
}

func joinWithAnd(commands []string) string {
	out := commands[0]

	for _, c := range commands[1:] {
		out += " && " + c
	}

	return out
}
