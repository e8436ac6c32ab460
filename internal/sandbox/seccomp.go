//go:build linux

package sandbox

import (
	"fmt"

	libseccomp "github.com/seccomp/libseccomp-golang"
	"golang.org/x/sys/unix"
)

// SeccompProfile names one of the syscall allow-lists a sandbox child can
// be started under.
type SeccompProfile int

const (
	// ProfileStrict is the minimal allow-list: read, write, open, openat,
	// close, exit, exit_group, mmap, brk, futex, fstat, newfstatat. Too
	// narrow for most real payloads; useful for sandbox-test and for
	// payloads that do nothing but touch files.
	ProfileStrict SeccompProfile = iota
	// ProfileStandard widens ProfileStrict with the syscalls a typical
	// dynamically-linked ELF binary needs to start and run: ioctl, stat,
	// lseek, pread64/pwrite64, signal handling, process control, and
	// randomness. Selected automatically when sandbox.dev is true, since
	// device-backed payloads are assumed to be full programs rather than
	// install scripts.
	ProfileStandard
)

func strictSyscalls() []string {
	return []string{
		"read", "write", "open", "openat", "close", "exit", "exit_group",
		"mmap", "brk", "futex", "fstat", "newfstatat",
	}
}

func standardSyscalls() []string {
	return append(strictSyscalls(),
		"ioctl", "stat", "lseek", "pread64", "pwrite64",
		"rt_sigaction", "rt_sigprocmask", "clone", "wait4", "execve",
		"arch_prctl", "set_tid_address", "set_robust_list", "prlimit64",
		"getrandom",
	)
}

// syscallsFor returns the allow-listed syscall names for a profile.
func syscallsFor(p SeccompProfile) []string {
	switch p {
	case ProfileStandard:
		return standardSyscalls()
	default:
		return strictSyscalls()
	}
}

// installSeccomp builds a filter whose default action is errno(EPERM) and
// allow-lists the named syscalls unconditionally, then loads it into the
// current thread/process.
func installSeccomp(profile SeccompProfile) error {
	filter, err := libseccomp.NewFilter(libseccomp.ActErrno.SetReturnCode(int16(unix.EPERM)))
	if err != nil {
		return fmt.Errorf("sandbox: creating seccomp filter: %w", err)
	}
	defer filter.Release()

	for _, name := range syscallsFor(profile) {
		syscallID, err := libseccomp.GetSyscallFromName(name)
		if err != nil {
			// Syscall not known on this architecture/kernel; skip rather
			// than fail the whole sandbox over an optional allowance.
			continue
		}

		err = filter.AddRule(syscallID, libseccomp.ActAllow)
		if err != nil {
			return fmt.Errorf("sandbox: allowing syscall %q: %w", name, err)
		}
	}

	err = filter.Load()
	if err != nil {
		return fmt.Errorf("sandbox: loading seccomp filter: %w", err)
	}

	return nil
}
