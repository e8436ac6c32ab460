//go:build linux

package sandbox

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// unshareNamespaces performs step 1: unshare USER, MOUNT, UTS, PID, CGROUP
// unconditionally, plus NET when the package denies network and IPC when
// it denies GUI (GUI needs the host IPC namespace to reach the display
// server).
func unshareNamespaces(sb *Policy) error {
	flags := unix.CLONE_NEWUSER | unix.CLONE_NEWNS | unix.CLONE_NEWUTS |
		unix.CLONE_NEWPID | unix.CLONE_NEWCGROUP

	if !sb.Sandbox.Network {
		flags |= unix.CLONE_NEWNET
	}

	if !sb.Sandbox.GUI {
		flags |= unix.CLONE_NEWIPC
	}

	err := unix.Unshare(flags)
	if err != nil {
		return fmt.Errorf("unshare: %w", err)
	}

	return nil
}

// makeMountsPrivate performs step 3: recursively remount / private so
// subsequent mounts in this namespace never propagate to the host.
func makeMountsPrivate() error {
	err := unix.Mount("", "/", "", unix.MS_PRIVATE|unix.MS_REC, "")
	if err != nil {
		return fmt.Errorf("making / mount propagation private: %w", err)
	}

	return nil
}

// mapUserAndGroup performs step 4: map the invoking uid/gid to root inside
// the new user namespace. setgroups must be denied before gid_map is
// written or the kernel rejects the write.
func mapUserAndGroup() error {
	uid := os.Getuid()
	gid := os.Getgid()

	err := os.WriteFile("/proc/self/uid_map", []byte(fmt.Sprintf("0 %d 1", uid)), 0o644)
	if err != nil {
		return fmt.Errorf("writing uid_map: %w", err)
	}

	err = os.WriteFile("/proc/self/setgroups", []byte("deny"), 0o644)
	if err != nil {
		return fmt.Errorf("denying setgroups: %w", err)
	}

	err = os.WriteFile("/proc/self/gid_map", []byte(fmt.Sprintf("0 %d 1", gid)), 0o644)
	if err != nil {
		return fmt.Errorf("writing gid_map: %w", err)
	}

	return nil
}
