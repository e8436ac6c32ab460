//go:build linux

package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// newRootDir returns the scratch mount point for pid's container root
// (spec'd as /tmp/hpm_newroot_<pid>).
func newRootDir(pid int) string {
	return fmt.Sprintf("/tmp/hpm_newroot_%d", pid)
}

func bindMount(src, dst string, readonly bool) error {
	err := os.MkdirAll(dst, 0o755)
	if err != nil {
		return fmt.Errorf("creating mount point %s: %w", dst, err)
	}

	flags := uintptr(unix.MS_BIND | unix.MS_REC)

	err = unix.Mount(src, dst, "", flags, "")
	if err != nil {
		return fmt.Errorf("bind-mounting %s onto %s: %w", src, dst, err)
	}

	if readonly {
		err = unix.Mount("", dst, "", flags|unix.MS_RDONLY|unix.MS_REMOUNT, "")
		if err != nil {
			return fmt.Errorf("remounting %s read-only: %w", dst, err)
		}
	}

	return nil
}

func tmpfsMount(dst string) error {
	err := os.MkdirAll(dst, 0o755)
	if err != nil {
		return fmt.Errorf("creating mount point %s: %w", dst, err)
	}

	err = unix.Mount("tmpfs", dst, "tmpfs", 0, "")
	if err != nil {
		return fmt.Errorf("mounting tmpfs at %s: %w", dst, err)
	}

	return nil
}

// setupMounts performs steps 5-12 of the sandbox builder: a fresh tmpfs
// root, the read-only system view, the package mount, a writable /tmp,
// optional X11/GUI bind, optional /dev device nodes, extra filesystem
// mounts from policy, and the proc/sysfs kernel interfaces.
func setupMounts(newRoot string, p *Policy) error {
	err := tmpfsMount(newRoot)
	if err != nil {
		return err
	}

	for _, src := range roSystemPaths {
		if !pathExists(src) {
			continue
		}

		dst := filepath.Join(newRoot, strings.TrimPrefix(src, "/"))

		err = bindMount(src, dst, true)
		if err != nil {
			return err
		}
	}

	appDst := filepath.Join(newRoot, "app")

	err = bindMount(p.Path, appDst, false)
	if err != nil {
		return err
	}

	tmpDst := filepath.Join(newRoot, "tmp")

	err = tmpfsMount(tmpDst)
	if err != nil {
		return err
	}

	if p.Sandbox.GUI {
		err = setupGUIMount(newRoot)
		if err != nil {
			return err
		}
	}

	if p.Sandbox.Dev {
		err = setupDevMount(newRoot)
		if err != nil {
			return err
		}
	}

	for _, src := range p.Sandbox.Filesystem {
		if !pathExists(src) {
			continue
		}

		dst := filepath.Join(newRoot, strings.TrimPrefix(src, "/"))

		err = os.MkdirAll(filepath.Dir(dst), 0o755)
		if err != nil {
			return fmt.Errorf("creating parent of %s: %w", dst, err)
		}

		err = bindMount(src, dst, false)
		if err != nil {
			return err
		}
	}

	procDst := filepath.Join(newRoot, "proc")

	err = os.MkdirAll(procDst, 0o755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", procDst, err)
	}

	err = unix.Mount("proc", procDst, "proc", 0, "")
	if err != nil {
		return fmt.Errorf("mounting proc at %s: %w", procDst, err)
	}

	sysDst := filepath.Join(newRoot, "sys")

	err = os.MkdirAll(sysDst, 0o755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", sysDst, err)
	}

	err = unix.Mount("sysfs", sysDst, "sysfs", 0, "")
	if err != nil {
		return fmt.Errorf("mounting sysfs at %s: %w", sysDst, err)
	}

	return nil
}

func setupGUIMount(newRoot string) error {
	x11Dst := filepath.Join(newRoot, "tmp", ".X11-unix")

	if !pathExists("/tmp/.X11-unix") {
		return os.MkdirAll(x11Dst, 0o755)
	}

	return bindMount("/tmp/.X11-unix", x11Dst, false)
}

func setupDevMount(newRoot string) error {
	devDst := filepath.Join(newRoot, "dev")

	err := tmpfsMount(devDst)
	if err != nil {
		return err
	}

	for _, dev := range devices {
		// mknod failures are tolerated (e.g. in nested sandboxes where the
		// parent has already restricted CAP_MKNOD); the device simply
		// won't be present.
		_ = unix.Mknod(filepath.Join(devDst, dev.name), unix.S_IFCHR|0o666, int(unix.Mkdev(dev.maj, dev.min)))
	}

	return nil
}

// pivotInto performs step 13: chdir into newRoot, pivot_root(".", "old_root"),
// chdir to the new "/", then lazily detach the old root.
func pivotInto(newRoot string) error {
	err := unix.Chdir(newRoot)
	if err != nil {
		return fmt.Errorf("chdir to new root %s: %w", newRoot, err)
	}

	oldRoot := "old_root"

	err = os.MkdirAll(oldRoot, 0o755)
	if err != nil {
		return fmt.Errorf("creating old-root mount point: %w", err)
	}

	err = unix.PivotRoot(".", oldRoot)
	if err != nil {
		return fmt.Errorf("pivot_root: %w", err)
	}

	err = unix.Chdir("/")
	if err != nil {
		return fmt.Errorf("chdir to new /: %w", err)
	}

	err = unix.Unmount("/old_root", unix.MNT_DETACH)
	if err != nil {
		return fmt.Errorf("detaching old root: %w", err)
	}

	return nil
}
