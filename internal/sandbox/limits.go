//go:build linux

package sandbox

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// setResourceLimits performs step 15: a 60-second CPU budget, 512 MiB of
// address space, and a 1024-process cap, soft equal to hard in each case so
// the payload cannot raise its own ceiling.
func setResourceLimits() error {
	limits := []struct {
		name     string
		resource int
		value    uint64
	}{
		{"RLIMIT_CPU", unix.RLIMIT_CPU, 60},
		{"RLIMIT_AS", unix.RLIMIT_AS, 512 * 1024 * 1024},
		{"RLIMIT_NPROC", unix.RLIMIT_NPROC, 1024},
	}

	for _, l := range limits {
		rlimit := unix.Rlimit{Cur: l.value, Max: l.value}

		err := unix.Setrlimit(l.resource, &rlimit)
		if err != nil {
			return fmt.Errorf("setting %s: %w", l.name, err)
		}
	}

	return nil
}
