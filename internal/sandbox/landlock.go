//go:build linux

package sandbox

import (
	"fmt"
	"os"

	"github.com/landlock-lsm/go-landlock/landlock"
)

// installLandlock builds an ABI v1 ruleset handling all available
// filesystem access bits, grants read+exec on the read-only system paths,
// read on /proc and /sys, full access on /app and /tmp, full access on
// /dev when devEnabled, and full access on every extra filesystem path
// that exists, then restricts the calling process. Paths that don't exist
// on the host are silently skipped, matching how the mount logic (steps 6
// and 11 of the sandbox builder) skips them.
func installLandlock(p *Policy, devEnabled bool) error {
	var rules []landlock.Rule

	var existingRO []string

	for _, path := range roSystemPaths {
		if pathExists(path) {
			existingRO = append(existingRO, path)
		}
	}

	if len(existingRO) > 0 {
		rules = append(rules, landlock.RODirs(existingRO...))
	}

	var existingRead []string

	for _, path := range []string{"/proc", "/sys"} {
		if pathExists(path) {
			existingRead = append(existingRead, path)
		}
	}

	if len(existingRead) > 0 {
		rules = append(rules, landlock.PathAccess(landlock.AccessFSReadOnly(), existingRead...))
	}

	rules = append(rules, landlock.RWDirs("/app", "/tmp"))

	if devEnabled && pathExists("/dev") {
		rules = append(rules, landlock.RWDirs("/dev"))
	}

	var existingExtra []string

	for _, path := range p.Sandbox.Filesystem {
		if pathExists(path) {
			existingExtra = append(existingExtra, path)
		}
	}

	if len(existingExtra) > 0 {
		rules = append(rules, landlock.RWDirs(existingExtra...))
	}

	err := landlock.V1.BestEffort().RestrictPaths(rules...)
	if err != nil {
		return fmt.Errorf("sandbox: restricting landlock paths: %w", err)
	}

	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
