package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/manifest"
	"github.com/HackerOS-Linux-System/hpm-backend/internal/sandbox"
	"github.com/HackerOS-Linux-System/hpm-backend/internal/verify"
)

// InstallResult is the success payload for install.
type InstallResult struct {
	PackageName string
}

// Install runs the install transaction: stage at finalPath+".tmp", flatten
// a legacy "contents/" directory if present, load and verify the manifest,
// sandbox the install commands, then atomically swap the staged tree into
// finalPath with a backup/rollback handshake around the swap.
//
// stdin/stdout/stderr are wired through to the sandboxed install commands
// so their output is visible to the caller; they are never the engine's own
// stdout/stderr.
func (e *Engine) Install(name, version, finalPath, checksum string, stdin io.Reader, stdout, stderr io.Writer) (*InstallResult, *Error) {
	tmpPath := finalPath + ".tmp"

	err := flattenContentsDir(tmpPath)
	if err != nil {
		return nil, NewError(InstallFailed, fmt.Sprintf("flattening staged contents: %v", err))
	}

	mf, err := manifest.Load(tmpPath)
	if err != nil {
		return nil, NewError(InstallFailed, fmt.Sprintf("loading manifest: %v", err))
	}

	for _, dep := range mf.Deps.Keys() {
		constraint, _ := mf.Deps.Get(dep)
		e.Log.Dependency(dep, constraint)
	}

	err = verify.Verify(tmpPath, checksum)
	if err != nil {
		return nil, NewError(InstallFailed, fmt.Sprintf("verifying staged tree: %v", err))
	}

	policy := &sandbox.Policy{
		PackageName:     mf.Name,
		Path:            tmpPath,
		Sandbox:         mf.Sandbox,
		Mode:            sandbox.ModeInstall,
		InstallCommands: mf.InstallCommands,
		Display:         os.Getenv("DISPLAY"),
	}

	_, buildErr := e.Sandbox.Build(policy, stdin, stdout, stderr)
	if buildErr != nil {
		return nil, NewError(InstallFailed, fmt.Sprintf("sandbox setup failed: %v", buildErr))
	}

	backupPath := finalPath + ".old"
	backedUp := false

	if pathExists(finalPath) {
		err = os.Rename(finalPath, backupPath)
		if err != nil {
			return nil, NewError(InstallFailed, fmt.Sprintf("backing up existing install: %v", err))
		}

		backedUp = true
	}

	err = os.Rename(tmpPath, finalPath)
	if err != nil {
		rollbackInstall(finalPath, backupPath, backedUp)

		return nil, NewError(InstallFailed, fmt.Sprintf("promoting staged tree: %v", err))
	}

	err = e.Store.Update(name, version, checksum)
	if err != nil {
		rollbackInstall(finalPath, backupPath, backedUp)

		return nil, NewError(InstallFailed, fmt.Sprintf("updating state: %v", err))
	}

	if backedUp {
		_ = os.RemoveAll(backupPath)
	}

	return &InstallResult{PackageName: name}, nil
}

// rollbackInstall restores the pre-install state of finalPath: the new
// tree is removed, and the backup (if any) is restored in its place.
func rollbackInstall(finalPath, backupPath string, backedUp bool) {
	_ = os.RemoveAll(finalPath)

	if backedUp {
		_ = os.Rename(backupPath, finalPath)
	}
}

// flattenContentsDir handles the legacy packaging quirk where a staged tree
// nests its real contents one level down under "contents/": every child of
// contents/ is moved up to dir, then contents/ itself is removed.
func flattenContentsDir(dir string) error {
	contentsDir := filepath.Join(dir, "contents")

	info, err := os.Stat(contentsDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(contentsDir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", contentsDir, err)
	}

	for _, entry := range entries {
		oldPath := filepath.Join(contentsDir, entry.Name())
		newPath := filepath.Join(dir, entry.Name())

		err = os.Rename(oldPath, newPath)
		if err != nil {
			return fmt.Errorf("moving %s to %s: %w", oldPath, newPath, err)
		}
	}

	err = os.Remove(contentsDir)
	if err != nil {
		return fmt.Errorf("removing %s: %w", contentsDir, err)
	}

	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
