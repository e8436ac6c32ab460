package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/manifest"
)

// RemoveResult is the success payload for remove.
type RemoveResult struct {
	PackageName string
}

// Remove loads the manifest at path to find its exposed binaries, unlinks
// each /usr/bin/<bin> (missing symlinks are ignored), deletes path
// recursively, then removes (name, version) from the state registry.
func (e *Engine) Remove(name, version, path string) (*RemoveResult, *Error) {
	mf, err := manifest.Load(path)
	if err != nil {
		return nil, NewError(RemoveFailed, fmt.Sprintf("loading manifest: %v", err))
	}

	for _, bin := range mf.Bins {
		binPath := filepath.Join("/usr/bin", bin)

		err = os.Remove(binPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, NewError(RemoveFailed, fmt.Sprintf("removing %s: %v", binPath, err))
		}
	}

	err = os.RemoveAll(path)
	if err != nil {
		return nil, NewError(RemoveFailed, fmt.Sprintf("deleting %s: %v", path, err))
	}

	err = e.Store.Remove(name, version)
	if err != nil {
		return nil, NewError(RemoveFailed, fmt.Sprintf("updating state: %v", err))
	}

	return &RemoveResult{PackageName: name}, nil
}
