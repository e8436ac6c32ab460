// Package verify computes and checks the content hash of an installed
// package tree, and checks Ed25519 signatures over arbitrary files.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ComputeDirHash walks dir recursively and returns the hex-encoded SHA-256
// of every regular file's bytes, streamed through a single accumulator with
// the files taken in ascending order of their file name alone (not their
// full path). Files sharing a name keep the order fs.WalkDir visits them in.
func ComputeDirHash(dir string) (string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		return "", err
	}

	sort.SliceStable(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})

	h := sha256.New()

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("verify: opening %s: %w", path, err)
		}

		_, err = io.Copy(h, f)
		f.Close()

		if err != nil {
			return "", fmt.Errorf("verify: reading %s: %w", path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify recomputes dir's content hash and compares it byte-for-byte against
// expectedHex.
func Verify(dir, expectedHex string) error {
	computed, err := ComputeDirHash(dir)
	if err != nil {
		return fmt.Errorf("verify: computing hash of %s: %w", dir, err)
	}

	if computed != expectedHex {
		return fmt.Errorf("verify: checksum mismatch: computed %s, expected %s", computed, expectedHex)
	}

	return nil
}
