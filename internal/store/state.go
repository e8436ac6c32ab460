// Package store implements the atomically-persisted package-version
// registry: which versions of which packages are installed, and the
// checksum each was verified against at install time.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath is where the registry lives when no override is given.
const DefaultPath = "/var/lib/hpm/state.json"

// State is the persisted registry: package name -> version -> checksum hex.
type State struct {
	Packages map[string]map[string]string `json:"packages"`
}

func empty() *State {
	return &State{Packages: map[string]map[string]string{}}
}

// Store loads, saves, and updates the state registry at a fixed path.
//
// Store itself holds no in-memory cache: every call reads or writes the
// backing file directly. Saves are atomic against crashes (temp file plus
// rename) but Store does not serialize concurrent callers against each
// other; two processes racing a load-modify-save can still clobber one
// another's update.
type Store struct {
	Path string
}

// New returns a Store backed by path. An empty path uses DefaultPath.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}

	return &Store{Path: path}
}

// Load returns the registry, or an empty registry if the file is absent.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty(), nil
		}

		return nil, fmt.Errorf("store: reading %s: %w", s.Path, err)
	}

	var st State

	err = json.Unmarshal(data, &st)
	if err != nil {
		return nil, fmt.Errorf("store: parsing %s: %w", s.Path, err)
	}

	if st.Packages == nil {
		st.Packages = map[string]map[string]string{}
	}

	return &st, nil
}

// Save writes state atomically: write to Path+".tmp", then rename over Path.
// A partial write never becomes observable at Path.
func (s *Store) Save(state *State) error {
	if state.Packages == nil {
		state.Packages = map[string]map[string]string{}
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("store: marshaling state: %w", err)
	}

	dir := filepath.Dir(s.Path)

	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("store: creating %s: %w", dir, err)
	}

	tmpPath := s.Path + ".tmp"

	err = os.WriteFile(tmpPath, data, 0o644)
	if err != nil {
		return fmt.Errorf("store: writing %s: %w", tmpPath, err)
	}

	err = os.Rename(tmpPath, s.Path)
	if err != nil {
		return fmt.Errorf("store: renaming %s to %s: %w", tmpPath, s.Path, err)
	}

	return nil
}

// Update inserts or overwrites the (version -> checksum) pair for name,
// creating the package entry if absent. It is a load-modify-save: on-disk
// state is read, updated in memory, and written back atomically.
func (s *Store) Update(name, version, checksum string) error {
	state, err := s.Load()
	if err != nil {
		return err
	}

	if state.Packages[name] == nil {
		state.Packages[name] = map[string]string{}
	}

	state.Packages[name][version] = checksum

	return s.Save(state)
}

// Remove deletes the (name, version) entry. If it was the last version for
// name, the package key itself is removed rather than left pointing at an
// empty version map.
func (s *Store) Remove(name, version string) error {
	state, err := s.Load()
	if err != nil {
		return err
	}

	versions, ok := state.Packages[name]
	if ok {
		delete(versions, version)

		if len(versions) == 0 {
			delete(state.Packages, name)
		}
	}

	return s.Save(state)
}
