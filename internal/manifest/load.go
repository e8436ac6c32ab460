package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/HackerOS-Linux-System/hpm-backend/internal/hk"
)

// Load reads dir/info.hk, resolves interpolations, and produces a typed
// Manifest.
//
// Load never introspects the on-disk syntax directly: it only calls
// hk.Load / hk.ResolveInterpolations and then walks the resulting Value
// tree by section name, so the concrete manifest file format stays
// swappable without touching this package.
func Load(dir string) (*Manifest, error) {
	infoPath := filepath.Join(dir, "info.hk")

	root, err := hk.Load(infoPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: loading %s: %w", infoPath, err)
	}

	root, err = hk.ResolveInterpolations(root)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolving %s: %w", infoPath, err)
	}

	return fromTree(root)
}

func fromTree(root hk.Value) (*Manifest, error) {
	metadata, ok := root.Get("metadata")
	if !ok {
		return nil, fmt.Errorf("manifest: missing [metadata] section")
	}

	name, err := requiredString(metadata, "name")
	if err != nil {
		return nil, err
	}

	version, err := requiredString(metadata, "version")
	if err != nil {
		return nil, err
	}

	authors, err := requiredString(metadata, "authors")
	if err != nil {
		return nil, err
	}

	license, err := requiredString(metadata, "license")
	if err != nil {
		return nil, err
	}

	bins, err := keySet(metadata, "bins")
	if err != nil {
		return nil, fmt.Errorf("manifest: [metadata.bins]: %w", err)
	}

	summary, long := "", ""

	if description, ok := root.Get("description"); ok {
		summary, _ = optionalString(description, "summary")
		long, _ = optionalString(description, "long")
	}

	systemSpecs := NewOrderedStrings()
	deps := NewOrderedStrings()

	if specs, ok := root.Get("specs"); ok {
		m, err := specs.AsMap()
		if err != nil {
			return nil, fmt.Errorf("manifest: [specs] is not a table")
		}

		for _, key := range m.Keys() {
			if key == "dependencies" {
				continue
			}

			v, _ := m.Get(key)

			s, err := v.AsString()
			if err != nil {
				return nil, fmt.Errorf("manifest: [specs].%s: %w", key, err)
			}

			systemSpecs.Set(key, s)
		}

		if depsVal, ok := m.Get("dependencies"); ok {
			depsMap, err := depsVal.AsMap()
			if err != nil {
				return nil, fmt.Errorf("manifest: [specs.dependencies] is not a table")
			}

			for _, key := range depsMap.Keys() {
				v, _ := depsMap.Get(key)

				s, err := v.AsString()
				if err != nil {
					return nil, fmt.Errorf("manifest: [specs.dependencies].%s: %w", key, err)
				}

				deps.Set(key, s)
			}
		}
	}

	sandboxSec, ok := root.Get("sandbox")
	if !ok {
		return nil, fmt.Errorf("manifest: missing [sandbox] section")
	}

	network, err := optionalBool(sandboxSec, "network", false)
	if err != nil {
		return nil, fmt.Errorf("manifest: [sandbox].network: %w", err)
	}

	gui, err := optionalBool(sandboxSec, "gui", false)
	if err != nil {
		return nil, fmt.Errorf("manifest: [sandbox].gui: %w", err)
	}

	dev, err := optionalBool(sandboxSec, "dev", false)
	if err != nil {
		return nil, fmt.Errorf("manifest: [sandbox].dev: %w", err)
	}

	fsPaths, err := keySet(sandboxSec, "filesystem")
	if err != nil {
		return nil, fmt.Errorf("manifest: [sandbox.filesystem]: %w", err)
	}

	installCommands := []string{}

	if installSec, ok := root.Get("install"); ok {
		cmds, err := keySet(installSec, "commands")
		if err != nil {
			return nil, fmt.Errorf("manifest: [install.commands]: %w", err)
		}

		installCommands = cmds
	}

	if name == "" || version == "" || authors == "" || license == "" {
		return nil, fmt.Errorf("manifest: name, version, authors and license must be non-empty")
	}

	return &Manifest{
		Name:            name,
		Version:         version,
		Authors:         authors,
		License:         license,
		Summary:         summary,
		Long:            long,
		SystemSpecs:     systemSpecs,
		Deps:            deps,
		Bins:            bins,
		InstallCommands: installCommands,
		Sandbox: Sandbox{
			Network:    network,
			GUI:        gui,
			Dev:        dev,
			Filesystem: fsPaths,
		},
	}, nil
}

func requiredString(table hk.Value, key string) (string, error) {
	v, ok := table.Get(key)
	if !ok {
		return "", fmt.Errorf("manifest: missing required field %q", key)
	}

	s, err := v.AsString()
	if err != nil {
		return "", fmt.Errorf("manifest: field %q: %w", key, err)
	}

	return s, nil
}

func optionalString(table hk.Value, key string) (string, bool) {
	v, ok := table.Get(key)
	if !ok {
		return "", false
	}

	s, err := v.AsString()
	if err != nil {
		return "", false
	}

	return s, true
}

func optionalBool(table hk.Value, key string, def bool) (bool, error) {
	v, ok := table.Get(key)
	if !ok {
		return def, nil
	}

	b, err := v.AsBool()
	if err != nil {
		return false, err
	}

	return b, nil
}

// keySet reads table[key] as a "key-set submap": a map whose values must all
// be the empty string, used purely as an ordered set of strings (the
// manifest's metadata.bins, sandbox.filesystem and install.commands). A missing submap
// yields an empty, non-nil slice. A non-empty value anywhere in the submap
// is an error.
func keySet(table hk.Value, key string) ([]string, error) {
	v, ok := table.Get(key)
	if !ok {
		return []string{}, nil
	}

	m, err := v.AsMap()
	if err != nil {
		return nil, fmt.Errorf("%q is not a table", key)
	}

	out := make([]string, 0, m.Len())

	for _, k := range m.Keys() {
		entry, _ := m.Get(k)

		s, err := entry.AsString()
		if err != nil {
			return nil, fmt.Errorf("key-set entry %q must have an empty string value", k)
		}

		if s != "" {
			return nil, fmt.Errorf("key-set entry %q has non-empty value %q", k, s)
		}

		out = append(out, k)
	}

	return out, nil
}
