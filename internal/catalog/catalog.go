// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog reads, writes, and enriches the canonical place catalog
// (map.json). The catalog is the system of record: the sync stage only
// attaches identifiers to it and never removes or rewrites existing data.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/guide-engine/pkg/types"
)

// Load reads a catalog from path.
func Load(path string) (*types.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var cat types.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if cat.Places == nil {
		cat.Places = map[string]*types.Place{}
	}
	if cat.Categories == nil {
		cat.Categories = map[string]*types.Category{}
	}
	return &cat, nil
}

// LoadFirst loads the catalog from the first path that exists and returns
// the path it used. The deployed copy takes priority over the source copy.
func LoadFirst(paths ...string) (*types.Catalog, string, error) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			cat, err := Load(p)
			return cat, p, err
		}
	}
	return nil, "", fmt.Errorf("no catalog found at any of %v", paths)
}

// Save writes the catalog to path as two-space-indented JSON. Map keys are
// emitted sorted, so saves are deterministic and diff-friendly. The write
// goes through a temp file in the same directory, renamed on success.
func Save(cat *types.Catalog, path string) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing catalog: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// SaveMirrored writes the catalog to path and, when mirror is a path to an
// existing file, to the mirror as well.
func SaveMirrored(cat *types.Catalog, path, mirror string) error {
	if err := Save(cat, path); err != nil {
		return err
	}
	if mirror == "" {
		return nil
	}
	if _, err := os.Stat(mirror); err != nil {
		return nil
	}
	return Save(cat, mirror)
}
