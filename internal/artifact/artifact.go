// Package artifact persists pipeline outputs as JSON files. Writes are
// atomic: content goes to a temporary file in the same directory and is
// renamed into place, so a crash mid-write never corrupts a valid artifact.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names under the artifacts directory.
const (
	SymbolsFile = "symbols.json"
	RefsFile    = "extracted_refs.json"
	LinksFile   = "links.json"
	FixFile     = "fix_report.json"
)

// Save marshals v with indentation and writes it atomically to path,
// creating parent directories as needed.
func Save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifact: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("artifact: temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("artifact: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("artifact: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("artifact: rename into %s: %w", path, err)
	}
	return nil
}

// Load reads a JSON artifact into v. A missing file surfaces as an error
// wrapping fs.ErrNotExist so callers can map it to "prerequisite missing".
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("artifact: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("artifact: decode %s: %w", path, err)
	}
	return nil
}
