package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// writeJSONFile atomically replaces path with the JSON encoding of v,
// writing a temp file first and renaming it over the target so a crash
// mid-write never leaves a half-written store behind.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", filepath.Base(path), err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating store directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("error replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
