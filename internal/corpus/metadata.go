package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveMetadata persists the entry sequence as an ordered JSON array. The
// array position of each object is the entry's index position. The write
// goes to a temp file renamed into place so a failed build cannot leave a
// truncated metadata file next to an older index.
func SaveMetadata(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace metadata: %w", err)
	}
	return nil
}

// LoadMetadata reads the ordered entry sequence persisted by SaveMetadata.
func LoadMetadata(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return entries, nil
}
