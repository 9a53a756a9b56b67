package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// DumpToFile writes the current live entries to path as a JSON object
// mapping each key to its value and remaining TTL in seconds. The target
// is overwritten best-effort; no temp-file dance.
func (s *Store) DumpToFile(path string) error {
	data, err := json.Marshal(s.Dump())
	if err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	return nil
}
