package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes v as indented JSON, matching the shape the CSV carries
// but with typed fields.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
