package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/cloudtally/cloudtally/types"
)

// WriteCSV writes records as a CSV file. The header row is always
// written, so an empty record set still produces a file with the
// expected columns as evidence the run completed.
func WriteCSV(path string, header []string, records []types.Record) error {
	f, err := os.Create(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.Row()); err != nil {
			_ = f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
