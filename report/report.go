// Package report serializes record sets to CSV and JSON files and
// optionally uploads them to S3.
package report

import (
	"fmt"
	"time"
)

// Writer names and produces the output files for one run. Every file from
// the same run shares one timestamp.
type Writer struct {
	Prefix    string
	Timestamp time.Time
}

// NewWriter creates a Writer stamped with the current UTC time.
func NewWriter(prefix string) *Writer {
	return &Writer{Prefix: prefix, Timestamp: time.Now().UTC()}
}

// Path builds "<prefix>_<name>_<timestamp>.<ext>". An empty name collapses
// to "<prefix>_<timestamp>.<ext>".
func (w *Writer) Path(name, ext string) string {
	stamp := w.Timestamp.Format("20060102_150405")
	if name == "" {
		return fmt.Sprintf("%s_%s.%s", w.Prefix, stamp, ext)
	}
	return fmt.Sprintf("%s_%s_%s.%s", w.Prefix, name, stamp, ext)
}
