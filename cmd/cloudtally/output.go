package main

import (
	"fmt"
	"io"

	"github.com/cloudtally/cloudtally/report"
	"github.com/cloudtally/cloudtally/types"
)

// writeReport serializes one named record set in the configured format and
// returns the paths of the files it produced. Table format prints to out
// and produces no files.
func writeReport(w *report.Writer, out io.Writer, format, name string, header []string, records []types.Record, jsonValue any) ([]string, error) {
	if format == "table" {
		fmt.Fprintf(out, "\n== %s ==\n", name)
		return nil, report.WriteTable(out, records)
	}

	var files []string
	if format == "csv" || format == "both" {
		path := w.Path(name, "csv")
		if err := report.WriteCSV(path, header, records); err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	if format == "json" || format == "both" {
		path := w.Path(name, "json")
		if err := report.WriteJSON(path, jsonValue); err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

// writeErrors writes collection errors next to the report they belong to.
// No errors means no file.
func writeErrors(w *report.Writer, name string, errs []types.ReportError) ([]string, error) {
	if len(errs) == 0 {
		return nil, nil
	}

	records := make([]types.Record, len(errs))
	for i, e := range errs {
		records[i] = e
	}

	path := w.Path(name+"_errors", "csv")
	if err := report.WriteCSV(path, types.ReportError{}.Header(), records); err != nil {
		return nil, err
	}
	return []string{path}, nil
}
