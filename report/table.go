package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cloudtally/cloudtally/types"
)

// WriteTable prints records as an aligned console table.
func WriteTable(out io.Writer, records []types.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "(no records)")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := records[0].Header()
	writeTabRow(w, header)

	dashes := make([]string, len(header))
	for i, h := range header {
		dashes[i] = dash(len(h))
	}
	writeTabRow(w, dashes)

	for _, rec := range records {
		writeTabRow(w, rec.Row())
	}
	return w.Flush()
}

func writeTabRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			_, _ = fmt.Fprint(w, "\t")
		}
		_, _ = fmt.Fprint(w, c)
	}
	_, _ = fmt.Fprintln(w)
}

func dash(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
