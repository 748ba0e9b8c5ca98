// Package output serialises generated rows to CSV or JSON, matching the
// quoting and encoding knobs the reference generator's write_csv/write_json
// exposed through CONFIG.
package output

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/mitumame/mamegen/internal/genrow"
)

// WriteCSV writes header + rows to w. withHeader omits the header line
// entirely when false. quoteStrings forces every data field to be quoted
// regardless of content; quoteHeader does the same for the header line,
// independently — the standard library's csv.Writer only quotes fields
// that need it, so the force-quote-all case is written by hand to
// reproduce write_csv's QUOTE_ALL behaviour exactly.
func WriteCSV(w io.Writer, header []string, rows []genrow.Row, withHeader, quoteStrings, quoteHeader bool) error {
	bw := bufio.NewWriter(w)

	if withHeader {
		if err := writeCSVLine(bw, header, quoteHeader); err != nil {
			return err
		}
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for i, cell := range row {
			if !cell.IsEmpty() {
				record[i] = cell.String()
			}
		}
		if err := writeCSVLine(bw, record, quoteStrings); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeCSVLine(w io.Writer, fields []string, forceQuote bool) error {
	if !forceQuote {
		cw := csv.NewWriter(w)
		if err := cw.Write(fields); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}
