package report

import (
	"bufio"
	"io"
	"strings"
)

// WriteCSV writes the header and every row with all fields double-quoted and
// embedded quotes doubled.
func WriteCSV(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	if err := writeRecord(bw, r.Header); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := writeRecord(bw, row.Record()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(field, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// Filename names an export after the report and the date it was produced.
func Filename(name string, date string) string {
	return name + "_" + date + ".csv"
}
