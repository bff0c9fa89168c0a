package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ValentinaAkpan/Datacleaner/internal/utils"
)

const (
	// ContentType is the MIME type of exported tables.
	ContentType = "text/csv"
	// DefaultExportName is the file name suggested for a cleaned export.
	DefaultExportName = "cleaned_data.csv"
)

// Write renders t as delimited text: a header row, then one record per row.
// Missing cells are written as empty fields.
func Write(w io.Writer, t *Table, opt LoadOptions) error {
	cw := csv.NewWriter(w)
	cw.Comma = opt.comma()
	header := make([]string, len(t.cols))
	for i, c := range t.cols {
		header[i] = c.Name
	}
	if err := writeRecord(cw, w, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(t.cols))
	for i, r := range t.rows {
		for j, v := range r {
			rec[j] = v.String()
		}
		if err := writeRecord(cw, w, rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// writeRecord writes rec, quoting a lone empty field. A bare empty line is
// skipped on reload, which would drop a row or promote the first row to header.
func writeRecord(cw *csv.Writer, w io.Writer, rec []string) error {
	if len(rec) == 1 && rec[0] == "" {
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\"\"\n")
		return err
	}
	return cw.Write(rec)
}

// Marshal returns the delimited-text rendering of t.
func Marshal(t *Table, opt LoadOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t, opt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile exports t to path, replacing any existing file atomically.
func WriteFile(path string, t *Table, opt LoadOptions) error {
	b, err := Marshal(t, opt)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}
