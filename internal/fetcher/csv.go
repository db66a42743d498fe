// Package fetcher reads the tabular inputs the audit engine consumes:
// reference-code CSVs, EHR denial exports in CSV or XLSX form, and raw
// remittance text.
package fetcher

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	Delimiter  rune // default ','
	LazyQuotes bool
	TrimSpace  bool
}

// ReadCSV reads every row from r. The first row is returned separately as
// the header. Rows may have variable field counts; callers index
// defensively.
func ReadCSV(r io.Reader, opts CSVOptions) (header []string, rows [][]string, err error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "csv: read row")
		}

		if opts.TrimSpace {
			for i, field := range record {
				record[i] = strings.TrimSpace(field)
			}
		}

		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}

	if header == nil {
		return nil, nil, eris.New("csv: empty input")
	}
	return header, rows, nil
}

// DecodeText converts raw file bytes to text with best-effort handling of
// invalid bytes: anything that is not valid UTF-8 is dropped rather than
// failing the file.
func DecodeText(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}
