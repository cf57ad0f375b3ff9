package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders tabular rows as a CSV document.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes a header row followed by the data rows. Every row must have
// the same width as the header.
func (e *CSVExporter) Export(headers []string, rows [][]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for i, row := range rows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("csv row %d has %d columns, want %d", i, len(row), len(headers))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
