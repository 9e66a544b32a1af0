package codec

import (
	"encoding/csv"
	"fmt"
	"io"
)

// FormatCSV is the format name of the CSV exporter
const FormatCSV = "csv"

// CSVCodec exports a view's metrics and tables as CSV. Sections are separated
// by a blank record and start with a single-field title record. Charts are
// not exported.
type CSVCodec struct{}

// NewCSVCodec creates a new CSV codec
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Format returns the codec format identifier
func (c *CSVCodec) Format() string {
	return FormatCSV
}

// ContentType returns the MIME type of exported files
func (c *CSVCodec) ContentType() string {
	return "text/csv"
}

// Extension returns the file extension of exported files
func (c *CSVCodec) Extension() string {
	return "csv"
}

// Export writes the document as CSV
func (c *CSVCodec) Export(doc Document, w io.Writer) error {
	cw := csv.NewWriter(w)

	records := [][]string{{doc.View.Title}}
	if len(doc.View.Metrics) > 0 {
		records = append(records, []string{"Metric", "Value", "Change", "Description"})
		for _, m := range doc.View.Metrics {
			records = append(records, []string{m.Name, m.Value, m.Change, m.Description})
		}
	}

	for _, t := range doc.View.Tables {
		records = append(records, []string{}, []string{t.Title})
		header := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			header[i] = col.Label
		}
		records = append(records, header)
		for _, row := range t.Rows {
			records = append(records, row.Values())
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}
	return nil
}
