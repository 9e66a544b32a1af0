package codec

import (
	"encoding/json"
	"fmt"
	"io"
)

// FormatJSON is the format name of the JSON codec
const FormatJSON = "json"

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return FormatJSON
}

// ContentType returns the MIME type of exported files
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Extension returns the file extension of exported files
func (c *JSONCodec) Extension() string {
	return "json"
}

// Parse reads an exported document from JSON
func (c *JSONCodec) Parse(r io.Reader) (*Document, error) {
	var doc Document
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Export writes the document as indented JSON
func (c *JSONCodec) Export(doc Document, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
