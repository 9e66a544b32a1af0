package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// FormatYAML is the format name of the YAML codec
const FormatYAML = "yaml"

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return FormatYAML
}

// ContentType returns the MIME type of exported files
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// Extension returns the file extension of exported files
func (c *YAMLCodec) Extension() string {
	return "yaml"
}

// Parse reads an exported document from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Export writes the document as YAML
func (c *YAMLCodec) Export(doc Document, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close YAML encoder: %w", err)
	}

	return nil
}
