// Package codec writes rendered views to export files and reads exported
// documents back.
package codec

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"vantage/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned for export formats without a codec
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidDocument is returned when an imported file is not an export
	ErrInvalidDocument = errors.New("invalid export document")
)

// Document is an exported view together with what it was rendered for
type Document struct {
	Domain     string      `json:"domain" yaml:"domain"`
	Tool       string      `json:"tool" yaml:"tool"`
	ExportedAt time.Time   `json:"exported_at" yaml:"exported_at"`
	View       domain.View `json:"view" yaml:"view"`
}

// NewDocument wraps a view for export
func NewDocument(key domain.ViewKey, v domain.View, at time.Time) Document {
	return Document{
		Domain:     key.DomainID,
		Tool:       key.ToolID,
		ExportedAt: at.UTC(),
		View:       v,
	}
}

// Key returns the view key the document was exported from
func (d Document) Key() domain.ViewKey {
	return domain.ViewKey{DomainID: d.Domain, ToolID: d.Tool}
}

// Validate checks that an imported document names its view
func (d Document) Validate() error {
	switch {
	case d.Domain == "" || d.Tool == "":
		return fmt.Errorf("%w: missing domain or tool", ErrInvalidDocument)
	case d.View.Title == "":
		return fmt.Errorf("%w: view has no title", ErrInvalidDocument)
	}
	return nil
}

// Filename suggests a download name, e.g. "finance-portfolio-optimization.csv"
func (d Document) Filename(ext string) string {
	return fmt.Sprintf("%s-%s.%s", d.Domain, d.Tool, ext)
}

// Importer reads an exported document
type Importer interface {
	Parse(r io.Reader) (*Document, error)
	Format() string
}

// Exporter writes a document in one file format
type Exporter interface {
	Export(doc Document, w io.Writer) error
	Format() string
	ContentType() string
	Extension() string
}

// Registry looks up codecs by format name
type Registry struct {
	exporters map[string]Exporter
	importers map[string]Importer
}

// NewRegistry returns a registry holding the json, yaml and csv codecs
func NewRegistry() *Registry {
	r := &Registry{
		exporters: make(map[string]Exporter),
		importers: make(map[string]Importer),
	}
	jc, yc := NewJSONCodec(), NewYAMLCodec()
	r.exporters[jc.Format()] = jc
	r.exporters[yc.Format()] = yc
	r.exporters["yml"] = yc
	r.exporters[FormatCSV] = NewCSVCodec()
	r.importers[jc.Format()] = jc
	r.importers[yc.Format()] = yc
	r.importers["yml"] = yc
	return r
}

// Exporter returns the exporter for a format name
func (r *Registry) Exporter(format string) (Exporter, error) {
	e, ok := r.exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("export %q: %w", format, ErrUnsupportedFormat)
	}
	return e, nil
}

// Importer returns the importer for a format name
func (r *Registry) Importer(format string) (Importer, error) {
	i, ok := r.importers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("import %q: %w", format, ErrUnsupportedFormat)
	}
	return i, nil
}

// Formats returns the canonical export format names, sorted
func (r *Registry) Formats() []string {
	seen := make(map[string]bool)
	for _, e := range r.exporters {
		seen[e.Format()] = true
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
