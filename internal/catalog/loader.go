package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"vantage/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// CatalogYAML represents the catalog file structure
type CatalogYAML struct {
	Version int          `yaml:"version"`
	Domains []DomainYAML `yaml:"domains"`
}

// DomainYAML represents a domain entry
type DomainYAML struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Tools []ToolYAML `yaml:"tools"`
}

// ToolYAML represents a tool entry
type ToolYAML struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Icon       string `yaml:"icon"`
	IndustryID string `yaml:"industry_id,omitempty"`
}

// Default returns the registry built from the embedded catalog
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile loads a registry from a YAML file
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	reg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Load parses a YAML catalog and builds a validated registry
func Load(r io.Reader) (*Registry, error) {
	var cy CatalogYAML
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cy); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if cy.Version > 1 {
		return nil, fmt.Errorf("%w: unsupported catalog version %d", ErrInvalid, cy.Version)
	}

	return New(cy.toDomains())
}

// Export writes the registry back out in catalog file format
func (r *Registry) Export(w io.Writer) error {
	cy := CatalogYAML{
		Version: 1,
		Domains: make([]DomainYAML, 0, len(r.domains)),
	}
	for _, d := range r.domains {
		dy := DomainYAML{ID: d.ID, Name: d.Name, Tools: make([]ToolYAML, 0, len(d.Tools))}
		for _, t := range d.Tools {
			dy.Tools = append(dy.Tools, ToolYAML{ID: t.ID, Name: t.Name, Icon: t.Icon})
		}
		cy.Domains = append(cy.Domains, dy)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&cy); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return nil
}

func (cy CatalogYAML) toDomains() []domain.Domain {
	domains := make([]domain.Domain, 0, len(cy.Domains))
	for _, dy := range cy.Domains {
		d := domain.Domain{
			ID:    dy.ID,
			Name:  dy.Name,
			Tools: make([]domain.Tool, 0, len(dy.Tools)),
		}
		for _, ty := range dy.Tools {
			d.Tools = append(d.Tools, domain.Tool{
				ID:         ty.ID,
				Name:       ty.Name,
				Icon:       ty.Icon,
				IndustryID: ty.IndustryID,
			})
		}
		domains = append(domains, d)
	}
	return domains
}
