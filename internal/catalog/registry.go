package catalog

import (
	"errors"
	"fmt"
	"strings"

	"vantage/internal/domain"
)

var (
	// ErrNotFound is returned when a domain or tool ID is not in the catalog
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when catalog data violates an invariant
	ErrInvalid = errors.New("invalid catalog")
)

// Registry is the immutable Domain/Tool Registry
type Registry struct {
	domains []domain.Domain
	index   map[string]int
}

// New validates the given domains and builds a registry from a private copy.
// Tools without an IndustryID are assigned their owning domain.
func New(domains []domain.Domain) (*Registry, error) {
	owned := copyDomains(domains)
	for i := range owned {
		for j := range owned[i].Tools {
			if owned[i].Tools[j].IndustryID == "" {
				owned[i].Tools[j].IndustryID = owned[i].ID
			}
		}
	}

	if err := Validate(owned); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(owned))
	for i, d := range owned {
		index[d.ID] = i
	}

	return &Registry{domains: owned, index: index}, nil
}

// Validate checks the catalog invariants
func Validate(domains []domain.Domain) error {
	if len(domains) == 0 {
		return fmt.Errorf("%w: no domains", ErrInvalid)
	}

	seenDomains := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("%w: domain with empty id", ErrInvalid)
		}
		if _, dup := seenDomains[d.ID]; dup {
			return fmt.Errorf("%w: duplicate domain %q", ErrInvalid, d.ID)
		}
		seenDomains[d.ID] = struct{}{}

		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("%w: domain %q has no name", ErrInvalid, d.ID)
		}

		seenTools := make(map[string]struct{}, len(d.Tools))
		for _, t := range d.Tools {
			if strings.TrimSpace(t.ID) == "" {
				return fmt.Errorf("%w: domain %q has a tool with empty id", ErrInvalid, d.ID)
			}
			if _, dup := seenTools[t.ID]; dup {
				return fmt.Errorf("%w: duplicate tool %q in domain %q", ErrInvalid, t.ID, d.ID)
			}
			seenTools[t.ID] = struct{}{}

			if strings.TrimSpace(t.Name) == "" {
				return fmt.Errorf("%w: tool %s/%s has no name", ErrInvalid, d.ID, t.ID)
			}
			if t.IndustryID != d.ID {
				return fmt.Errorf("%w: tool %s/%s belongs to industry %q", ErrInvalid, d.ID, t.ID, t.IndustryID)
			}
		}
	}

	return nil
}

// ListDomains returns every domain in catalog order
func (r *Registry) ListDomains() []domain.Domain {
	return copyDomains(r.domains)
}

// GetToolsForDomain returns the ordered tools of a domain.
// Unknown domains yield an empty slice and ErrNotFound.
func (r *Registry) GetToolsForDomain(domainID string) ([]domain.Tool, error) {
	i, ok := r.index[domainID]
	if !ok {
		return []domain.Tool{}, fmt.Errorf("domain %q: %w", domainID, ErrNotFound)
	}
	return append([]domain.Tool(nil), r.domains[i].Tools...), nil
}

// Domain returns a single domain by ID
func (r *Registry) Domain(domainID string) (domain.Domain, error) {
	i, ok := r.index[domainID]
	if !ok {
		return domain.Domain{}, fmt.Errorf("domain %q: %w", domainID, ErrNotFound)
	}
	return copyDomain(r.domains[i]), nil
}

// Tool returns a single tool of a domain
func (r *Registry) Tool(domainID, toolID string) (domain.Tool, error) {
	i, ok := r.index[domainID]
	if !ok {
		return domain.Tool{}, fmt.Errorf("domain %q: %w", domainID, ErrNotFound)
	}
	t, ok := r.domains[i].FindTool(toolID)
	if !ok {
		return domain.Tool{}, fmt.Errorf("tool %s/%s: %w", domainID, toolID, ErrNotFound)
	}
	return t, nil
}

// Select resolves IDs into a selection the dispatcher can render.
// An unknown domain or tool still produces a selection carrying the raw IDs,
// together with an error wrapping ErrNotFound, so callers can degrade to the
// generic fallback instead of failing.
func (r *Registry) Select(domainID, toolID string, loading bool) (domain.Selection, error) {
	sel := domain.Selection{
		Domain:  domain.Domain{ID: domainID},
		Tool:    domain.Tool{ID: toolID},
		Loading: loading,
	}

	d, err := r.Domain(domainID)
	if err != nil {
		return sel, err
	}
	sel.Domain = d

	t, err := r.Tool(domainID, toolID)
	if err != nil {
		return sel, err
	}
	sel.Tool = t

	return sel, nil
}

// Len returns the number of domains
func (r *Registry) Len() int {
	return len(r.domains)
}

func copyDomains(in []domain.Domain) []domain.Domain {
	out := make([]domain.Domain, len(in))
	for i, d := range in {
		out[i] = copyDomain(d)
	}
	return out
}

func copyDomain(d domain.Domain) domain.Domain {
	d.Tools = append([]domain.Tool(nil), d.Tools...)
	return d
}
