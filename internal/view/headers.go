package view

import (
	"vantage/internal/domain"
)

// Default header labels
const (
	DefaultPrimaryLabel = "Create New"
	DefaultExportLabel  = "Export Data"
)

// HeaderOverride replaces some of a header's strings. Empty fields keep the
// value from the next level down.
type HeaderOverride struct {
	Title        string `yaml:"title,omitempty" json:"title,omitempty"`
	PrimaryLabel string `yaml:"primary_label,omitempty" json:"primary_label,omitempty"`
	ExportLabel  string `yaml:"export_label,omitempty" json:"export_label,omitempty"`
}

// IsZero reports whether the override changes nothing
func (o HeaderOverride) IsZero() bool {
	return o == HeaderOverride{}
}

func (o HeaderOverride) apply(h domain.Header) domain.Header {
	if o.Title != "" {
		h.Title = o.Title
	}
	if o.PrimaryLabel != "" {
		h.PrimaryLabel = o.PrimaryLabel
	}
	if o.ExportLabel != "" {
		h.ExportLabel = o.ExportLabel
	}
	return h
}

// Headers resolves content header strings for a selection. Tool overrides
// take precedence over domain overrides, which take precedence over the
// defaults.
type Headers struct {
	domains map[string]HeaderOverride
	tools   map[domain.ViewKey]HeaderOverride
}

// NewHeaders creates an empty header table
func NewHeaders() *Headers {
	return &Headers{
		domains: make(map[string]HeaderOverride),
		tools:   make(map[domain.ViewKey]HeaderOverride),
	}
}

// SetDomain registers a domain-wide override
func (h *Headers) SetDomain(domainID string, o HeaderOverride) {
	if o.IsZero() {
		return
	}
	h.domains[domainID] = o
}

// SetTool registers an override for one view
func (h *Headers) SetTool(key domain.ViewKey, o HeaderOverride) {
	if o.IsZero() {
		return
	}
	h.tools[key] = o
}

// Lookup returns the header for a selection. It never fails.
func (h *Headers) Lookup(sel domain.Selection) domain.Header {
	out := domain.Header{
		Title:        toolLabel(sel),
		PrimaryLabel: DefaultPrimaryLabel,
		ExportLabel:  DefaultExportLabel,
	}
	if h == nil {
		return out
	}
	if o, ok := h.domains[sel.Domain.ID]; ok {
		out = o.apply(out)
	}
	if o, ok := h.tools[sel.Key()]; ok {
		out = o.apply(out)
	}
	return out
}
