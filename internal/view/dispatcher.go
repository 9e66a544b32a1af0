package view

import (
	"errors"
	"fmt"

	"vantage/internal/catalog"
	"vantage/internal/classify"
	"vantage/internal/domain"
	"vantage/internal/fallback"

	"go.uber.org/zap"
)

// ErrDuplicateBinding is returned when two renderers claim the same view
var ErrDuplicateBinding = errors.New("duplicate binding")

// Binding attaches a dedicated renderer to one (domain, tool) pair
type Binding struct {
	Key      domain.ViewKey
	Renderer Renderer
}

// Dispatcher selects and invokes the renderer for a selection
type Dispatcher struct {
	registry *catalog.Registry
	bindings map[string]map[string]Renderer
	fallback Renderer
	headers  *Headers
	logger   *zap.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the logger used for dispatch decisions
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithHeaders sets the header overrides
func WithHeaders(h *Headers) Option {
	return func(d *Dispatcher) {
		if h != nil {
			d.headers = h
		}
	}
}

// NewDispatcher builds the binding table. Every binding must name a tool the
// registry lists under the binding's domain.
func NewDispatcher(reg *catalog.Registry, fb Renderer, bindings []Binding, opts ...Option) (*Dispatcher, error) {
	if reg == nil {
		return nil, errors.New("dispatcher requires a registry")
	}
	if fb == nil {
		return nil, errors.New("dispatcher requires a fallback renderer")
	}

	d := &Dispatcher{
		registry: reg,
		bindings: make(map[string]map[string]Renderer),
		fallback: fb,
		headers:  NewHeaders(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, b := range bindings {
		if _, err := reg.Tool(b.Key.DomainID, b.Key.ToolID); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.Key, err)
		}
		tools, ok := d.bindings[b.Key.DomainID]
		if !ok {
			tools = make(map[string]Renderer)
			d.bindings[b.Key.DomainID] = tools
		}
		if _, dup := tools[b.Key.ToolID]; dup {
			return nil, fmt.Errorf("bind %s: %w", b.Key, ErrDuplicateBinding)
		}
		tools[b.Key.ToolID] = b.Renderer
	}

	d.logger.Debug("dispatcher ready",
		zap.Int("domains", len(d.bindings)),
		zap.Int("bindings", len(bindings)))

	return d, nil
}

// NewFromFixtures builds a dispatcher with a fixture renderer bound for every
// fixture in set and the generic fallback for everything else
func NewFromFixtures(reg *catalog.Registry, classifier *classify.Classifier, set *FixtureSet, opts ...Option) (*Dispatcher, error) {
	opts = append([]Option{WithHeaders(set.Headers())}, opts...)
	return NewDispatcher(reg, Fallback(fallback.NewRenderer(classifier)), set.Bindings(classifier), opts...)
}

// Resolve returns the renderer bound to a view, or the fallback with false
func (d *Dispatcher) Resolve(key domain.ViewKey) (Renderer, bool) {
	tools, ok := d.bindings[key.DomainID]
	if !ok {
		return d.fallback, false
	}
	r, ok := tools[key.ToolID]
	if !ok {
		return d.fallback, false
	}
	return r, true
}

// IsDedicated reports whether a view has its own renderer
func (d *Dispatcher) IsDedicated(key domain.ViewKey) bool {
	_, ok := d.Resolve(key)
	return ok
}

// Dispatch renders the selection with exactly one renderer
func (d *Dispatcher) Dispatch(req Request) domain.View {
	req.Selection = d.canonical(req.Selection)
	r, dedicated := d.Resolve(req.Key())
	d.logger.Debug("dispatch",
		zap.Stringer("view", req.Key()),
		zap.Bool("dedicated", dedicated),
		zap.Bool("loading", req.Selection.Loading))
	return r.Render(req)
}

// Header returns the content header for a selection
func (d *Dispatcher) Header(sel domain.Selection) domain.Header {
	return d.headers.Lookup(d.canonical(sel))
}

// Compose renders a full page: tool navigation for the active domain, the
// content header and the dispatched view
func (d *Dispatcher) Compose(req Request) domain.Page {
	sel := d.canonical(req.Selection)
	req.Selection = sel

	page := domain.Page{
		DomainID:   sel.Domain.ID,
		DomainName: sel.Domain.Name,
		Nav:        make([]domain.NavItem, 0, len(sel.Domain.Tools)),
		Header:     d.Header(sel),
		View:       d.Dispatch(req),
	}
	if page.DomainName == "" {
		page.DomainName = fallback.GenericLabel
	}

	for _, t := range sel.Domain.Tools {
		page.Nav = append(page.Nav, domain.NavItem{
			ID:     t.ID,
			Name:   t.Name,
			Icon:   t.Icon,
			Active: t.ID == sel.Tool.ID,
			Target: domain.ViewKey{DomainID: sel.Domain.ID, ToolID: t.ID},
		})
	}

	return page
}

// Bound returns the keys of every dedicated view in catalog order
func (d *Dispatcher) Bound() []domain.ViewKey {
	var keys []domain.ViewKey
	for _, dom := range d.registry.ListDomains() {
		for _, t := range dom.Tools {
			key := domain.ViewKey{DomainID: dom.ID, ToolID: t.ID}
			if d.IsDedicated(key) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// canonical replaces the selection's domain and tool with the registry's
// records for the same IDs. IDs the registry does not know keep only the ID,
// so their content is labelled generically.
func (d *Dispatcher) canonical(sel domain.Selection) domain.Selection {
	out, _ := d.registry.Select(sel.Domain.ID, sel.Tool.ID, sel.Loading)
	out.Session = sel.Session
	return out
}
