package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"vantage/internal/catalog"
	"vantage/internal/classify"
	"vantage/internal/codec"
	"vantage/internal/domain"
	"vantage/internal/fallback"
	"vantage/internal/repository"
	"vantage/internal/view"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps are the collaborators of a DashboardService. Registry and Dispatcher
// are required; everything else has a working default.
type Deps struct {
	Registry   *catalog.Registry
	Dispatcher *view.Dispatcher
	Classifier *classify.Classifier
	Seeder     fallback.Seeder
	Store      repository.Repository
	Codecs     *codec.Registry
	Events     *EventBus
	Actions    view.Actions
	Logger     *zap.Logger
	Clock      func() time.Time
	NewID      func() string
}

// RenderRequest selects what to render. Seed, when set, bypasses the seeder.
type RenderRequest struct {
	DomainID string
	ToolID   string
	Session  string
	Loading  bool
	Seed     *uint64
}

// Key returns the requested (domain, tool) pair
func (r RenderRequest) Key() domain.ViewKey {
	return domain.ViewKey{DomainID: r.DomainID, ToolID: r.ToolID}
}

// DashboardService provides the dashboard operations
type DashboardService struct {
	mu         sync.RWMutex // Guards registry and dispatcher, swapped by Reload
	registry   *catalog.Registry
	dispatcher *view.Dispatcher
	classifier *classify.Classifier
	seeder     fallback.Seeder
	store      repository.Repository
	codecs     *codec.Registry
	events     *EventBus
	actions    view.Actions
	logger     *zap.Logger
	clock      func() time.Time
	newID      func() string
}

// New creates a dashboard service
func New(deps Deps) (*DashboardService, error) {
	if deps.Registry == nil {
		return nil, errors.New("service requires a catalog registry")
	}
	if deps.Dispatcher == nil {
		return nil, errors.New("service requires a view dispatcher")
	}

	s := &DashboardService{
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		classifier: deps.Classifier,
		seeder:     deps.Seeder,
		store:      deps.Store,
		codecs:     deps.Codecs,
		events:     deps.Events,
		actions:    deps.Actions,
		logger:     deps.Logger,
		clock:      deps.Clock,
		newID:      deps.NewID,
	}
	if s.classifier == nil {
		s.classifier = classify.Default()
	}
	if s.seeder == nil {
		var store fallback.SeedStore
		if s.store != nil {
			store = s.store
		}
		s.seeder = fallback.NewMemoSeeds(nil, store)
	}
	if s.codecs == nil {
		s.codecs = codec.NewRegistry()
	}
	if s.events == nil {
		s.events = NewEventBus()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	return s, nil
}

// Reload replaces the catalog and its dispatcher. Renders already in
// flight finish against the old pair.
func (s *DashboardService) Reload(reg *catalog.Registry, d *view.Dispatcher) error {
	if reg == nil || d == nil {
		return errors.New("reload requires a registry and a dispatcher")
	}

	s.mu.Lock()
	s.registry = reg
	s.dispatcher = d
	s.mu.Unlock()

	payload := CatalogReload{Domains: reg.Len(), DedicatedViews: len(d.Bound())}
	s.logger.Info("catalog reloaded",
		zap.Int("domains", payload.Domains),
		zap.Int("dedicated_views", payload.DedicatedViews))
	s.events.Publish(Event{Type: EventCatalogReloaded, Payload: payload})
	return nil
}

func (s *DashboardService) current() (*catalog.Registry, *view.Dispatcher) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry, s.dispatcher
}

// Domains returns the catalog in declared order
func (s *DashboardService) Domains() []domain.Domain {
	reg, _ := s.current()
	return reg.ListDomains()
}

// Tools returns the tools of a domain
func (s *DashboardService) Tools(domainID string) ([]domain.Tool, error) {
	reg, _ := s.current()
	return reg.GetToolsForDomain(domainID)
}

// Tool returns one tool of a domain
func (s *DashboardService) Tool(domainID, toolID string) (domain.Tool, error) {
	reg, _ := s.current()
	return reg.Tool(domainID, toolID)
}

// ExportCatalog writes the active catalog in catalog file format
func (s *DashboardService) ExportCatalog(w io.Writer) error {
	reg, _ := s.current()
	return reg.Export(w)
}

// Classifier returns the status classifier used for badges
func (s *DashboardService) Classifier() *classify.Classifier {
	return s.classifier
}

// Codecs returns the export codec registry
func (s *DashboardService) Codecs() *codec.Registry {
	return s.codecs
}

// Events returns the service's event bus
func (s *DashboardService) Events() *EventBus {
	return s.events
}

// View renders the requested view. It always produces a view; unknown IDs get
// the generic fallback.
func (s *DashboardService) View(ctx context.Context, req RenderRequest) domain.View {
	reg, d := s.current()
	return d.Dispatch(s.request(ctx, reg, d, req))
}

// Page renders the requested view inside its navigation and header
func (s *DashboardService) Page(ctx context.Context, req RenderRequest) domain.Page {
	reg, d := s.current()
	return d.Compose(s.request(ctx, reg, d, req))
}

// IsDedicated reports whether a view has its own content
func (s *DashboardService) IsDedicated(key domain.ViewKey) bool {
	_, d := s.current()
	return d.IsDedicated(key)
}

// DedicatedViews lists every view with its own content
func (s *DashboardService) DedicatedViews() []domain.ViewKey {
	_, d := s.current()
	return d.Bound()
}

func (s *DashboardService) request(ctx context.Context, reg *catalog.Registry, d *view.Dispatcher, req RenderRequest) view.Request {
	sel, err := reg.Select(req.DomainID, req.ToolID, req.Loading)
	known := err == nil
	if !known {
		s.logger.Debug("selection not in catalog, rendering fallback",
			zap.String("domain", req.DomainID),
			zap.String("tool", req.ToolID))
	}
	sel.Session = req.Session

	out := view.Request{Selection: sel, Now: s.clock()}
	switch {
	case req.Seed != nil:
		out.Seed = *req.Seed
	case req.Loading, d.IsDedicated(sel.Key()):
		// Skeletons and dedicated content show no generated numbers
	default:
		// Every unknown view renders the same generic content, so they
		// share one seed per session
		var key domain.ViewKey
		if known {
			key = sel.Key()
		}
		out.Seed = s.seed(ctx, req.Session, key)
	}
	return out
}

func (s *DashboardService) seed(ctx context.Context, session string, key domain.ViewKey) uint64 {
	seed, err := s.seeder.Seed(ctx, session, key)
	if err != nil {
		s.logger.Warn("seed lookup failed, using derived seed",
			zap.Stringer("view", key),
			zap.Error(err))
		return fallback.DeriveSeed(nil, session, key)
	}
	return seed
}

// ResetSession forgets every seed of a session and returns the number of
// stored seeds removed. Seeds are derived from the salt, so the session sees
// the same numbers again unless the salt changed.
func (s *DashboardService) ResetSession(ctx context.Context, session string) (int64, error) {
	if f, ok := s.seeder.(fallback.Forgetter); ok {
		f.Forget(session)
	}
	if s.store == nil {
		return 0, nil
	}
	n, err := s.store.DeleteSeeds(ctx, session)
	if err != nil {
		return 0, fmt.Errorf("reset session %s: %w", session, err)
	}
	s.logger.Info("session seeds reset", zap.String("session", session), zap.Int64("deleted", n))
	return n, nil
}

// PruneSeeds removes stored seeds older than maxAge
func (s *DashboardService) PruneSeeds(ctx context.Context, maxAge time.Duration) (int64, error) {
	if s.store == nil || maxAge <= 0 {
		return 0, nil
	}
	n, err := s.store.PruneSeeds(ctx, s.clock().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("prune seeds: %w", err)
	}
	if n > 0 {
		s.logger.Info("pruned stale seeds", zap.Int64("deleted", n), zap.Duration("max_age", maxAge))
	}
	return n, nil
}

// SeedCount returns the number of stored seeds
func (s *DashboardService) SeedCount(ctx context.Context) (int64, error) {
	if s.store == nil {
		return 0, nil
	}
	return s.store.CountSeeds(ctx)
}

// PrimaryAction records the header's primary action on a catalogued view
func (s *DashboardService) PrimaryAction(ctx context.Context, key domain.ViewKey, session string) (*domain.ActionEvent, error) {
	if _, err := s.Tool(key.DomainID, key.ToolID); err != nil {
		return nil, err
	}

	ev := s.newEvent(domain.ActionPrimary, key, session)
	if err := s.record(ctx, ev); err != nil {
		return nil, err
	}

	s.actions.Primary(ctx, key, session)
	s.events.Publish(Event{Type: EventPrimaryAction, Payload: ev})
	s.logger.Info("primary action",
		zap.String("id", ev.ID),
		zap.Stringer("view", key),
		zap.String("session", session))

	return ev, nil
}

// ExportResult describes a completed export
type ExportResult struct {
	Event       *domain.ActionEvent
	Filename    string
	ContentType string
}

// Export renders a view and writes it to w in the given format. Unknown views
// export their fallback content, the same as what the dashboard shows.
func (s *DashboardService) Export(ctx context.Context, req RenderRequest, format string, w io.Writer) (*ExportResult, error) {
	exporter, err := s.codecs.Exporter(format)
	if err != nil {
		return nil, err
	}

	req.Loading = false
	doc := codec.NewDocument(req.Key(), s.View(ctx, req), s.clock())
	if err := exporter.Export(doc, w); err != nil {
		return nil, fmt.Errorf("export %s: %w", req.Key(), err)
	}

	ev := s.newEvent(domain.ActionExport, req.Key(), req.Session)
	ev.Format = exporter.Format()
	if err := s.record(ctx, ev); err != nil {
		// w already holds the export
		s.logger.Warn("failed to record export", zap.Error(err))
	}

	s.actions.Export(ctx, req.Key(), req.Session)
	s.events.Publish(Event{Type: EventDataExported, Payload: ev})
	s.logger.Info("data exported",
		zap.String("id", ev.ID),
		zap.Stringer("view", req.Key()),
		zap.String("format", ev.Format))

	return &ExportResult{
		Event:       ev,
		Filename:    doc.Filename(exporter.Extension()),
		ContentType: exporter.ContentType(),
	}, nil
}

// Actions lists recorded header actions, newest first
func (s *DashboardService) Actions(ctx context.Context, filter repository.ActionFilter) ([]domain.ActionEvent, error) {
	if s.store == nil {
		return []domain.ActionEvent{}, nil
	}
	return s.store.ListActions(ctx, filter)
}

// Action returns a single recorded action
func (s *DashboardService) Action(ctx context.Context, id string) (*domain.ActionEvent, error) {
	if s.store == nil {
		return nil, fmt.Errorf("action %s: %w", id, repository.ErrNotFound)
	}
	return s.store.GetAction(ctx, id)
}

// Health checks the service's dependencies
func (s *DashboardService) Health(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

func (s *DashboardService) newEvent(kind domain.ActionKind, key domain.ViewKey, session string) *domain.ActionEvent {
	ev := domain.NewActionEvent(s.newID(), kind, key, session)
	ev.OccurredAt = s.clock().UTC()
	return ev
}

func (s *DashboardService) record(ctx context.Context, ev *domain.ActionEvent) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.RecordAction(ctx, ev); err != nil {
		return fmt.Errorf("record %s action: %w", ev.Kind, err)
	}
	return nil
}
