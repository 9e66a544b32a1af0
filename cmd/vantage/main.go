// Command vantage serves the multi-industry analytics dashboard and renders
// its views from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"vantage/internal/catalog"
	"vantage/internal/classify"
	"vantage/internal/config"
	"vantage/internal/domain"
	"vantage/internal/fallback"
	"vantage/internal/logging"
	"vantage/internal/repository/sqlite"
	"vantage/internal/service"
	"vantage/internal/view"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by every subcommand
type app struct {
	// Global flags
	configPath string
	logLevel   string
	dbPath     string

	cfg    *config.Config
	logger *zap.Logger
	cls    *classify.Classifier
	store  *sqlite.Repository
	svc    *service.DashboardService
	bus    *service.EventBus
}

func main() {
	a := &app{}
	if err := execute(a, newRootCmd(a)); err != nil {
		os.Exit(1)
	}
}

// execute runs root and releases the app's resources, whether or not the
// command succeeded
func execute(a *app, root *cobra.Command) error {
	defer a.close()
	return root.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "vantage",
		Short: "Vantage - multi-industry analytics dashboard",
		Long: `Vantage serves a business-intelligence dashboard covering many industry
verticals. Each vertical exposes a set of analytical tools; tools without
dedicated content render a generic analytics view.

Run "vantage serve" to start the HTTP server, or use the other commands to
inspect the catalog and render views in the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: search "+config.EnvConfigPath+" and standard locations)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path override (\":memory:\" for a throwaway store)")

	root.AddCommand(
		newServeCmd(a),
		newDomainsCmd(a),
		newToolsCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
		newActionsCmd(a),
		newViewCmd(a),
		newConfigCmd(a),
		newSeedsCmd(a),
		newCatalogCmd(a),
	)
	return root
}

// setup loads configuration and wires the dashboard service
func (a *app) setup() error {
	var err error
	if a.configPath != "" {
		a.cfg, _, err = config.LoadFromPath(a.configPath)
	} else {
		a.cfg, _, err = config.Load()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.dbPath != "" {
		a.cfg.Database.Path = a.dbPath
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger, err = logging.New(a.cfg.Log.Level, a.cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cls = classify.Default().Merge(classifierTables(a.cfg.Classifier))
	reg, dispatcher, err := a.loadViews()
	if err != nil {
		return err
	}

	a.store, err = sqlite.New(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.logger.Debug("database opened", zap.String("path", a.cfg.Database.Path))

	seeder, err := fallback.NewSeeder(a.cfg.Fallback.Mode, []byte(a.cfg.Fallback.Salt), a.store,
		fallback.WithCacheSize(a.cfg.Fallback.CacheSize))
	if err != nil {
		return err
	}

	a.bus = service.NewEventBus()
	a.svc, err = service.New(service.Deps{
		Registry:   reg,
		Dispatcher: dispatcher,
		Classifier: a.cls,
		Seeder:     seeder,
		Store:      a.store,
		Events:     a.bus,
		Actions:    hostActions(a.logger),
		Logger:     a.logger,
	})
	return err
}

// hostActions traces the header callbacks the dashboard host receives
func hostActions(logger *zap.Logger) view.Actions {
	trace := func(kind domain.ActionKind) view.ActionFunc {
		return func(_ context.Context, key domain.ViewKey, session string) {
			logger.Debug("header callback",
				zap.String("kind", string(kind)),
				zap.Stringer("view", key),
				zap.String("session", session))
		}
	}
	return view.Actions{
		OnPrimaryAction: trace(domain.ActionPrimary),
		OnExportData:    trace(domain.ActionExport),
	}
}

// classifierTables converts configured literal overrides into classifier
// tables
func classifierTables(in map[string]map[string]domain.Category) map[classify.Axis]classify.Table {
	out := make(map[classify.Axis]classify.Table, len(in))
	for axis, literals := range in {
		t := make(classify.Table, len(literals))
		for literal, category := range literals {
			t[literal] = category
		}
		out[classify.Axis(axis)] = t
	}
	return out
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.logger != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
		a.store = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// loadViews builds the registry and dispatcher from the configured catalog
// and fixtures
func (a *app) loadViews() (*catalog.Registry, *view.Dispatcher, error) {
	reg, err := loadCatalog(a.cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}
	fixtures, err := loadFixtures(a.cfg.Catalog.Fixtures)
	if err != nil {
		return nil, nil, err
	}
	dispatcher, err := view.NewFromFixtures(reg, a.cls, fixtures, view.WithLogger(a.logger))
	if err != nil {
		return nil, nil, fmt.Errorf("bind view fixtures: %w", err)
	}
	return reg, dispatcher, nil
}

// reload swaps in freshly loaded catalog data. Invalid data leaves the
// running service untouched.
func (a *app) reload() error {
	reg, dispatcher, err := a.loadViews()
	if err != nil {
		return err
	}
	return a.svc.Reload(reg, dispatcher)
}

func loadCatalog(path string) (*catalog.Registry, error) {
	if path == "" {
		return catalog.Default()
	}
	reg, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return reg, nil
}

func loadFixtures(dir string) (*view.FixtureSet, error) {
	if dir == "" {
		return view.DefaultFixtures()
	}
	set, err := view.LoadFixtures(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("load view fixtures %s: %w", dir, err)
	}
	return set, nil
}
