package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vantage/internal/handler"
	"vantage/internal/hub"
	"vantage/internal/service"
	"vantage/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed web/*
var webFS embed.FS

// pruneInterval is how often stale fallback seeds are removed while serving
const pruneInterval = time.Hour

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if watch {
				a.cfg.Catalog.Watch = true
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, nil)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload catalog and fixtures when their files change")
	return cmd
}

// newHandler builds the full HTTP handler: API routes, SSE stream and the
// embedded web shell, behind the middleware chain
func (a *app) newHandler(events http.Handler) (http.Handler, error) {
	mux := http.NewServeMux()
	handler.NewDashboardHandler(a.svc, a.logger).Register(mux, events)

	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return nil, fmt.Errorf("embedded web content: %w", err)
	}
	mux.Handle("GET /", http.FileServer(http.FS(webContent)))

	return handler.Chain(mux,
		handler.Recover(a.logger),
		handler.CORS,
		handler.Logger(a.logger),
	), nil
}

// serve runs the HTTP server until ctx is cancelled. When ready is non-nil
// it receives the bound address once the listener is open.
func (a *app) serve(ctx context.Context, ready chan<- string) error {
	sseHub := hub.New(a.logger)

	h, err := a.newHandler(sseHub)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  a.cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: a.cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  a.cfg.Server.IdleTimeout.Duration(),
	}

	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.Server.Addr, err)
	}
	a.logger.Info("server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("dedicated_views", len(a.svc.DedicatedViews())),
		zap.String("config", a.cfg.Summary()))
	if ready != nil {
		ready <- ln.Addr().String()
	}

	// Connect event bus to SSE hub
	events := make(chan service.Event, 100)
	a.bus.Subscribe(events)
	defer a.bus.Unsubscribe(events)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sseHub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		forwardEvents(ctx, events, sseHub)
		return nil
	})

	g.Go(func() error {
		a.pruneSeeds(ctx, pruneInterval)
		return nil
	})

	if paths := a.watchPaths(); len(paths) > 0 {
		w := watcher.New(paths, func(path string) {
			if err := a.reload(); err != nil {
				a.logger.Error("reload failed, keeping current catalog",
					zap.String("path", path), zap.Error(err))
			}
		}, a.logger)
		g.Go(func() error {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch catalog: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}

// pruneSeeds removes seeds older than the configured TTL now and then every
// interval until ctx is done
func (a *app) pruneSeeds(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if _, err := a.svc.PruneSeeds(ctx, a.cfg.Fallback.SeedTTL.Duration()); err != nil && ctx.Err() == nil {
			a.logger.Warn("seed pruning failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// watchPaths lists the catalog files to watch, if watching is enabled
func (a *app) watchPaths() []string {
	if !a.cfg.Catalog.Watch {
		return nil
	}
	var paths []string
	if a.cfg.Catalog.Path != "" {
		paths = append(paths, a.cfg.Catalog.Path)
	}
	if a.cfg.Catalog.Fixtures != "" {
		paths = append(paths, a.cfg.Catalog.Fixtures)
	}
	if len(paths) == 0 {
		a.logger.Warn("catalog watch enabled but only built-in data is configured")
	}
	return paths
}

// forwardEvents relays bus events to SSE clients until ctx is done
func forwardEvents(ctx context.Context, events <-chan service.Event, sseHub *hub.Hub) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			sseHub.Broadcast(hub.Message{
				Name:   string(ev.Type),
				Domain: ev.DomainID(),
				Data:   ev,
			})
		}
	}
}
