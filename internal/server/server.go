// Package server implements the local graph viewer.
//
// The viewer serves an HTML page that draws the current payload with
// cytoscape.js, the payload itself at /graph-data, normalized elements,
// Graphviz renderings, a live-reload stream and, when a snapshot store is
// configured, shareable snapshots.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/actionviz/internal/notifier"
	"github.com/matzehuels/actionviz/pkg/cache"
	"github.com/matzehuels/actionviz/pkg/render"
	"github.com/matzehuels/actionviz/pkg/render/cytoscape"
	"github.com/matzehuels/actionviz/pkg/render/style"
	"github.com/matzehuels/actionviz/pkg/store"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Config holds configuration for the viewer.
type Config struct {
	Source Source

	Title  string
	Layout string
	CDN    string // base URL of the cytoscape bundles

	// Table is the style table; the zero value means style.Default().
	Table style.Table
	// ThemeHash distinguishes cached artifacts of different themes.
	ThemeHash string

	// Watch enables live reload when Source is a Watcher.
	Watch bool

	// Store enables the /snapshots routes when set.
	Store store.Store
	// Cache holds rendered artifacts; nil disables caching.
	Cache cache.Cache
	Keyer cache.Keyer

	Logger *log.Logger
}

// Server is the viewer.
type Server struct {
	cfg      Config
	logger   *log.Logger
	cache    cache.Cache
	keyer    cache.Keyer
	notifier *notifier.Notifier
}

// New creates a viewer.
func New(cfg Config) *Server {
	if cfg.Layout == "" {
		cfg.Layout = render.DefaultLayout
	}
	if cfg.Title == "" {
		cfg.Title = cytoscape.DefaultTitle
	}
	if cfg.CDN == "" {
		cfg.CDN = cytoscape.DefaultCDN
	}
	if cfg.Table.Node.Size == 0 {
		cfg.Table = style.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger,
		cache:    cfg.Cache,
		keyer:    cfg.Keyer,
		notifier: notifier.New(),
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	return s
}

// Notifier returns the notifier that drives live reload.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// live reports whether pages should subscribe to reloads.
func (s *Server) live() bool {
	if !s.cfg.Watch {
		return false
	}
	_, ok := s.cfg.Source.(Watcher)
	return ok
}

// Handler returns the router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel}),
			NoColor: true,
		}),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/", s.handlePage)
	r.Get("/graph-data", s.handleGraphData)
	r.Get("/elements", s.handleElements)
	r.Get("/graph.svg", s.handleSVG)
	r.Get("/graph.dot", s.handleDOT)
	r.Get("/updates", s.handleUpdates)

	if s.cfg.Store != nil {
		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/", s.handleCreateSnapshot)
			r.Get("/", s.handleListSnapshots)
			r.Get("/{id}", s.handleSnapshotPage)
			r.Get("/{id}/graph-data", s.handleSnapshotData)
		})
	}
	return r
}

// Listen opens the listener for addr. Port 0 picks a free port.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return ln, nil
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// The file watcher, when enabled, runs alongside the listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if w, ok := s.cfg.Source.(Watcher); ok && s.cfg.Watch {
		eg.Go(func() error {
			return w.Watch(egctx, s.notifier.Broadcast)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down viewer")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
