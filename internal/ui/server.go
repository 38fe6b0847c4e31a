// Package ui provides the Operations Center web console.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
	"github.com/opscenter-labs/opsconsole/internal/ui/notifier"
	"github.com/opscenter-labs/opsconsole/internal/ui/router"
)

// ErrNoClient is returned by Serve when Config.Client is nil.
var ErrNoClient = errors.New("ui server needs an api client")

// Server is the main UI server.
type Server struct {
	client       api.Client
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	configFile   string
	locale       language.Tag
	pageSize     int
	dev          bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
	onListen     func(url string)
	reload       func() (Settings, error)

	// mu serialises config reloads; current is the handler being served.
	mu      sync.Mutex
	current atomic.Pointer[http.Handler]
}

// Settings are the parts of the configuration a running server picks up
// when its config file changes.
type Settings struct {
	Client   api.Client
	Locale   string
	PageSize int
}

// Config holds configuration for the UI server.
type Config struct {
	Client        api.Client
	Port          int
	Watch         bool
	ConfigFile    string
	SessionSecret string
	Logger        *slog.Logger
	// Locale is a BCP 47 tag used to collate text columns.
	Locale   string
	PageSize int
	// Dev enables the /reload and /hotreload endpoints.
	Dev bool
	// OnListen is called with the console URL once the listener is open.
	OnListen func(url string)
	// Reload re-reads the configuration. With Watch set, it runs whenever
	// ConfigFile changes and open pages reload against the new settings.
	Reload func() (Settings, error)
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		client:       cfg.Client,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		configFile:   cfg.ConfigFile,
		locale:       parseLocale(cfg.Locale),
		pageSize:     cfg.PageSize,
		dev:          cfg.Dev,
		logger:       logger,
		notifier:     notifier.New(),
		onListen:     cfg.OnListen,
		reload:       cfg.Reload,
	}
}

func parseLocale(s string) language.Tag {
	locale, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return locale
}

// Handler builds the HTTP handler with every route mounted.
func (s *Server) Handler() (http.Handler, error) {
	if s.client == nil {
		return nil, ErrNoClient
	}

	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	deps := &common.Deps{
		Client:   s.client,
		Sessions: s.sessionStore,
		Notifier: s.notifier,
		Logger:   s.logger,
		Locale:   s.locale,
		PageSize: s.pageSize,
	}
	if err := router.SetupRoutes(r, deps, s.dev); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// ServeHTTP serves the most recently installed handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := s.current.Load()
	if h == nil {
		http.Error(w, "console is starting", http.StatusServiceUnavailable)
		return
	}
	(*h).ServeHTTP(w, r)
}

// install builds a handler from the current settings and starts serving it.
func (s *Server) install() error {
	h, err := s.Handler()
	if err != nil {
		return err
	}
	s.current.Store(&h)
	return nil
}

// applyConfig reloads the settings and swaps in a handler built from them.
// On failure the running handler stays in place.
func (s *Server) applyConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.reload()
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	if settings.Client == nil {
		return fmt.Errorf("reload config: %w", ErrNoClient)
	}
	s.client = settings.Client
	s.locale = parseLocale(settings.Locale)
	s.pageSize = settings.PageSize
	return s.install()
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.install(); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	url := fmt.Sprintf("http://localhost:%d", ln.Addr().(*net.TCPAddr).Port)
	s.logger.Info("starting UI server", "addr", url)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.configFile != "" && s.reload != nil {
		eg.Go(func() error {
			return s.watchConfig(egctx)
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	if s.onListen != nil {
		s.onListen(url)
	}

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchConfig reloads the configuration when the config file changes and
// tells every open page to reload. The directory is watched because editors
// replace files on save.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.configFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config file", "path", target, "error", err)
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				if err := s.applyConfig(); err != nil {
					s.logger.Error("keeping the running config", "file", event.Name, "error", err)
					return
				}
				s.logger.Info("config reloaded", "file", event.Name)
				s.notifier.Reload()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
