// Package app exposes the browse session over HTTP. Responses are JSON;
// the visual layer lives elsewhere.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/drivebrowse/drivebrowse/pkg/browse"
	"github.com/drivebrowse/drivebrowse/pkg/config"
	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/gstore"
	"github.com/drivebrowse/drivebrowse/pkg/health"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
	"github.com/drivebrowse/drivebrowse/pkg/s3store"
)

const defaultListenAddr = ":8081"

// ErrUnknownBackend is returned when the configured backend name does
// not match any store implementation.
var ErrUnknownBackend = errors.New("unknown backend, expected \"api\" or \"s3\"")

// CodeExchanger is implemented by stores whose auth flow finishes with
// an authorization code callback.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, state, code string) error
}

// App wires the session, the store and the HTTP surface together.
type App struct {
	cfg     config.Config
	store   remote.Store
	session *browse.Session
	router  *mux.Router
	srv     *http.Server
	log     *slog.Logger
	notices *noticeBuffer
	monitor *health.Monitor
}

// NewApp builds the store for the configured backend, creates the browse
// session and starts the web server.
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		store:   store,
		router:  mux.NewRouter().StrictSlash(true),
		srv:     &http.Server{ReadHeaderTimeout: 10 * time.Second},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		notices: &noticeBuffer{},
		monitor: health.NewMonitor(store, 0),
	}

	a.session = browse.NewSession(cfg, store)
	a.session.SetNotifier(a.notices)

	a.initRouter()
	a.monitor.Start(ctx)
	go a.startWebServer()

	return a, nil
}

func newStore(ctx context.Context, cfg config.Config) (remote.Store, error) {
	switch cfg.Backend {
	case "", "api":
		return gstore.New(cfg), nil
	case "s3":
		return s3store.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// SetLogger sets the logger on the app and its collaborators.
func (a *App) SetLogger(log *slog.Logger) {
	a.log = log
	a.session.SetLogger(log)
	a.monitor.SetLogger(log)
	type loggable interface{ SetLogger(*slog.Logger) }
	if s, ok := a.store.(loggable); ok {
		s.SetLogger(log)
	}
}

// Session exposes the browse session, e.g. for the scheduler.
func (a *App) Session() *browse.Session {
	return a.session
}

// Router returns the HTTP handler, e.g. for tests.
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) startWebServer() {
	addr := a.cfg.ListenAddr
	if addr == "" {
		addr = defaultListenAddr
	}
	a.srv.Addr = addr
	a.log.Info("listen", slog.String("addr", addr))
	if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error("web server stopped", slog.String("error", err.Error()))
	}
}

// StopServer shuts the server down and tears the session down.
func (a *App) StopServer() {
	a.monitor.Stop()
	a.session.Close()
	if err := a.srv.Shutdown(context.Background()); err != nil {
		a.log.Error("server shutdown failed", slog.String("error", err.Error()))
	}
}

// noticeBuffer collects notifications until the interaction layer drains
// them.
type noticeBuffer struct {
	mu      sync.Mutex
	pending []dto.Notification
}

// Notify implements browse.Notifier.
func (b *noticeBuffer) Notify(n dto.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, n)
}

// Drain returns and clears the pending notifications.
func (b *noticeBuffer) Drain() []dto.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}
