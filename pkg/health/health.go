// Package health monitors the remote store's reachability in the
// background and exposes the last probe result for the health endpoint.
package health

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

// DefaultInterval is the probe interval when none is configured.
const DefaultInterval = 30 * time.Second

const probeTimeout = 10 * time.Second

// Info is the last known health of the remote store connection.
type Info struct {
	Status      string    `json:"status"`
	IsConnected bool      `json:"is_connected"`
	LastCheck   time.Time `json:"last_check"`
	LastError   string    `json:"last_error,omitempty"`
}

// Monitor probes the store on an interval.
type Monitor struct {
	store    remote.Store
	interval time.Duration
	log      *slog.Logger

	mu   sync.RWMutex
	info Info

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMonitor creates a monitor for the given store.
func NewMonitor(store remote.Store, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		store:    store,
		interval: interval,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		info:     Info{Status: "unknown"},
		stop:     make(chan struct{}),
	}
}

// SetLogger sets the logger.
func (m *Monitor) SetLogger(log *slog.Logger) {
	m.log = log
}

// Start launches the probe loop. The first probe runs immediately.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		m.probe(ctx)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case <-ticker.C:
				m.probe(ctx)
			}
		}
	}()
}

// Stop ends the probe loop.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// GetHealthInfo returns the last probe result.
func (m *Monitor) GetHealthInfo() Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := m.store.HasValidToken(probeCtx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.info.LastCheck = time.Now()
	if err != nil {
		m.log.Warn("store probe failed", slog.String("error", err.Error()))
		m.info.Status = "unhealthy"
		m.info.IsConnected = false
		m.info.LastError = err.Error()
		return
	}
	m.info.Status = "healthy"
	m.info.IsConnected = true
	m.info.LastError = ""
}
