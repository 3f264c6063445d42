// Package browse implements the record-scoped drive browsing core: the
// authentication gate, the navigation state machine with its breadcrumb
// trail, the debounced search, and the mutating operation orchestration.
package browse

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"

	"github.com/drivebrowse/drivebrowse/pkg/config"
	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

// DefaultDebounceWindow is the search quiet window when none is configured.
const DefaultDebounceWindow = 400 * time.Millisecond

// Notifier receives transient user-facing notifications.
type Notifier interface {
	Notify(n dto.Notification)
}

// DeleteTarget is the pending two-step delete confirmation.
type DeleteTarget struct {
	ItemID string `json:"itemId"`
	Name   string `json:"name"`
}

// Session owns the browsing state for one record: authentication,
// current location, breadcrumb trail and the displayed file list.
// All state is guarded by the session mutex; remote calls run outside
// the lock and their results are applied only when still current.
type Session struct {
	cfg      config.Config
	store    remote.Store
	log      *slog.Logger
	notifier Notifier

	// parent of every call the session issues on its own, torn down by
	// Close so a detached debounce timer cannot fire a late search
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	auth       dto.AuthState
	attempt    *AuthAttempt
	loc        dto.Location
	rootLoc    dto.Location
	crumbs     []dto.Breadcrumb
	files      []dto.FileEntry
	status     dto.OperationStatus
	searchTerm string

	// last committed navigation state, restored when a fetch fails
	committedLoc    dto.Location
	committedCrumbs []dto.Breadcrumb

	listGen   uint64
	searchGen uint64

	opInFlight    bool
	pendingDelete *DeleteTarget

	debounced func(f func())
}

// NewSession creates a browse session over the given store.
// The logger defaults to a discard handler.
func NewSession(cfg config.Config, store remote.Store) *Session {
	window := DefaultDebounceWindow
	if cfg.SearchDebounceMs > 0 {
		window = time.Duration(cfg.SearchDebounceMs) * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		cfg:       cfg,
		store:     store,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:       ctx,
		cancel:    cancel,
		debounced: debounce.New(window),
	}
}

// SetLogger sets the logger.
func (s *Session) SetLogger(log *slog.Logger) {
	s.log = log
}

// SetNotifier sets the notification sink.
func (s *Session) SetNotifier(n Notifier) {
	s.notifier = n
}

// State is a consistent snapshot of the session for rendering.
type State struct {
	Auth          dto.AuthState       `json:"auth"`
	Location      dto.Location        `json:"location"`
	Breadcrumbs   []dto.Breadcrumb    `json:"breadcrumbs"`
	Files         []dto.FileEntry     `json:"files"`
	Status        dto.OperationStatus `json:"status"`
	SearchTerm    string              `json:"searchTerm"`
	PendingDelete *DeleteTarget       `json:"pendingDelete,omitempty"`
}

// State returns a snapshot of the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Auth:        s.auth,
		Location:    s.loc,
		Breadcrumbs: cloneCrumbs(s.crumbs),
		Files:       append([]dto.FileEntry(nil), s.files...),
		Status:      s.status,
		SearchTerm:  s.searchTerm,
	}
	if s.pendingDelete != nil {
		pd := *s.pendingDelete
		st.PendingDelete = &pd
	}
	return st
}

// EffectiveLocation is the concrete folder coordinates mutations and
// refreshes operate on: the current location, or the derived root
// coordinates when the session sits at the record root.
func (s *Session) EffectiveLocation() dto.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveLocationLocked()
}

func (s *Session) effectiveLocationLocked() dto.Location {
	if !s.loc.IsRoot() {
		return s.loc
	}
	return s.rootLoc
}

// Close tears down session-scoped subscriptions: any dangling auth
// attempt and the context behind pending debounced searches.
func (s *Session) Close() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt = nil
}

func (s *Session) notify(title, message, variant string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(dto.Notification{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Variant: variant,
	})
}

// failListing converts a remote failure into the user-visible status slot.
// Caller holds the lock.
func (s *Session) failListingLocked(err error) {
	s.status = dto.OperationStatus{
		Err: &dto.OperationError{
			Message:       remote.Message(err),
			IsAuthError:   remote.IsNoToken(err),
			IsMissingLink: remote.IsMissingLink(err),
		},
	}
}

// commitLocked records the current location and trail as the last known
// good navigation state. Caller holds the lock.
func (s *Session) commitLocked() {
	s.committedLoc = s.loc
	s.committedCrumbs = cloneCrumbs(s.crumbs)
}

// rollbackLocked restores the last committed navigation state after a
// failed fetch. The displayed file list is left untouched. Caller holds
// the lock.
func (s *Session) rollbackLocked() {
	s.loc = s.committedLoc
	s.crumbs = cloneCrumbs(s.committedCrumbs)
}

func (s *Session) nextListGenLocked() uint64 {
	s.listGen++
	return s.listGen
}

func (s *Session) nextSearchGenLocked() uint64 {
	s.searchGen++
	return s.searchGen
}

func cloneCrumbs(crumbs []dto.Breadcrumb) []dto.Breadcrumb {
	if crumbs == nil {
		return nil
	}
	return append([]dto.Breadcrumb(nil), crumbs...)
}
