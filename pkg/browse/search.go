package browse

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/format"
)

// searchTimeout bounds the remote call issued when the debounce timer
// fires outside any request context.
const searchTimeout = 30 * time.Second

// SearchKeystroke feeds one search-input event into the debouncer. Each
// event cancels the pending quiet-window timer and starts a new one;
// when the window elapses the trimmed term becomes the active search
// term. An empty term leaves search mode and restores the listing of the
// current location.
func (s *Session) SearchKeystroke(term string) {
	trimmed := strings.TrimSpace(term)
	s.debounced(func() {
		if s.ctx.Err() != nil {
			return // session was closed while the timer was pending
		}
		ctx, cancel := context.WithTimeout(s.ctx, searchTimeout)
		defer cancel()
		if trimmed == "" {
			s.ClearSearch(ctx)
			return
		}
		if err := s.RunSearch(ctx, trimmed); err != nil {
			s.log.Error("search failed", slog.String("term", trimmed), slog.String("error", err.Error()))
		}
	})
}

// ClearSearch leaves search mode and refreshes the current location's
// listing.
func (s *Session) ClearSearch(ctx context.Context) {
	s.mu.Lock()
	s.searchTerm = ""
	s.nextSearchGenLocked()
	s.mu.Unlock()
	if err := s.Refresh(ctx); err != nil {
		s.log.Error("refresh after search clear failed", slog.String("error", err.Error()))
	}
}

// RunSearch executes the search immediately. When the effective drive is
// known the store's search is used; otherwise the record root listing is
// filtered client-side by case-insensitive substring match. Results
// replace the displayed file list without touching the location or the
// breadcrumb trail, and only while this search is still the latest one.
func (s *Session) RunSearch(ctx context.Context, term string) error {
	s.mu.Lock()
	s.searchTerm = term
	s.status = dto.OperationStatus{IsLoading: true}
	gen := s.nextSearchGenLocked()
	driveID := s.effectiveLocationLocked().DriveID
	s.mu.Unlock()

	var (
		entries []dto.FileEntry
		err     error
	)
	if driveID != "" {
		entries, err = s.store.Search(ctx, driveID, term)
	} else {
		entries, err = s.store.ListForRecord(ctx, s.cfg.RecordID, s.cfg.ObjectType)
		if err == nil {
			entries = filterByName(entries, term)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.searchGen {
		s.log.Debug("discarding stale search result", slog.String("term", term))
		return nil
	}
	if err != nil {
		s.failListingLocked(err)
		return err
	}
	s.files = format.Decorate(entries)
	s.status = dto.OperationStatus{}
	return nil
}

func filterByName(entries []dto.FileEntry, term string) []dto.FileEntry {
	needle := strings.ToLower(term)
	matched := make([]dto.FileEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			matched = append(matched, e)
		}
	}
	return matched
}
