package browse

import (
	"context"
	"log/slog"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/format"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

// GoToRoot navigates to the record's linked root folder. The trail is
// cleared and the location reset before the fetch; a failed fetch rolls
// both back to the last committed state. On success the root folder's
// concrete coordinates are derived from the first entry's parent
// reference and kept for mutations issued while at root.
func (s *Session) GoToRoot(ctx context.Context) error {
	s.mu.Lock()
	s.loc = dto.Location{}
	s.crumbs = nil
	s.searchTerm = ""
	s.status = dto.OperationStatus{IsLoading: true}
	gen := s.nextListGenLocked()
	s.mu.Unlock()

	entries, err := s.store.ListForRecord(ctx, s.cfg.RecordID, s.cfg.ObjectType)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.listGen {
		s.log.Debug("discarding stale root listing", slog.Uint64("gen", gen))
		return nil
	}
	if err != nil {
		s.log.Error("root listing failed", slog.String("error", err.Error()))
		s.rollbackLocked()
		s.failListingLocked(err)
		return err
	}

	s.files = format.Decorate(entries)
	if len(entries) > 0 {
		s.rootLoc = dto.Location{
			DriveID: entries[0].DriveID,
			ItemID:  entries[0].ParentItemID,
		}
	}
	s.status = dto.OperationStatus{}
	s.commitLocked()
	return nil
}

// GoToFolder descends into the named child folder at (driveID, itemID).
// The new trail extends the last committed one, since that is the trail
// behind the listing the click came from; prior crumbs keep their
// coordinates. The listing generation is drawn in the same critical
// section as the trail mutation, so overlapping navigations resolve in
// mutation order.
func (s *Session) GoToFolder(ctx context.Context, driveID, itemID, name string) error {
	s.mu.Lock()
	next := make([]dto.Breadcrumb, 0, len(s.committedCrumbs)+1)
	for _, c := range s.committedCrumbs {
		c.IsLast = false
		next = append(next, c)
	}
	next = append(next, dto.Breadcrumb{
		Label:   name,
		Index:   len(next),
		IsLast:  true,
		ItemID:  itemID,
		DriveID: driveID,
	})
	s.crumbs = next
	s.loc = dto.Location{DriveID: driveID, ItemID: itemID}
	s.status = dto.OperationStatus{IsLoading: true}
	gen := s.nextListGenLocked()
	s.mu.Unlock()

	return s.fetchListing(ctx, driveID, itemID, gen)
}

// GoToBreadcrumb truncates the trail to [0..index] and navigates to that
// crumb. A crumb without coordinates is the root crumb and falls back to
// GoToRoot. Clicking the current last crumb leaves the trail unchanged
// and re-issues the listing fetch.
func (s *Session) GoToBreadcrumb(ctx context.Context, index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.crumbs) {
		s.mu.Unlock()
		return remote.NewValidationError("breadcrumb index out of range")
	}
	target := s.crumbs[index]
	truncated := cloneCrumbs(s.crumbs[:index+1])
	for i := range truncated {
		truncated[i].Index = i
		truncated[i].IsLast = i == len(truncated)-1
	}
	if target.ItemID == "" || target.DriveID == "" {
		s.mu.Unlock()
		return s.GoToRoot(ctx)
	}
	s.crumbs = truncated
	s.loc = dto.Location{DriveID: target.DriveID, ItemID: target.ItemID}
	s.status = dto.OperationStatus{IsLoading: true}
	gen := s.nextListGenLocked()
	s.mu.Unlock()

	return s.fetchListing(ctx, target.DriveID, target.ItemID, gen)
}

// GoBack pops the last crumb and navigates to the new last one, falling
// back to the root when the trail has one or zero entries.
func (s *Session) GoBack(ctx context.Context) error {
	s.mu.Lock()
	if len(s.crumbs) <= 1 {
		s.mu.Unlock()
		return s.GoToRoot(ctx)
	}
	index := len(s.crumbs) - 2
	s.mu.Unlock()
	return s.GoToBreadcrumb(ctx, index)
}

// Refresh re-fetches the listing of the current effective location
// without altering the breadcrumb trail.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	loc := s.effectiveLocationLocked()
	if loc.IsRoot() {
		s.mu.Unlock()
		return s.GoToRoot(ctx)
	}
	s.status = dto.OperationStatus{IsLoading: true}
	gen := s.nextListGenLocked()
	s.mu.Unlock()
	return s.fetchListing(ctx, loc.DriveID, loc.ItemID, gen)
}

// fetchListing issues the folder listing for a generation the caller
// drew together with its state mutation, and applies the result only
// while that generation is still the latest. A failed fetch rolls the
// trail and location back.
func (s *Session) fetchListing(ctx context.Context, driveID, itemID string, gen uint64) error {
	entries, err := s.store.ListByLocation(ctx, driveID, itemID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.listGen {
		s.log.Debug("discarding stale folder listing",
			slog.Uint64("gen", gen),
			slog.String("itemId", itemID))
		return nil
	}
	if err != nil {
		s.log.Error("folder listing failed",
			slog.String("itemId", itemID),
			slog.String("error", err.Error()))
		s.rollbackLocked()
		s.failListingLocked(err)
		return err
	}

	s.files = format.Decorate(entries)
	s.status = dto.OperationStatus{}
	s.commitLocked()
	return nil
}
