package browse

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

// ErrOperationInFlight is returned when a mutating operation is
// triggered while another one still holds the in-flight token.
var ErrOperationInFlight = errors.New("another operation is already in progress")

// defaultDocLabel is used in notifications when the item name is empty.
const defaultDocLabel = "Document"

// beginOp acquires the single in-flight operation token and raises the
// busy flag. Mutations serialize through it so a double-click cannot
// trigger the same operation twice.
func (s *Session) beginOp() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opInFlight {
		return ErrOperationInFlight
	}
	s.opInFlight = true
	s.status.IsLoading = true
	return nil
}

// endOp releases the token and clears the busy flag. Runs on success,
// failure and validation short-circuit alike.
func (s *Session) endOp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opInFlight = false
	s.status.IsLoading = false
}

func (s *Session) setOpError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failListingLocked(err)
}

// Upload stores the given content as fileName in the current folder and
// refreshes the listing on success.
func (s *Session) Upload(ctx context.Context, r io.Reader, size int64, fileName string) error {
	loc := s.EffectiveLocation()
	if loc.DriveID == "" || loc.ItemID == "" {
		return s.failValidation("Missing required information to upload file.")
	}
	if fileName == "" || r == nil || size <= 0 {
		return s.failValidation("No file provided for upload.")
	}
	if !ExtensionAllowed(fileName) {
		return s.failValidation("File type is not allowed: " + fileName)
	}

	if err := s.beginOp(); err != nil {
		return err
	}
	defer s.endOp()

	entry, err := s.store.Upload(ctx, r, size, fileName, loc.DriveID, loc.ItemID)
	if err != nil {
		s.log.Error("upload failed",
			slog.String("fileName", fileName),
			slog.String("error", err.Error()))
		s.setOpError(err)
		return err
	}

	s.log.Info("upload completed",
		slog.String("fileName", fileName),
		slog.Int64("size", size))
	s.notify("File Upload Succeeded", "Uploaded "+docLabel(entryName(entry, fileName)), "success")
	return s.Refresh(ctx)
}

// CreateFolder creates a child folder in the current location and
// refreshes the listing on success.
func (s *Session) CreateFolder(ctx context.Context, name string) error {
	loc := s.EffectiveLocation()
	if name == "" || loc.DriveID == "" || loc.ItemID == "" {
		return s.failValidation("Missing required information to create folder.")
	}

	if err := s.beginOp(); err != nil {
		return err
	}
	defer s.endOp()

	entry, err := s.store.CreateFolder(ctx, name, loc.DriveID, loc.ItemID)
	if err != nil {
		s.log.Error("create folder failed",
			slog.String("name", name),
			slog.String("error", err.Error()))
		s.setOpError(err)
		return err
	}

	s.notify("Folder Created", "Created "+docLabel(entryName(entry, name)), "success")
	return s.Refresh(ctx)
}

// PromptDelete stages an item for the two-step delete confirmation.
func (s *Session) PromptDelete(itemID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = &DeleteTarget{ItemID: itemID, Name: name}
}

// CancelDelete clears the pending target without any remote call.
func (s *Session) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = nil
}

// ConfirmDelete executes the staged delete and refreshes the listing on
// success. The pending target is cleared whether the delete succeeds or
// not; a failed delete leaves the displayed listing unchanged.
func (s *Session) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	target := s.pendingDelete
	s.pendingDelete = nil
	s.mu.Unlock()

	if target == nil {
		return s.failValidation("No file staged for deletion.")
	}
	driveID := s.EffectiveLocation().DriveID
	if driveID == "" || target.ItemID == "" {
		return s.failValidation("Missing required information to delete file.")
	}

	if err := s.beginOp(); err != nil {
		return err
	}
	defer s.endOp()

	if err := s.store.Delete(ctx, target.ItemID, driveID); err != nil {
		s.log.Error("delete failed",
			slog.String("itemId", target.ItemID),
			slog.String("error", err.Error()))
		s.setOpError(err)
		s.notify("Error deleting file", remote.Message(err), "error")
		return err
	}

	s.notify("File Deleted", "Deleted "+docLabel(target.Name)+" successfully.", "info")
	return s.Refresh(ctx)
}

// Preview resolves a preview URL for the item, falling back to the row's
// href when the item lacks coordinates or the remote lookup fails.
func (s *Session) Preview(ctx context.Context, driveID, itemID, href string) (string, error) {
	if driveID == "" || itemID == "" {
		if href == "" {
			return "", remote.NewValidationError("Missing required information to preview file.")
		}
		return href, nil
	}

	url, err := s.store.PreviewURL(ctx, driveID, itemID)
	if err != nil || url == "" {
		if err != nil {
			s.log.Warn("preview lookup failed, falling back",
				slog.String("itemId", itemID),
				slog.String("error", err.Error()))
		}
		if href == "" {
			return "", remote.NewValidationError("No preview available for this file.")
		}
		return href, nil
	}
	return url, nil
}

// ExtensionAllowed reports whether the file name carries one of the
// accepted upload extensions, case-insensitive.
func ExtensionAllowed(fileName string) bool {
	lower := strings.ToLower(fileName)
	for _, ext := range remote.AcceptedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// failValidation records a local precondition failure in the status slot
// and returns it. Validation failures never reach the network.
func (s *Session) failValidation(message string) error {
	err := remote.NewValidationError(message)
	s.mu.Lock()
	s.status.Err = &dto.OperationError{Message: message}
	s.mu.Unlock()
	return err
}

func docLabel(name string) string {
	if name == "" {
		return defaultDocLabel
	}
	return name
}

func entryName(entry *dto.FileEntry, fallback string) string {
	if entry != nil && entry.Name != "" {
		return entry.Name
	}
	return fallback
}
