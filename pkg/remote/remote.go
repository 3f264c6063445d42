// Package remote defines the contract every drive store backend implements,
// together with the error taxonomy the browser core relies on.
package remote

import (
	"context"
	"io"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
)

// AuthCompletionSignal is the literal token the auth popup posts back to
// the initiating context on success. Any other payload is ignored.
const AuthCompletionSignal = "DRIVE_AUTH_SUCCESS"

// AcceptedExtensions is the case-insensitive upload allowlist.
var AcceptedExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx",
	".ppt", ".pptx", ".txt", ".jpg", ".jpeg",
	".png", ".gif", ".zip",
}

// Store performs all network operations against the remote drive service.
// Every call is a blocking round trip that honors the given context.
type Store interface {
	// HasValidToken reports whether a usable token exists for the user.
	HasValidToken(ctx context.Context) (bool, error)
	// InitiateAuthFlow returns the authorization URL to open in a popup.
	InitiateAuthFlow(ctx context.Context) (string, error)
	// ListForRecord lists the children of the record's linked root folder.
	ListForRecord(ctx context.Context, recordID, objectType string) ([]dto.FileEntry, error)
	// ListByLocation lists the children of the folder at (driveID, itemID).
	ListByLocation(ctx context.Context, driveID, itemID string) ([]dto.FileEntry, error)
	// Search returns entries of the drive whose names match the term.
	Search(ctx context.Context, driveID, term string) ([]dto.FileEntry, error)
	// Upload stores size bytes from r as fileName under the folder at
	// (driveID, itemID) and returns the created entry.
	Upload(ctx context.Context, r io.Reader, size int64, fileName, driveID, itemID string) (*dto.FileEntry, error)
	// CreateFolder creates a child folder under (driveID, parentItemID).
	CreateFolder(ctx context.Context, name, driveID, parentItemID string) (*dto.FileEntry, error)
	// Delete removes the item from the drive.
	Delete(ctx context.Context, itemID, driveID string) error
	// PreviewURL resolves a short-lived preview URL for the item.
	// An empty URL without error means no preview is available.
	PreviewURL(ctx context.Context, driveID, itemID string) (string, error)
}
