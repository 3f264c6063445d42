// Package dto provides data transfer objects shared across the browser core.
package dto

import "time"

// Location identifies a folder in the remote drive store.
// The zero value denotes the root of the record's linked folder.
type Location struct {
	DriveID string `json:"driveId"`
	ItemID  string `json:"itemId"`
}

// IsRoot reports whether the location denotes the record root.
func (l Location) IsRoot() bool {
	return l.DriveID == "" && l.ItemID == ""
}

// Breadcrumb is one entry of the navigation trail, root to current.
// Exactly one entry of a trail has IsLast set and it is the final one;
// its coordinates equal the current location.
type Breadcrumb struct {
	Label   string `json:"label"`
	Index   int    `json:"index"`
	IsLast  bool   `json:"isLast"`
	ItemID  string `json:"itemId"`
	DriveID string `json:"driveId"`
}

// FileEntry is one row of a folder listing or search result.
// DriveID is always populated from the entry's parent reference,
// folder or file alike. Display fields are set for files only.
type FileEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	IsFolder     bool      `json:"isFolder"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	DriveID      string    `json:"driveId"`
	ParentItemID string    `json:"parentItemId"`

	IconName      string `json:"iconName,omitempty"`
	FormattedSize string `json:"formattedSize,omitempty"`
	FormattedDate string `json:"formattedDate,omitempty"`
}

// AuthState is the authentication lifecycle of a browse session.
type AuthState int

const (
	// AuthUnknown is the state before the first token check.
	AuthUnknown AuthState = iota
	// AuthChecking is the state while the token check is in flight.
	AuthChecking
	// AuthAuthenticated means a valid token is available.
	AuthAuthenticated
	// AuthUnauthenticated means no valid token; a login is required.
	AuthUnauthenticated
)

// String returns the state name for logs and JSON payloads.
func (a AuthState) String() string {
	switch a {
	case AuthChecking:
		return "checking"
	case AuthAuthenticated:
		return "authenticated"
	case AuthUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so the state renders
// as its name in JSON payloads.
func (a AuthState) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// OperationError is a user-visible failure of a listing or mutation.
type OperationError struct {
	Message       string `json:"message"`
	IsAuthError   bool   `json:"isAuthError"`
	IsMissingLink bool   `json:"isMissingLink"`
}

// OperationStatus is the busy/error slot of the browse screen.
type OperationStatus struct {
	IsLoading bool            `json:"isLoading"`
	Err       *OperationError `json:"error,omitempty"`
}

// Notification is a transient user-facing message.
type Notification struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Variant string `json:"variant"`
}
