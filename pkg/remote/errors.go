package remote

import (
	"errors"
	"fmt"
	"strings"
)

// Marker substrings the core pattern-matches in otherwise opaque remote
// error messages.
const (
	// MissingLinkMarker flags a record without a linked root folder.
	MissingLinkMarker = "Missing drive link"
	// NoTokenMarker flags a token check for a user who never authorized.
	NoTokenMarker = "No token record found for this user"
)

// ErrAuthFlowUnavailable is returned by backends that cannot build an
// interactive authorization URL.
var ErrAuthFlowUnavailable = errors.New("authorization flow is not available for this backend")

// OpError is a remote-originated failure carrying the service's
// human-readable message verbatim.
type OpError struct {
	Op      string
	Message string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// NewOpError builds an OpError for the given operation and remote message.
func NewOpError(op, message string) *OpError {
	return &OpError{Op: op, Message: message}
}

// ValidationError is a local precondition failure. It never reaches the
// network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a local precondition failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsMissingLink reports whether the error message carries the
// missing-link configuration marker.
func IsMissingLink(err error) bool {
	return err != nil && strings.Contains(err.Error(), MissingLinkMarker)
}

// IsNoToken reports whether the error message carries the no-token
// marker. This is the non-fatal "user never authorized" case.
func IsNoToken(err error) bool {
	return err != nil && strings.Contains(err.Error(), NoTokenMarker)
}

// Message extracts the human-readable message from a remote error,
// unwrapping OpError when present.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Message
	}
	return err.Error()
}
