package browse

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

// AuthAttempt is one login attempt. The completion subscription lives
// exactly as long as the attempt: it is torn down on success, on cancel,
// on session close, and when a newer attempt replaces it.
type AuthAttempt struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// AuthState returns the current authentication state.
func (s *Session) AuthState() dto.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

// CheckAuth runs the token check and transitions the auth state.
// A valid token loads the root folder. A missing token record is the
// expected "never authorized" case and is only logged as a warning; any
// other failure also lands on unauthenticated, fail closed.
func (s *Session) CheckAuth(ctx context.Context) dto.AuthState {
	s.mu.Lock()
	s.auth = dto.AuthChecking
	s.mu.Unlock()

	hasToken, err := s.store.HasValidToken(ctx)

	s.mu.Lock()
	switch {
	case err != nil && remote.IsNoToken(err):
		s.log.Warn("user has no token record", slog.String("error", err.Error()))
		s.auth = dto.AuthUnauthenticated
	case err != nil:
		s.log.Error("token check failed", slog.String("error", err.Error()))
		s.auth = dto.AuthUnauthenticated
	case hasToken:
		s.auth = dto.AuthAuthenticated
	default:
		s.auth = dto.AuthUnauthenticated
	}
	state := s.auth
	s.mu.Unlock()

	if state == dto.AuthAuthenticated {
		if err := s.GoToRoot(ctx); err != nil {
			s.log.Error("root load after auth check failed", slog.String("error", err.Error()))
		}
	}
	return state
}

// RevalidateToken re-runs the token check without reloading the root.
// An authenticated session whose token has expired between user actions
// drops back to unauthenticated and the user is told to sign in again.
func (s *Session) RevalidateToken(ctx context.Context) dto.AuthState {
	s.mu.Lock()
	current := s.auth
	s.mu.Unlock()
	if current != dto.AuthAuthenticated {
		return current
	}

	hasToken, err := s.store.HasValidToken(ctx)
	if err == nil && hasToken {
		return dto.AuthAuthenticated
	}
	if err != nil {
		s.log.Warn("background token check failed", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	s.auth = dto.AuthUnauthenticated
	s.mu.Unlock()
	s.notify("Session expired", "Your drive session has expired, please sign in again.", "warning")
	return dto.AuthUnauthenticated
}

// BeginLogin starts a login attempt: it obtains the authorization URL
// from the store and registers the attempt as the session's current one.
// Any previous attempt is replaced, so its completion subscription can
// never outlive it.
func (s *Session) BeginLogin(ctx context.Context) (*AuthAttempt, error) {
	url, err := s.store.InitiateAuthFlow(ctx)
	if err != nil {
		s.log.Error("initiate auth flow failed", slog.String("error", err.Error()))
		return nil, err
	}

	attempt := &AuthAttempt{ID: uuid.NewString(), URL: url}

	s.mu.Lock()
	if s.attempt != nil {
		s.log.Debug("replacing stale auth attempt", slog.String("attemptId", s.attempt.ID))
	}
	s.attempt = attempt
	s.mu.Unlock()

	return attempt, nil
}

// CompleteAuth handles the popup completion handshake. Only the literal
// completion signal addressed to the current attempt transitions the
// session to authenticated; anything else is ignored. On success the
// attempt is deregistered, a notification is emitted and the root folder
// is loaded.
func (s *Session) CompleteAuth(ctx context.Context, attemptID, signal string) bool {
	if signal != remote.AuthCompletionSignal {
		s.log.Debug("ignoring unexpected auth signal")
		return false
	}

	s.mu.Lock()
	if s.attempt == nil || s.attempt.ID != attemptID {
		s.mu.Unlock()
		s.log.Debug("ignoring completion for unknown auth attempt",
			slog.String("attemptId", attemptID))
		return false
	}
	s.attempt = nil
	s.auth = dto.AuthAuthenticated
	s.mu.Unlock()

	s.notify("Success", "You are signed in and may browse drive files.", "success")
	if err := s.GoToRoot(ctx); err != nil {
		s.log.Error("root load after login failed", slog.String("error", err.Error()))
	}
	return true
}

// CancelLogin tears down the given attempt without completing it, e.g.
// when the user closes the popup.
func (s *Session) CancelLogin(attemptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempt != nil && s.attempt.ID == attemptID {
		s.attempt = nil
	}
}

// CurrentAttemptID returns the id of the in-flight auth attempt, or the
// empty string when none is registered.
func (s *Session) CurrentAttemptID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempt == nil {
		return ""
	}
	return s.attempt.ID
}
