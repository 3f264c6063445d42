package browse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

func TestCheckAuthValidTokenLoadsRoot(t *testing.T) {
	f := &fakeStore{hasToken: true, root: rootFixture()}
	s, _ := newTestSession(f)

	state := s.CheckAuth(context.Background())

	assert.Equal(t, dto.AuthAuthenticated, state)
	assert.Equal(t, dto.AuthAuthenticated, s.AuthState())
	root, _, _ := f.counts()
	assert.Equal(t, 1, root)
	assert.Len(t, s.State().Files, 2)
}

func TestCheckAuthNoTokenRecord(t *testing.T) {
	f := &fakeStore{tokenErr: remote.NewOpError("HasValidToken", remote.NoTokenMarker)}
	s, _ := newTestSession(f)

	state := s.CheckAuth(context.Background())

	assert.Equal(t, dto.AuthUnauthenticated, state)
	root, _, _ := f.counts()
	assert.Zero(t, root)
}

func TestCheckAuthFailsClosed(t *testing.T) {
	f := &fakeStore{tokenErr: remote.NewOpError("HasValidToken", "service unavailable")}
	s, _ := newTestSession(f)

	state := s.CheckAuth(context.Background())

	assert.Equal(t, dto.AuthUnauthenticated, state)
}

func TestCheckAuthInvalidToken(t *testing.T) {
	f := &fakeStore{hasToken: false}
	s, _ := newTestSession(f)

	state := s.CheckAuth(context.Background())

	assert.Equal(t, dto.AuthUnauthenticated, state)
}

func TestLoginFlow(t *testing.T) {
	f := &fakeStore{authURL: "https://login.example/authorize?x=1", root: rootFixture()}
	s, rec := newTestSession(f)
	ctx := context.Background()

	attempt, err := s.BeginLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://login.example/authorize?x=1", attempt.URL)
	require.NotEmpty(t, attempt.ID)

	// anything but the completion signal is ignored
	assert.False(t, s.CompleteAuth(ctx, attempt.ID, "SOMETHING_ELSE"))
	assert.NotEqual(t, dto.AuthAuthenticated, s.AuthState())

	// a signal for an unknown attempt is ignored
	assert.False(t, s.CompleteAuth(ctx, "other-attempt", remote.AuthCompletionSignal))

	assert.True(t, s.CompleteAuth(ctx, attempt.ID, remote.AuthCompletionSignal))
	assert.Equal(t, dto.AuthAuthenticated, s.AuthState())
	assert.Contains(t, rec.titles(), "Success")
	root, _, _ := f.counts()
	assert.Equal(t, 1, root)

	// the attempt is gone once completed
	assert.False(t, s.CompleteAuth(ctx, attempt.ID, remote.AuthCompletionSignal))
}

func TestBeginLoginReplacesPreviousAttempt(t *testing.T) {
	f := &fakeStore{authURL: "https://login.example/authorize", root: rootFixture()}
	s, _ := newTestSession(f)
	ctx := context.Background()

	first, err := s.BeginLogin(ctx)
	require.NoError(t, err)
	second, err := s.BeginLogin(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	assert.False(t, s.CompleteAuth(ctx, first.ID, remote.AuthCompletionSignal))
	assert.True(t, s.CompleteAuth(ctx, second.ID, remote.AuthCompletionSignal))
}

func TestCancelLogin(t *testing.T) {
	f := &fakeStore{authURL: "https://login.example/authorize"}
	s, _ := newTestSession(f)
	ctx := context.Background()

	attempt, err := s.BeginLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, attempt.ID, s.CurrentAttemptID())

	s.CancelLogin(attempt.ID)
	assert.Empty(t, s.CurrentAttemptID())
	assert.False(t, s.CompleteAuth(ctx, attempt.ID, remote.AuthCompletionSignal))
}

func TestBeginLoginFailure(t *testing.T) {
	f := &fakeStore{authErr: remote.ErrAuthFlowUnavailable}
	s, _ := newTestSession(f)

	_, err := s.BeginLogin(context.Background())
	require.Error(t, err)
	assert.Empty(t, s.CurrentAttemptID())
}

func TestRevalidateTokenExpiry(t *testing.T) {
	f := &fakeStore{hasToken: true, root: rootFixture()}
	s, rec := newTestSession(f)
	ctx := context.Background()
	require.Equal(t, dto.AuthAuthenticated, s.CheckAuth(ctx))

	// still valid, nothing changes
	assert.Equal(t, dto.AuthAuthenticated, s.RevalidateToken(ctx))

	f.mu.Lock()
	f.hasToken = false
	f.mu.Unlock()

	assert.Equal(t, dto.AuthUnauthenticated, s.RevalidateToken(ctx))
	assert.Equal(t, dto.AuthUnauthenticated, s.AuthState())
	assert.Contains(t, rec.titles(), "Session expired")
}

func TestRevalidateTokenIgnoredWhenNotAuthenticated(t *testing.T) {
	f := &fakeStore{}
	s, rec := newTestSession(f)

	assert.Equal(t, dto.AuthUnknown, s.RevalidateToken(context.Background()))
	assert.Empty(t, rec.titles())
}
