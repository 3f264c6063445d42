package browse_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivebrowse/drivebrowse/pkg/browse"
	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

func navigatedSession(t *testing.T) (*fakeStore, *browse.Session, *noticeRecorder) {
	t.Helper()
	f := &fakeStore{
		root: rootFixture(),
		children: map[string][]dto.FileEntry{
			"D1|ROOT": rootFixture(),
			"D1|A":    {},
		},
	}
	s, rec := newTestSession(f)
	require.NoError(t, s.GoToRoot(context.Background()))
	return f, s, rec
}

func TestUploadAtRootUsesDerivedCoordinates(t *testing.T) {
	f, s, rec := navigatedSession(t)

	err := s.Upload(context.Background(), strings.NewReader("content"), 7, "notes.pdf")
	require.NoError(t, err)

	f.mu.Lock()
	loc := f.lastUploadLoc
	f.mu.Unlock()
	assert.Equal(t, dto.Location{DriveID: "D1", ItemID: "ROOT"}, loc)
	assert.Contains(t, rec.titles(), "File Upload Succeeded")

	// the listing is re-fetched after the upload
	_, list, _ := f.counts()
	assert.Equal(t, 1, list)
}

func TestUploadValidation(t *testing.T) {
	t.Run("no location", func(t *testing.T) {
		f := &fakeStore{}
		s, _ := newTestSession(f)
		err := s.Upload(context.Background(), strings.NewReader("x"), 1, "notes.pdf")
		assert.True(t, remote.IsValidation(err))
		f.mu.Lock()
		defer f.mu.Unlock()
		assert.Zero(t, f.uploadCalls)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		f, s, _ := navigatedSession(t)
		err := s.Upload(context.Background(), strings.NewReader("x"), 1, "malware.exe")
		assert.True(t, remote.IsValidation(err))
		f.mu.Lock()
		defer f.mu.Unlock()
		assert.Zero(t, f.uploadCalls)
	})

	t.Run("empty payload", func(t *testing.T) {
		f, s, _ := navigatedSession(t)
		err := s.Upload(context.Background(), strings.NewReader(""), 0, "notes.pdf")
		assert.True(t, remote.IsValidation(err))
		f.mu.Lock()
		defer f.mu.Unlock()
		assert.Zero(t, f.uploadCalls)
	})
}

func TestUploadRejectedWhileAnotherOperationRuns(t *testing.T) {
	f, s, _ := navigatedSession(t)

	gate := make(chan struct{})
	f.mu.Lock()
	f.uploadGate = gate
	f.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- s.Upload(context.Background(), strings.NewReader("one"), 3, "one.pdf")
	}()
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.uploadCalls == 1
	}, time.Second, time.Millisecond)

	err := s.Upload(context.Background(), strings.NewReader("two"), 3, "two.pdf")
	assert.ErrorIs(t, err, browse.ErrOperationInFlight)

	close(gate)
	require.NoError(t, <-done)
}

func TestCreateFolder(t *testing.T) {
	f, s, rec := navigatedSession(t)

	require.NoError(t, s.CreateFolder(context.Background(), "Invoices"))

	f.mu.Lock()
	creates := f.createCalls
	f.mu.Unlock()
	assert.Equal(t, 1, creates)
	assert.Contains(t, rec.titles(), "Folder Created")
}

func TestCreateFolderRequiresName(t *testing.T) {
	f, s, _ := navigatedSession(t)

	err := s.CreateFolder(context.Background(), "")
	assert.True(t, remote.IsValidation(err))
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Zero(t, f.createCalls)
}

func TestDeleteConfirmFlow(t *testing.T) {
	f, s, rec := navigatedSession(t)

	s.PromptDelete("f1", "Report.pdf")
	st := s.State()
	require.NotNil(t, st.PendingDelete)
	assert.Equal(t, "Report.pdf", st.PendingDelete.Name)

	// the refreshed listing no longer carries the deleted item
	f.mu.Lock()
	f.children["D1|ROOT"] = []dto.FileEntry{
		{ID: "A", Name: "Alpha", IsFolder: true, DriveID: "D1", ParentItemID: "ROOT"},
	}
	f.mu.Unlock()

	require.NoError(t, s.ConfirmDelete(context.Background()))

	st = s.State()
	assert.Nil(t, st.PendingDelete)
	f.mu.Lock()
	deleted := f.lastDeletedID
	f.mu.Unlock()
	assert.Equal(t, "f1", deleted)
	assert.Contains(t, rec.titles(), "File Deleted")
	_, list, _ := f.counts()
	assert.Equal(t, 1, list)
	for _, entry := range st.Files {
		assert.NotEqual(t, "f1", entry.ID)
	}
}

func TestDeleteCancel(t *testing.T) {
	f, s, _ := navigatedSession(t)

	s.PromptDelete("f1", "Report.pdf")
	s.CancelDelete()

	assert.Nil(t, s.State().PendingDelete)
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Zero(t, f.deleteCalls)
}

func TestDeleteFailureLeavesListing(t *testing.T) {
	f, s, rec := navigatedSession(t)
	filesBefore := s.State().Files

	f.mu.Lock()
	f.deleteErr = remote.NewOpError("Delete", "item is locked")
	f.mu.Unlock()

	s.PromptDelete("f1", "Report.pdf")
	err := s.ConfirmDelete(context.Background())
	require.Error(t, err)

	st := s.State()
	assert.Nil(t, st.PendingDelete)
	assert.Equal(t, filesBefore, st.Files)
	assert.Contains(t, rec.titles(), "Error deleting file")
	_, list, _ := f.counts()
	assert.Zero(t, list)
}

func TestConfirmDeleteWithoutPrompt(t *testing.T) {
	_, s, _ := navigatedSession(t)

	err := s.ConfirmDelete(context.Background())
	assert.True(t, remote.IsValidation(err))
}

func TestPreview(t *testing.T) {
	t.Run("remote url", func(t *testing.T) {
		f := &fakeStore{previewURL: "https://drive.example/preview/f1"}
		s, _ := newTestSession(f)
		url, err := s.Preview(context.Background(), "D1", "f1", "https://fallback")
		require.NoError(t, err)
		assert.Equal(t, "https://drive.example/preview/f1", url)
	})

	t.Run("falls back to href", func(t *testing.T) {
		f := &fakeStore{previewErr: remote.NewOpError("PreviewURL", "not supported")}
		s, _ := newTestSession(f)
		url, err := s.Preview(context.Background(), "D1", "f1", "https://fallback")
		require.NoError(t, err)
		assert.Equal(t, "https://fallback", url)
	})

	t.Run("no coordinates and no href", func(t *testing.T) {
		f := &fakeStore{}
		s, _ := newTestSession(f)
		_, err := s.Preview(context.Background(), "", "", "")
		assert.True(t, remote.IsValidation(err))
	})
}

func TestExtensionAllowed(t *testing.T) {
	assert.True(t, browse.ExtensionAllowed("report.pdf"))
	assert.True(t, browse.ExtensionAllowed("REPORT.PDF"))
	assert.True(t, browse.ExtensionAllowed("notes.docx"))
	assert.False(t, browse.ExtensionAllowed("malware.exe"))
	assert.False(t, browse.ExtensionAllowed("archive"))
}
