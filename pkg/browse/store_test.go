package browse_test

import (
	"context"
	"io"
	"sync"

	"github.com/drivebrowse/drivebrowse/pkg/browse"
	"github.com/drivebrowse/drivebrowse/pkg/config"
	"github.com/drivebrowse/drivebrowse/pkg/dto"
)

// fakeStore is a scriptable in-memory store. Gates let a test hold a
// remote call open while another one completes.
type fakeStore struct {
	mu sync.Mutex

	hasToken bool
	tokenErr error

	authURL string
	authErr error

	root    []dto.FileEntry
	rootErr error

	children map[string][]dto.FileEntry
	listErr  error
	listGate chan struct{}

	searchResults []dto.FileEntry
	searchErr     error

	uploadErr  error
	uploadGate chan struct{}
	createErr  error
	deleteErr  error
	previewURL string
	previewErr error

	rootCalls   int
	listCalls   int
	searchCalls int
	uploadCalls int
	createCalls int
	deleteCalls int

	lastSearchTerm string
	lastUploadLoc  dto.Location
	lastDeletedID  string
}

func (f *fakeStore) HasValidToken(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasToken, f.tokenErr
}

func (f *fakeStore) InitiateAuthFlow(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authURL, f.authErr
}

func (f *fakeStore) ListForRecord(_ context.Context, _, _ string) ([]dto.FileEntry, error) {
	f.mu.Lock()
	f.rootCalls++
	entries, err := f.root, f.rootErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return append([]dto.FileEntry(nil), entries...), nil
}

func (f *fakeStore) ListByLocation(_ context.Context, driveID, itemID string) ([]dto.FileEntry, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	f.listGate = nil
	entries, err := f.children[driveID+"|"+itemID], f.listErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return append([]dto.FileEntry(nil), entries...), nil
}

func (f *fakeStore) Search(_ context.Context, _, term string) ([]dto.FileEntry, error) {
	f.mu.Lock()
	f.searchCalls++
	f.lastSearchTerm = term
	entries, err := f.searchResults, f.searchErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return append([]dto.FileEntry(nil), entries...), nil
}

func (f *fakeStore) Upload(_ context.Context, _ io.Reader, _ int64, fileName, driveID, itemID string) (*dto.FileEntry, error) {
	f.mu.Lock()
	f.uploadCalls++
	f.lastUploadLoc = dto.Location{DriveID: driveID, ItemID: itemID}
	gate := f.uploadGate
	f.uploadGate = nil
	err := f.uploadErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &dto.FileEntry{ID: "new-" + fileName, Name: fileName}, nil
}

func (f *fakeStore) CreateFolder(_ context.Context, name, driveID, parentItemID string) (*dto.FileEntry, error) {
	f.mu.Lock()
	f.createCalls++
	err := f.createErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &dto.FileEntry{ID: "folder-" + name, Name: name, IsFolder: true, DriveID: driveID, ParentItemID: parentItemID}, nil
}

func (f *fakeStore) Delete(_ context.Context, itemID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	f.lastDeletedID = itemID
	return f.deleteErr
}

func (f *fakeStore) PreviewURL(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.previewURL, f.previewErr
}

func (f *fakeStore) counts() (root, list, search int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rootCalls, f.listCalls, f.searchCalls
}

func (f *fakeStore) setListErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

func (f *fakeStore) setListGate(gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listGate = gate
}

// noticeRecorder collects notifications for assertions.
type noticeRecorder struct {
	mu  sync.Mutex
	all []dto.Notification
}

func (n *noticeRecorder) Notify(x dto.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.all = append(n.all, x)
}

func (n *noticeRecorder) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.all))
	for _, x := range n.all {
		out = append(out, x.Title)
	}
	return out
}

func rootFixture() []dto.FileEntry {
	return []dto.FileEntry{
		{ID: "A", Name: "Alpha", IsFolder: true, DriveID: "D1", ParentItemID: "ROOT"},
		{ID: "f1", Name: "Report.pdf", Size: 1536, DriveID: "D1", ParentItemID: "ROOT"},
	}
}

func newTestSession(f *fakeStore) (*browse.Session, *noticeRecorder) {
	cfg := config.Config{
		RecordID:         "rec-1",
		ObjectType:       "Case",
		SearchDebounceMs: 20,
	}
	s := browse.NewSession(cfg, f)
	rec := &noticeRecorder{}
	s.SetNotifier(rec)
	return s, rec
}
