package gstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
)

// driveItem is the wire shape of one drive entry.
type driveItem struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Size                 int64        `json:"size"`
	LastModifiedDateTime string       `json:"lastModifiedDateTime"`
	WebURL               string       `json:"webUrl"`
	Folder               *folderFacet `json:"folder,omitempty"`
	ParentReference      *parentRef   `json:"parentReference,omitempty"`
}

type folderFacet struct {
	ChildCount int `json:"childCount"`
}

type parentRef struct {
	DriveID string `json:"driveId"`
	ID      string `json:"id"`
}

type listResponse struct {
	Value []driveItem `json:"value"`
}

// toEntry maps one wire item to a FileEntry. DriveID comes from the
// parent reference for folders and files alike.
func (it driveItem) toEntry() dto.FileEntry {
	entry := dto.FileEntry{
		ID:       it.ID,
		Name:     it.Name,
		IsFolder: it.Folder != nil,
		Size:     it.Size,
	}
	if it.ParentReference != nil {
		entry.DriveID = it.ParentReference.DriveID
		entry.ParentItemID = it.ParentReference.ID
	}
	if it.LastModifiedDateTime != "" {
		if ts, err := time.Parse(time.RFC3339, it.LastModifiedDateTime); err == nil {
			entry.LastModified = ts
		}
	}
	return entry
}

func toEntries(items []driveItem) []dto.FileEntry {
	entries := make([]dto.FileEntry, len(items))
	for i, it := range items {
		entries[i] = it.toEntry()
	}
	return entries
}

// ListForRecord lists the children of the record's linked root folder.
func (s *Service) ListForRecord(ctx context.Context, recordID, objectType string) ([]dto.FileEntry, error) {
	path := fmt.Sprintf("/v1/records/%s/drive/root/children?objectType=%s",
		url.PathEscape(recordID), url.QueryEscape(objectType))
	var list listResponse
	if err := s.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	s.log.Debug("record root listed",
		slog.String("recordId", recordID),
		slog.Int("count", len(list.Value)))
	return toEntries(list.Value), nil
}

// ListByLocation lists the children of the folder at (driveID, itemID).
func (s *Service) ListByLocation(ctx context.Context, driveID, itemID string) ([]dto.FileEntry, error) {
	path := fmt.Sprintf("/v1/drives/%s/items/%s/children",
		url.PathEscape(driveID), url.PathEscape(itemID))
	var list listResponse
	if err := s.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	return toEntries(list.Value), nil
}

// Search returns the drive entries whose names match the term.
func (s *Service) Search(ctx context.Context, driveID, term string) ([]dto.FileEntry, error) {
	path := fmt.Sprintf("/v1/drives/%s/search?q=%s",
		url.PathEscape(driveID), url.QueryEscape(term))
	var list listResponse
	if err := s.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	return toEntries(list.Value), nil
}

// Upload stores size bytes from r as fileName under (driveID, itemID)
// and returns the created entry.
func (s *Service) Upload(ctx context.Context, r io.Reader, size int64, fileName, driveID, itemID string) (*dto.FileEntry, error) {
	path := fmt.Sprintf("%s/v1/drives/%s/items/%s/children/%s/content",
		s.cfg.BaseURL, url.PathEscape(driveID), url.PathEscape(itemID), url.PathEscape(fileName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, path, r)
	if err != nil {
		return nil, err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "application/octet-stream")

	var item driveItem
	if err := s.do(req, "Upload "+fileName, &item); err != nil {
		return nil, err
	}
	entry := item.toEntry()
	return &entry, nil
}

// CreateFolder creates a child folder under (driveID, parentItemID).
func (s *Service) CreateFolder(ctx context.Context, name, driveID, parentItemID string) (*dto.FileEntry, error) {
	body, err := json.Marshal(map[string]any{
		"name":   name,
		"folder": map[string]any{},
	})
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("%s/v1/drives/%s/items/%s/children",
		s.cfg.BaseURL, url.PathEscape(driveID), url.PathEscape(parentItemID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var item driveItem
	if err := s.do(req, "CreateFolder "+name, &item); err != nil {
		return nil, err
	}
	entry := item.toEntry()
	return &entry, nil
}

// Delete removes the item from the drive.
func (s *Service) Delete(ctx context.Context, itemID, driveID string) error {
	path := fmt.Sprintf("%s/v1/drives/%s/items/%s",
		s.cfg.BaseURL, url.PathEscape(driveID), url.PathEscape(itemID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return s.do(req, "Delete "+itemID, nil)
}

// PreviewURL resolves a short-lived preview URL for the item. An empty
// URL without error means the service offers no preview for it.
func (s *Service) PreviewURL(ctx context.Context, driveID, itemID string) (string, error) {
	path := fmt.Sprintf("%s/v1/drives/%s/items/%s/preview",
		s.cfg.BaseURL, url.PathEscape(driveID), url.PathEscape(itemID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, nil)
	if err != nil {
		return "", err
	}

	var preview struct {
		GetURL string `json:"getUrl"`
	}
	if err := s.do(req, "PreviewURL "+itemID, &preview); err != nil {
		return "", err
	}
	return preview.GetURL, nil
}
