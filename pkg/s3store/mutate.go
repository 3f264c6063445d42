package s3store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
)

// presignExpiry bounds the lifetime of preview URLs.
const presignExpiry = 15 * time.Minute

// Upload stores the content as a new object under the folder prefix and
// returns the created entry.
func (s *Service) Upload(ctx context.Context, r io.Reader, size int64, fileName, driveID, itemID string) (*dto.FileEntry, error) {
	if driveID != s.cfg.Bucket {
		return nil, fmt.Errorf("Upload: unknown drive %q", driveID)
	}
	prefix := normalizeKey(itemID)
	key := prefix + fileName

	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("Upload: error uploading to S3: %w", err)
	}

	s.log.Debug("Upload completed",
		slog.String("key", key),
		slog.String("contentType", contentType),
		slog.Int64("size", size))

	return &dto.FileEntry{
		ID:           key,
		Name:         fileName,
		Size:         size,
		LastModified: time.Now().UTC(),
		DriveID:      s.cfg.Bucket,
		ParentItemID: folderItemID(prefix),
	}, nil
}

// CreateFolder creates the folder as a zero-byte marker key ending in
// the delimiter.
func (s *Service) CreateFolder(ctx context.Context, name, driveID, parentItemID string) (*dto.FileEntry, error) {
	if driveID != s.cfg.Bucket {
		return nil, fmt.Errorf("CreateFolder: unknown drive %q", driveID)
	}
	prefix := normalizeKey(parentItemID)
	key := prefix + name + keyDelimiter

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return nil, fmt.Errorf("CreateFolder: error creating folder marker: %w", err)
	}

	s.log.Debug("CreateFolder completed", slog.String("key", key))

	return &dto.FileEntry{
		ID:           key,
		Name:         name,
		IsFolder:     true,
		DriveID:      s.cfg.Bucket,
		ParentItemID: folderItemID(prefix),
	}, nil
}

// Delete removes the object behind the item id.
func (s *Service) Delete(ctx context.Context, itemID, driveID string) error {
	if driveID != s.cfg.Bucket {
		return fmt.Errorf("Delete: unknown drive %q", driveID)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(normalizeKey(itemID)),
	})
	if err != nil {
		return fmt.Errorf("Delete: error deleting from S3: %w", err)
	}

	s.log.Debug("Delete completed", slog.String("key", itemID))
	return nil
}

// PreviewURL returns a presigned GET for the object.
func (s *Service) PreviewURL(ctx context.Context, driveID, itemID string) (string, error) {
	if driveID != s.cfg.Bucket {
		return "", fmt.Errorf("PreviewURL: unknown drive %q", driveID)
	}

	presigned, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(normalizeKey(itemID)),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("PreviewURL: error presigning: %w", err)
	}
	return presigned.URL, nil
}
