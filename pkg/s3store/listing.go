package s3store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

const keyDelimiter = "/"

// ListForRecord lists the record's linked folder: the configured bucket
// prefix. A record without a configured bucket has no drive link.
func (s *Service) ListForRecord(ctx context.Context, recordID, _ string) ([]dto.FileEntry, error) {
	if s.cfg.Bucket == "" {
		return nil, remote.NewOpError("ListForRecord "+recordID,
			remote.MissingLinkMarker+": no bucket configured for this record")
	}
	return s.listPrefix(ctx, s.cfg.Prefix)
}

// ListByLocation lists the children of the folder at (bucket, prefix).
func (s *Service) ListByLocation(ctx context.Context, driveID, itemID string) ([]dto.FileEntry, error) {
	if driveID != s.cfg.Bucket {
		return nil, fmt.Errorf("ListByLocation: unknown drive %q", driveID)
	}
	return s.listPrefix(ctx, normalizeKey(itemID))
}

// listPrefix returns the immediate children of a prefix: subfolders from
// the common prefixes, files from the contents.
func (s *Service) listPrefix(ctx context.Context, prefix string) ([]dto.FileEntry, error) {
	result := []dto.FileEntry{}
	parentID := folderItemID(prefix)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.cfg.Bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(keyDelimiter),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listPrefix: error of paginator.NextPage: %w", err)
		}
		for _, cp := range page.CommonPrefixes {
			result = append(result, dto.FileEntry{
				ID:           *cp.Prefix,
				Name:         folderName(*cp.Prefix),
				IsFolder:     true,
				DriveID:      s.cfg.Bucket,
				ParentItemID: parentID,
			})
		}
		for _, obj := range page.Contents {
			if *obj.Key == prefix {
				continue // the folder marker itself
			}
			result = append(result, dto.FileEntry{
				ID:           *obj.Key,
				Name:         baseName(*obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				DriveID:      s.cfg.Bucket,
				ParentItemID: parentID,
			})
		}
	}
	return result, nil
}

// Search walks every key under the configured prefix and keeps the ones
// whose base name contains the term, case-insensitive.
func (s *Service) Search(ctx context.Context, driveID, term string) ([]dto.FileEntry, error) {
	if term == "" {
		return nil, nil
	}
	if driveID != s.cfg.Bucket {
		return nil, fmt.Errorf("Search: unknown drive %q", driveID)
	}

	s.log.Debug("Search", slog.String("prefix", s.cfg.Prefix), slog.String("term", term))
	needle := strings.ToLower(term)
	result := []dto.FileEntry{}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(s.cfg.Prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("Search: error of paginator.NextPage: %w", err)
		}
		for _, obj := range page.Contents {
			key := *obj.Key
			if strings.HasSuffix(key, keyDelimiter) {
				continue // folder markers are not search hits
			}
			name := baseName(key)
			if !strings.Contains(strings.ToLower(name), needle) {
				continue
			}
			result = append(result, dto.FileEntry{
				ID:           key,
				Name:         name,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				DriveID:      s.cfg.Bucket,
				ParentItemID: folderItemID(parentPrefix(key)),
			})
		}
	}
	return result, nil
}

// baseName is the last path segment of a key.
func baseName(key string) string {
	trimmed := strings.TrimSuffix(key, keyDelimiter)
	if i := strings.LastIndex(trimmed, keyDelimiter); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// folderName is the display name of a folder prefix.
func folderName(prefix string) string {
	return baseName(prefix)
}

// parentPrefix is the prefix of the folder containing the key.
func parentPrefix(key string) string {
	trimmed := strings.TrimSuffix(key, keyDelimiter)
	if i := strings.LastIndex(trimmed, keyDelimiter); i >= 0 {
		return trimmed[:i+1]
	}
	return ""
}
