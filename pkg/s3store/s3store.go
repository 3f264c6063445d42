// Package s3store implements the remote store contract on top of S3:
// the bucket is the drive, key prefixes are the folder items. Preview
// URLs are presigned GETs.
package s3store

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/drivebrowse/drivebrowse/pkg/config"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

// rootItemID is the item id standing in for the bucket root, so that a
// record linked to the whole bucket still has concrete coordinates.
const rootItemID = "/"

// Service is the S3 implementation of the remote store.
type Service struct {
	cfg       config.S3Config
	client    *s3.Client
	presigner *s3.PresignClient
	log       *slog.Logger
}

// New creates the S3 service from the s3 section of the config.
func New(ctx context.Context, cfg config.Config) (*Service, error) {
	awsCfg, err := loadAwsConfig(ctx, cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("s3store: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Service{
		cfg:       cfg.S3,
		client:    client,
		presigner: s3.NewPresignClient(client),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger.
func (s *Service) SetLogger(log *slog.Logger) {
	s.log = log
}

func loadAwsConfig(ctx context.Context, cfg config.S3Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	if cfg.SsoAwsProfile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.SsoAwsProfile))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

// HasValidToken probes the bucket. Reachable credentials count as a
// valid token; a failed probe is surfaced so the gate can fail closed.
func (s *Service) HasValidToken(ctx context.Context) (bool, error) {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.cfg.Bucket),
	})
	if err != nil {
		return false, fmt.Errorf("HasValidToken: %w", err)
	}
	return true, nil
}

// InitiateAuthFlow returns the configured SSO start URL. S3 credentials
// are not obtained through an interactive popup, so without one the flow
// is unavailable.
func (s *Service) InitiateAuthFlow(_ context.Context) (string, error) {
	if s.cfg.SsoStartURL == "" {
		return "", remote.ErrAuthFlowUnavailable
	}
	return s.cfg.SsoStartURL, nil
}

// normalizeKey maps the root sentinel back to the empty prefix.
func normalizeKey(itemID string) string {
	if itemID == rootItemID {
		return ""
	}
	return itemID
}

// folderItemID maps a key prefix to its item id, using the root sentinel
// for the bucket root.
func folderItemID(prefix string) string {
	if prefix == "" {
		return rootItemID
	}
	return prefix
}
