package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/adscope/tiktok-bridge/internal/config"
)

// Storage archives uploaded campaign media to object storage so assets can
// be reused across campaigns after they have been pushed to the platform
type Storage struct {
	client     *minio.Client
	bucketName string
}

// New creates a new storage client
func New(cfg config.StorageConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	// Ensure bucket exists
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:     client,
		bucketName: cfg.BucketName,
	}, nil
}

// ArchiveVideo stores an uploaded video binary keyed by the platform video ID
func (s *Storage) ArchiveVideo(ctx context.Context, videoID string, data []byte, contentType string) error {
	objectName := fmt.Sprintf("videos/%s", videoID)

	_, err := s.client.PutObject(ctx, s.bucketName, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to archive video: %w", err)
	}

	return nil
}

// GetVideo retrieves an archived video binary
func (s *Storage) GetVideo(ctx context.Context, videoID string) (io.ReadCloser, error) {
	objectName := fmt.Sprintf("videos/%s", videoID)

	object, err := s.client.GetObject(ctx, s.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get archived video: %w", err)
	}

	return object, nil
}

// DeleteVideo removes an archived video binary
func (s *Storage) DeleteVideo(ctx context.Context, videoID string) error {
	objectName := fmt.Sprintf("videos/%s", videoID)

	if err := s.client.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete archived video: %w", err)
	}

	return nil
}
