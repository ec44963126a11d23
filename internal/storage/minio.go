package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"framewatch/internal/config"
)

// ObjectStore is the frame-image storage surface. Keys are write-once; a
// stored frame is never overwritten or mutated.
type ObjectStore interface {
	Bucket() string
	PutFrame(ctx context.Context, key string, data []byte) error
	PresignFrame(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

type MinioStore struct {
	cli    *minio.Client
	bucket string
}

func NewMinioStore(conf *config.S3Config) (*MinioStore, error) {
	region := conf.Region
	if region == "" {
		region = "us-east-1"
	}
	cli, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKeyID, conf.SecretAccessKey, ""),
		Secure: conf.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}
	return &MinioStore{cli: cli, bucket: conf.Bucket}, nil
}

func (s *MinioStore) Bucket() string {
	return s.bucket
}

func (s *MinioStore) PutFrame(ctx context.Context, key string, data []byte) error {
	_, err := s.cli.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: "image/jpeg",
		},
	)
	if err != nil {
		return fmt.Errorf("put object to minio failed: %w", err)
	}
	return nil
}

// PresignFrame issues a time-limited GET link for a stored frame. The link
// is never persisted; it is recomputed on every retrieval. Records keep the
// bucket they were written under, so links stay valid for frames stored
// before a bucket rename.
func (s *MinioStore) PresignFrame(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if bucket == "" {
		bucket = s.bucket
	}
	u, err := s.cli.PresignedGetObject(ctx, bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign object failed: %w", err)
	}
	return u.String(), nil
}
