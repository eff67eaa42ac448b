package remote

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ilies38/Cityreport2/internal/config"
	"github.com/ilies38/Cityreport2/internal/loggy"
)

// BlobStore uploads report photos to an S3-compatible object store and
// hands back durable public URLs
type BlobStore struct {
	client         *minio.Client
	bucket         string
	publicEndpoint string
	useSSL         bool
	logger         *loggy.Logger
}

// NewBlobStore creates a blob store client and makes sure the photo bucket
// exists with a public-read policy
func NewBlobStore(cfg config.StorageConfig, logger *loggy.Logger) (*BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	publicEndpoint := strings.TrimSuffix(strings.TrimSpace(cfg.PublicEndpoint), "/")
	if publicEndpoint == "" {
		publicEndpoint = cfg.Endpoint
	}

	store := &BlobStore{
		client:         client,
		bucket:         cfg.Bucket,
		publicEndpoint: publicEndpoint,
		useSSL:         cfg.UseSSL,
		logger:         logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.ensureBucket(ctx); err != nil {
		// The endpoint may be unreachable at startup; uploads will surface
		// the real error when attempted
		logger.Warn("Could not verify photo bucket", "bucket", cfg.Bucket, "error", err)
	}

	return store, nil
}

// ensureBucket creates the photo bucket with public-read access if missing
func (s *BlobStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket: %w", err)
	}

	policy := fmt.Sprintf(`{"Version": "2012-10-17","Statement": [{"Action": ["s3:GetObject"],"Effect": "Allow","Principal": {"AWS": ["*"]},"Resource": ["arn:aws:s3:::%s/*"],"Sid": ""}]}`, s.bucket)
	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("setting bucket policy: %w", err)
	}

	s.logger.Info("Photo bucket created", "bucket", s.bucket)
	return nil
}

// UploadBlob uploads the photo at localRef under a key derived from the
// report id. Re-uploading for the same report overwrites the previous
// object, so the public URL stays stable across edits.
func (s *BlobStore) UploadBlob(ctx context.Context, localRef, reportID string) (string, error) {
	file, err := os.Open(localRef)
	if err != nil {
		return "", fmt.Errorf("opening photo file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("reading photo file info: %w", err)
	}

	objectKey := ObjectKey(reportID)

	contentType := mime.TypeByExtension(filepath.Ext(localRef))
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectKey, file, info.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}

	url := s.publicURL(objectKey)

	s.logger.Info("Photo uploaded",
		"report_id", reportID,
		"key", objectKey,
		"url", url,
	)

	return url, nil
}

// RemoveBlob deletes a report's photo from the object store
func (s *BlobStore) RemoveBlob(ctx context.Context, reportID string) error {
	err := s.client.RemoveObject(ctx, s.bucket, ObjectKey(reportID), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("removing photo: %w", err)
	}
	return nil
}

// HealthCheck verifies the object store connection
func (s *BlobStore) HealthCheck(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("object store health check: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	return nil
}

// ObjectKey returns the deterministic storage key for a report's photo
func ObjectKey(reportID string) string {
	return fmt.Sprintf("reports/%s.jpg", reportID)
}

// publicURL builds the public URL for an object key
func (s *BlobStore) publicURL(objectKey string) string {
	if strings.Contains(s.publicEndpoint, "://") {
		return fmt.Sprintf("%s/%s/%s", s.publicEndpoint, s.bucket, objectKey)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.publicEndpoint, s.bucket, objectKey)
}
