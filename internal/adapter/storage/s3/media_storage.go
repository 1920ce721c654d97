package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

// MediaStorage keeps listing images and videos in a MinIO/S3 bucket.
type MediaStorage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewMediaStorage connects to endpoint and makes sure bucket exists.
func NewMediaStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, log *logger.Logger) (*MediaStorage, error) {
	log.Info("Initializing S3 MinIO Storage", zap.String("endpoint", endpoint), zap.String("bucket", bucket), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to make bucket %s: %w", bucket, err)
		}
		log.Info("S3Storage: bucket created", zap.String("bucket", bucket))
	}

	return &MediaStorage{
		client: client,
		bucket: bucket,
		logger: log.Named("MediaStorage"),
	}, nil
}

// Upload stores data under objectName and returns its public URL.
func (s *MediaStorage) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", objectName), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectName, s.bucket, err)
	}

	s.logger.Info("Media uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return s.objectURL(objectName), nil
}

// Delete removes the object behind a URL returned by Upload. The object
// must live under ownerID's images or videos prefix.
func (s *MediaStorage) Delete(ctx context.Context, ownerID, objectURL string) error {
	key, err := s.keyFromURL(objectURL)
	if err != nil {
		return err
	}
	if !ownedKey(ownerID, key) {
		s.logger.Warn("Refusing to remove object outside owner prefix", zap.String("owner_id", ownerID), zap.String("key", key))
		return fmt.Errorf("object %s does not belong to %s", key, ownerID)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("RemoveObject failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

func (s *MediaStorage) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
}

func (s *MediaStorage) keyFromURL(objectURL string) (string, error) {
	u, err := url.Parse(objectURL)
	if err != nil {
		return "", fmt.Errorf("invalid object URL %q: %w", objectURL, err)
	}
	endpoint := s.client.EndpointURL()
	if u.Scheme != endpoint.Scheme || u.Host != endpoint.Host {
		return "", fmt.Errorf("object URL %q is not served by %s", objectURL, endpoint.Host)
	}
	prefix := "/" + s.bucket + "/"
	clean := path.Clean(u.Path)
	if !strings.HasPrefix(clean, prefix) {
		return "", fmt.Errorf("object URL %q is not in bucket %s", objectURL, s.bucket)
	}
	return strings.TrimPrefix(clean, prefix), nil
}

func ownedKey(ownerID, key string) bool {
	if ownerID == "" {
		return false
	}
	for _, kind := range []string{"images", "videos"} {
		rest, ok := strings.CutPrefix(key, kind+"/"+ownerID+"/")
		if ok && rest != "" && !strings.Contains(rest, "/") {
			return true
		}
	}
	return false
}
