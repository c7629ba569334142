//go:generate mockery --name Storage --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
)

// Storage accepts a binary upload and returns its public URL.
type Storage interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// GCSStorage writes objects to a Google Cloud Storage bucket.
type GCSStorage struct {
	client        *storage.Client
	bucket        string
	publicBaseURL string
}

// NewStorage returns a GCS-backed Storage, or a disabled one when no bucket is configured.
func NewStorage(ctx context.Context, cfg *config.StorageConfig) (Storage, error) {
	if cfg.AvatarBucket == "" {
		return disabledStorage{}, nil
	}

	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	switch {
	case cfg.EmulatorHost != "":
		opts = append(opts,
			option.WithEndpoint(strings.TrimRight(cfg.EmulatorHost, "/")+"/storage/v1/"),
			option.WithoutAuthentication(),
		)
	case strings.HasPrefix(strings.TrimSpace(cfg.CredentialsFile), "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsFile)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStorage{
		client:        client,
		bucket:        cfg.AvatarBucket,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

func (s *GCSStorage) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	logger := middleware.GetLogger(ctx)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=3600"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		logger.Error("Failed to write object to GCS", "error", err, "bucket", s.bucket, "key", key)
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		logger.Error("Failed to close GCS writer", "error", err, "bucket", s.bucket, "key", key)
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	publicURL := PublicObjectURL(s.publicBaseURL, s.bucket, key)
	logger.Info("Object uploaded to GCS", "bucket", s.bucket, "key", key)
	return publicURL, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

// PublicObjectURL joins base/bucket/key, escaping each key segment.
func PublicObjectURL(base, bucket, key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + strings.Join(segments, "/")
}

// AvatarObjectKey is avatars/<user id>/<unix nanos><ext>; the extension is taken from filename.
func AvatarObjectKey(userID fmt.Stringer, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("avatars/%s/%d%s", userID.String(), now.UnixNano(), ext)
}

type disabledStorage struct{}

func (disabledStorage) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	middleware.GetLogger(ctx).Warn("Upload attempted but storage.avatar_bucket is not configured", "key", key)
	return "", model.NewAppError("STORAGE_DISABLED", "File uploads are not configured.", "", model.ErrInvalidInput)
}
