package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// BucketService stores course media (thumbnails, chapter videos) in a single bucket.
type BucketService interface {
	UploadFile(ctx context.Context, key, contentType string, file io.Reader) error
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
	Close() error
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	cfg           StorageConfig
}

func NewBucketService(ctx context.Context, log *logger.Logger) (BucketService, error) {
	cfg, err := StorageConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve object storage config: %w", err)
	}
	return NewBucketServiceWithConfig(ctx, log, cfg)
}

func NewBucketServiceWithConfig(ctx context.Context, log *logger.Logger, cfg StorageConfig) (BucketService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	serviceLog := log.With("service", "BucketService")

	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	serviceLog.Info("Object storage initialized",
		"mode", cfg.Mode,
		"bucket", cfg.Bucket,
		"emulator_host", cfg.EmulatorHost,
		"cdn_domain", cfg.CDNDomain,
	)
	return &bucketService{log: serviceLog, storageClient: client, cfg: cfg}, nil
}

func newStorageClient(ctx context.Context, cfg StorageConfig) (*storage.Client, error) {
	if cfg.IsEmulator() {
		// The client library reads the emulator endpoint from the environment.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(clientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (bs *bucketService) UploadFile(ctx context.Context, key, contentType string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.cfg.Bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	bs.log.Debug("Uploaded object", "bucket", bs.cfg.Bucket, "key", key, "content_type", contentType)
	return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := bs.storageClient.Bucket(bs.cfg.Bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.cfg.Bucket, err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	return publicURL(bs.cfg, key)
}

func (bs *bucketService) Close() error {
	return bs.storageClient.Close()
}

func publicURL(cfg StorageConfig, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case cfg.CDNDomain != "":
		return fmt.Sprintf("https://%s/%s", cfg.CDNDomain, key)
	case cfg.IsEmulator():
		base := cfg.PublicBaseURL
		if base == "" {
			base = cfg.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(cfg.Bucket), url.PathEscape(key))
	case cfg.PublicBaseURL != "":
		return fmt.Sprintf("%s/%s/%s", cfg.PublicBaseURL, cfg.Bucket, key)
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.Bucket, key)
	}
}

// ErrStorageDisabled is returned by the bucket used when no media bucket is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

type disabledBucket struct{}

// Disabled returns a BucketService that rejects every upload. Local setups
// without GCS still serve everything except media uploads.
func Disabled() BucketService { return disabledBucket{} }

func (disabledBucket) UploadFile(context.Context, string, string, io.Reader) error {
	return ErrStorageDisabled
}
func (disabledBucket) DeleteFile(context.Context, string) error { return nil }
func (disabledBucket) GetPublicURL(string) string               { return "" }
func (disabledBucket) Close() error                             { return nil }
