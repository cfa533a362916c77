package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/gcp"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/uploads"
)

const fileUploadErrorMessage = "File upload error"

// UploadInput is an incoming file, independent of how the transport received it.
type UploadInput struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type StoredMedia struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

type MediaService interface {
	// Store validates the upload against the policy for kind and writes it to the bucket.
	// failMessage is the client-facing message for storage failures.
	Store(ctx context.Context, kind uploads.Kind, in *UploadInput, failMessage string) (*StoredMedia, error)
	// Discard removes an object stored earlier in the same request.
	Discard(ctx context.Context, media *StoredMedia)
}

type mediaService struct {
	log    *logger.Logger
	bucket gcp.BucketService
	policy *uploads.Policy
}

func NewMediaService(log *logger.Logger, bucket gcp.BucketService, policy *uploads.Policy) MediaService {
	return &mediaService{
		log:    log.With("service", "MediaService"),
		bucket: bucket,
		policy: policy,
	}
}

func (ms *mediaService) Store(ctx context.Context, kind uploads.Kind, in *UploadInput, failMessage string) (*StoredMedia, error) {
	if in == nil || in.Body == nil {
		return nil, apierr.BadRequest(fileUploadErrorMessage)
	}
	inspected, err := ms.policy.Inspect(kind, in.Filename, in.Size, in.Body)
	if err != nil {
		var invalid *uploads.InvalidTypeError
		switch {
		case errors.As(err, &invalid):
			return nil, apierr.BadRequest(invalid.Error()).Wrap(err)
		case errors.Is(err, uploads.ErrTooLarge), errors.Is(err, uploads.ErrEmpty):
			return nil, apierr.BadRequest(fileUploadErrorMessage).Wrap(err)
		default:
			return nil, apierr.Upstream(failMessage, err)
		}
	}
	if ms.bucket == nil {
		return nil, apierr.Upstream(failMessage, errors.New("media bucket not configured"))
	}

	key := ms.policy.Key(kind, uuid.NewString(), strings.ToLower(inspected.Extension))
	if err := ms.bucket.UploadFile(ctx, key, inspected.ContentType, inspected.Body); err != nil {
		ms.log.Error("media upload failed", "kind", string(kind), "key", key, "error", err)
		return nil, apierr.Upstream(failMessage, fmt.Errorf("upload %s: %w", key, err))
	}
	ms.log.Debug("media stored", "kind", string(kind), "key", key, "content_type", inspected.ContentType, "size", inspected.Size)
	return &StoredMedia{
		Key:         key,
		URL:         ms.bucket.GetPublicURL(key),
		ContentType: inspected.ContentType,
		Size:        inspected.Size,
	}, nil
}

func (ms *mediaService) Discard(ctx context.Context, media *StoredMedia) {
	if media == nil || media.Key == "" || ms.bucket == nil {
		return
	}
	if err := ms.bucket.DeleteFile(context.WithoutCancel(ctx), media.Key); err != nil {
		ms.log.Warn("discard media failed", "key", media.Key, "error", err)
	}
}
