package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khoahotran/media-vault/adapters/event"
	"github.com/khoahotran/media-vault/internal/application/service"
	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/khoahotran/media-vault/pkg/apperror"
	"github.com/khoahotran/media-vault/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("media_usecase")

// EventPublisher is the slice of the kafka producer the use cases need.
type EventPublisher interface {
	PublishMediaEvent(ctx context.Context, payload event.MediaEventPayload) error
}

type UploadMediaUseCase struct {
	mediaRepo     media.Repository
	uploader      service.Uploader
	events        EventPublisher
	uploadTimeout time.Duration
	logger        logger.Logger
}

func NewUploadMediaUseCase(
	r media.Repository,
	u service.Uploader,
	ev EventPublisher,
	uploadTimeout time.Duration,
	log logger.Logger,
) *UploadMediaUseCase {
	return &UploadMediaUseCase{
		mediaRepo:     r,
		uploader:      u,
		events:        ev,
		uploadTimeout: uploadTimeout,
		logger:        log,
	}
}

type UploadMediaInput struct {
	OwnerID     uuid.UUID
	Kind        media.Kind
	File        io.Reader
	SizeBytes   int64
	MimeType    string
	Title       string
	Description string
}

type UploadMediaOutput struct {
	Media *media.Media
	// SecureURL comes straight from the provider response and is never
	// persisted; later reads have to re-derive a display URL.
	SecureURL string
}

// Execute runs one upload end to end. The remote upload must succeed before
// the store is touched; a store failure afterwards leaves the remote asset
// orphaned and is reported as an internal error with no rollback attempted.
func (uc *UploadMediaUseCase) Execute(ctx context.Context, input UploadMediaInput) (*UploadMediaOutput, error) {
	ctx, span := tracer.Start(ctx, "UploadMedia")
	defer span.End()

	if input.OwnerID == uuid.Nil {
		return nil, apperror.NewUnauthorized("caller identity is missing", nil)
	}

	// The check order below is part of the contract: a request that is
	// invalid in several ways reports the first failing check.
	if input.File == nil {
		return nil, apperror.NewInvalidInput("missing file", nil)
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewInvalidInput("missing title", nil)
	}
	if !input.Kind.AllowsMimeType(input.MimeType) {
		return nil, apperror.NewInvalidInput("invalid format", nil)
	}
	if input.SizeBytes > input.Kind.MaxSizeBytes() {
		return nil, apperror.NewInvalidInput("too large", nil)
	}

	assetRef := newAssetRef(input.Kind, input.OwnerID)
	span.SetAttributes(attribute.String("asset_ref", assetRef))

	uploadCtx := ctx
	if uc.uploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, uc.uploadTimeout)
		defer cancel()
	}

	result, err := uc.uploader.Upload(uploadCtx, input.File, assetRef, input.Kind)
	if err != nil {
		span.RecordError(err)
		var remoteErr *service.RemoteError
		if errors.As(err, &remoteErr) {
			return nil, apperror.NewUpstream(remoteErr.StatusCode, remoteErr.Message, remoteErr)
		}
		return nil, apperror.NewUpstream(0, "media upload failed", err)
	}

	newMedia := &media.Media{
		Kind:              input.Kind,
		OwnerID:           input.OwnerID,
		Title:             title,
		Description:       trimToNil(input.Description),
		AssetRef:          result.StoredRef,
		OriginalSizeBytes: input.SizeBytes,
	}
	if input.Kind == media.KindVideo {
		newMedia.CompressedSizeBytes = result.SizeBytes
		if newMedia.CompressedSizeBytes == 0 {
			newMedia.CompressedSizeBytes = input.SizeBytes
		}
		newMedia.DurationSeconds = result.DurationSeconds
	}

	if err := uc.mediaRepo.Create(ctx, newMedia); err != nil {
		// the remote asset now exists with no metadata row; logged so
		// operators can reconcile out-of-band
		uc.logger.Error("media record insert failed after remote upload", err,
			zap.String("asset_ref", result.StoredRef),
			zap.String("owner_id", input.OwnerID.String()))
		span.RecordError(err)
		return nil, err
	}

	if uc.events != nil {
		payload := event.MediaEventPayload{
			EventType: event.MediaEventTypeUploaded,
			MediaID:   newMedia.ID,
			OwnerID:   newMedia.OwnerID,
			Kind:      newMedia.Kind,
			AssetRef:  newMedia.AssetRef,
		}
		go func() {
			if err := uc.events.PublishMediaEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'media.uploaded' event", err,
					zap.String("media_id", payload.MediaID.String()))
			}
		}()
	}

	return &UploadMediaOutput{Media: newMedia, SecureURL: result.SecureURL}, nil
}

// newAssetRef namespaces assets per owner: {kind-plural}/{owner}/{millis}-{random}.
// The random suffix keeps same-millisecond uploads apart; the unique
// constraint on asset_ref is the backstop.
func newAssetRef(kind media.Kind, ownerID uuid.UUID) string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%s/%s/%d-%s",
		kind.Plural(), ownerID.String(), time.Now().UnixMilli(), hex.EncodeToString(suffix))
}

func trimToNil(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
