package media

import (
	"context"

	"github.com/google/uuid"
	"github.com/khoahotran/media-vault/adapters/event"
	"github.com/khoahotran/media-vault/internal/application/service"
	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/khoahotran/media-vault/pkg/apperror"
	"github.com/khoahotran/media-vault/pkg/logger"
	"go.uber.org/zap"
)

type DeleteMediaUseCase struct {
	mediaRepo media.Repository
	uploader  service.Uploader
	events    EventPublisher
	logger    logger.Logger
}

func NewDeleteMediaUseCase(
	r media.Repository,
	u service.Uploader,
	ev EventPublisher,
	log logger.Logger,
) *DeleteMediaUseCase {
	return &DeleteMediaUseCase{mediaRepo: r, uploader: u, events: ev, logger: log}
}

type DeleteMediaInput struct {
	OwnerID uuid.UUID
	Kind    media.Kind
	MediaID uuid.UUID
}

// Execute removes one record and its backing asset. The provider-side
// destroy is best-effort: its failure is logged and published for the
// cleanup worker, and the metadata delete proceeds regardless.
func (uc *DeleteMediaUseCase) Execute(ctx context.Context, input DeleteMediaInput) error {
	ctx, span := tracer.Start(ctx, "DeleteMedia")
	defer span.End()

	if input.OwnerID == uuid.Nil {
		return apperror.NewUnauthorized("caller identity is missing", nil)
	}

	m, err := uc.mediaRepo.FindByID(ctx, input.Kind, input.MediaID)
	if err != nil {
		return err
	}
	if m.OwnerID != input.OwnerID {
		return apperror.NewPermissionDenied("media belongs to another owner")
	}

	cleanupPending := false
	if err := uc.uploader.Destroy(ctx, m.AssetRef, m.Kind); err != nil {
		cleanupPending = true
		uc.logger.Warn("best-effort remote destroy failed, metadata delete proceeds",
			zap.String("media_id", m.ID.String()),
			zap.String("asset_ref", m.AssetRef),
			zap.Error(err))
	}

	if err := uc.mediaRepo.DeleteByID(ctx, input.Kind, input.MediaID); err != nil {
		span.RecordError(err)
		return err
	}

	if uc.events != nil {
		payload := event.MediaEventPayload{
			EventType:            event.MediaEventTypeDeleted,
			MediaID:              m.ID,
			OwnerID:              m.OwnerID,
			Kind:                 m.Kind,
			AssetRef:             m.AssetRef,
			RemoteCleanupPending: cleanupPending,
		}
		go func() {
			if err := uc.events.PublishMediaEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'media.deleted' event", err,
					zap.String("media_id", payload.MediaID.String()))
			}
		}()
	}

	return nil
}
