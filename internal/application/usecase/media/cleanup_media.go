package media

import (
	"context"

	"github.com/khoahotran/media-vault/adapters/event"
	"github.com/khoahotran/media-vault/internal/application/service"
	"github.com/khoahotran/media-vault/pkg/logger"
	"go.uber.org/zap"
)

// CleanupMediaUseCase runs in the worker. It retries provider-side destroys
// that the delete path swallowed, so orphaned remote assets get reaped
// out-of-band instead of silently accumulating.
type CleanupMediaUseCase struct {
	uploader service.Uploader
	logger   logger.Logger
}

func NewCleanupMediaUseCase(u service.Uploader, log logger.Logger) *CleanupMediaUseCase {
	return &CleanupMediaUseCase{uploader: u, logger: log}
}

func (uc *CleanupMediaUseCase) Execute(ctx context.Context, payload event.MediaEventPayload) error {
	l := uc.logger.With(
		zap.String("media_id", payload.MediaID.String()),
		zap.String("asset_ref", payload.AssetRef),
	)

	if payload.EventType != event.MediaEventTypeDeleted || !payload.RemoteCleanupPending {
		return nil
	}

	if err := uc.uploader.Destroy(ctx, payload.AssetRef, payload.Kind); err != nil {
		l.Error("Retry of remote asset destroy failed", err)
		return err
	}

	l.Info("Orphaned remote asset destroyed")
	return nil
}
