package media

import (
	"context"

	"github.com/google/uuid"
	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/khoahotran/media-vault/pkg/apperror"
)

type GetMediaUseCase struct {
	mediaRepo media.Repository
}

func NewGetMediaUseCase(r media.Repository) *GetMediaUseCase {
	return &GetMediaUseCase{mediaRepo: r}
}

type GetMediaInput struct {
	OwnerID uuid.UUID
	Kind    media.Kind
	MediaID uuid.UUID
}

func (uc *GetMediaUseCase) Execute(ctx context.Context, input GetMediaInput) (*media.Media, error) {
	if input.OwnerID == uuid.Nil {
		return nil, apperror.NewUnauthorized("caller identity is missing", nil)
	}
	m, err := uc.mediaRepo.FindByID(ctx, input.Kind, input.MediaID)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != input.OwnerID {
		return nil, apperror.NewPermissionDenied("media belongs to another owner")
	}
	return m, nil
}
