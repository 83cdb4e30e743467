package media

import (
	"context"

	"github.com/google/uuid"
	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/khoahotran/media-vault/pkg/apperror"
)

type ListMediaUseCase struct {
	mediaRepo media.Repository
}

func NewListMediaUseCase(r media.Repository) *ListMediaUseCase {
	return &ListMediaUseCase{mediaRepo: r}
}

type ListMediaInput struct {
	OwnerID uuid.UUID
	Kind    media.Kind
}

type ListMediaOutput struct {
	Medias []*media.Media
}

func (uc *ListMediaUseCase) Execute(ctx context.Context, input ListMediaInput) (*ListMediaOutput, error) {
	if input.OwnerID == uuid.Nil {
		return nil, apperror.NewUnauthorized("caller identity is missing", nil)
	}
	medias, err := uc.mediaRepo.ListByOwner(ctx, input.Kind, input.OwnerID)
	if err != nil {
		return nil, err
	}
	return &ListMediaOutput{Medias: medias}, nil
}
