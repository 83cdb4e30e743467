package http

import (
	"time"

	"github.com/khoahotran/media-vault/internal/domain/media"
)

type MediaDTO struct {
	ID                  string    `json:"id"`
	Kind                string    `json:"kind"`
	Title               string    `json:"title"`
	Description         *string   `json:"description"`
	AssetRef            string    `json:"asset_ref"`
	OriginalSizeBytes   int64     `json:"original_size_bytes"`
	CompressedSizeBytes *int64    `json:"compressed_size_bytes,omitempty"`
	DurationSeconds     *float64  `json:"duration_seconds,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UploadMediaResponse adds the provider display URL, which exists only on
// the upload response and is never stored.
type UploadMediaResponse struct {
	MediaDTO
	URL string `json:"url"`
}

func ToMediaDTO(m *media.Media) MediaDTO {
	dto := MediaDTO{
		ID:                m.ID.String(),
		Kind:              string(m.Kind),
		Title:             m.Title,
		Description:       m.Description,
		AssetRef:          m.AssetRef,
		OriginalSizeBytes: m.OriginalSizeBytes,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.Kind == media.KindVideo {
		compressed := m.CompressedSizeBytes
		duration := m.DurationSeconds
		dto.CompressedSizeBytes = &compressed
		dto.DurationSeconds = &duration
	}
	return dto
}
