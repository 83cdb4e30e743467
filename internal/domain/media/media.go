package media

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the two media variants. It is set at creation and
// carried on every record, never inferred from the record's shape.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

const (
	MaxImageSizeBytes int64 = 10 << 20
	MaxVideoSizeBytes int64 = 20 << 20
)

var allowedMimeTypes = map[Kind]map[string]struct{}{
	KindImage: {
		"image/jpeg": {},
		"image/png":  {},
		"image/webp": {},
	},
	KindVideo: {
		"video/mp4":        {},
		"video/mpeg":       {},
		"video/quicktime":  {},
		"video/x-msvideo":  {},
		"video/webm":       {},
		"video/x-matroska": {},
	},
}

// Plural is the table name and the asset namespace prefix for the kind.
func (k Kind) Plural() string {
	if k == KindVideo {
		return "videos"
	}
	return "images"
}

func (k Kind) AllowsMimeType(mimeType string) bool {
	_, ok := allowedMimeTypes[k][mimeType]
	return ok
}

func (k Kind) MaxSizeBytes() int64 {
	if k == KindVideo {
		return MaxVideoSizeBytes
	}
	return MaxImageSizeBytes
}

// Media is the metadata record for one asset held by the remote provider.
// CompressedSizeBytes and DurationSeconds are meaningful for videos only.
type Media struct {
	ID                  uuid.UUID  `json:"id"`
	Kind                Kind       `json:"kind"`
	OwnerID             uuid.UUID  `json:"owner_id"`
	Title               string     `json:"title"`
	Description         *string    `json:"description"`
	AssetRef            string     `json:"asset_ref"`
	OriginalSizeBytes   int64      `json:"original_size_bytes"`
	CompressedSizeBytes int64      `json:"compressed_size_bytes,omitempty"`
	DurationSeconds     float64    `json:"duration_seconds,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Repository is the ownership-scoped store. Delete and FindByID are not
// owner-filtered: ownership is checked by the use cases so that a
// cross-owner delete can be told apart from a missing record.
type Repository interface {
	Create(ctx context.Context, m *Media) error
	FindByID(ctx context.Context, kind Kind, id uuid.UUID) (*Media, error)
	ListByOwner(ctx context.Context, kind Kind, ownerID uuid.UUID) ([]*Media, error)
	DeleteByID(ctx context.Context, kind Kind, id uuid.UUID) error
}
