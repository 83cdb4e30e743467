package service

import (
	"context"
	"fmt"
	"io"

	"github.com/khoahotran/media-vault/internal/domain/media"
)

// UploadResult is the typed view of what the provider reported back.
// SizeBytes is the size after the provider's optimization pass; it and
// DurationSeconds are 0 when the provider omitted them.
type UploadResult struct {
	StoredRef       string
	SecureURL       string
	SizeBytes       int64
	DurationSeconds float64
}

// RemoteError is a transport or provider-side rejection. StatusCode is the
// provider HTTP status when known, 0 otherwise.
type RemoteError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("remote media provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote media provider error: %s", e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Uploader is the boundary around the remote media provider. Upload blocks
// until the provider round trip completes; cancellation comes in through ctx.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, assetRef string, kind media.Kind) (*UploadResult, error)
	Destroy(ctx context.Context, assetRef string, kind media.Kind) error
}
