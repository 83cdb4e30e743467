package media_storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/khoahotran/media-vault/internal/application/service"
	"github.com/khoahotran/media-vault/internal/config"
	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/khoahotran/media-vault/pkg/logger"
)

type cloudinaryAdapter struct {
	cld    *cloudinary.Cloudinary
	logger logger.Logger
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.Uploader, error) {

	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld, logger: log}, nil
}

func resourceType(kind media.Kind) string {
	if kind == media.KindVideo {
		return "video"
	}
	return "image"
}

func (a *cloudinaryAdapter) Upload(ctx context.Context, file io.Reader, assetRef string, kind media.Kind) (*service.UploadResult, error) {
	uploadParams := uploader.UploadParams{
		PublicID:       assetRef,
		ResourceType:   resourceType(kind),
		Transformation: "q_auto",
	}
	if kind == media.KindVideo {
		// eager optimized derivative, computed during the upload round trip
		uploadParams.Eager = "q_auto"
	}

	result, err := a.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return nil, &service.RemoteError{Message: "upload request failed", Err: err}
	}
	// the SDK reports provider-side rejections on the result, not as err
	if result.Error.Message != "" {
		return nil, &service.RemoteError{Message: result.Error.Message}
	}

	out := &service.UploadResult{
		StoredRef: result.PublicID,
		SecureURL: result.SecureURL,
		SizeBytes: int64(result.Bytes),
	}
	if kind == media.KindVideo {
		if len(result.Eager) > 0 && result.Eager[0].Bytes > 0 {
			out.SizeBytes = int64(result.Eager[0].Bytes)
		}
		out.DurationSeconds = videoDuration(result.Response)
	}
	return out, nil
}

// videoDuration reads the duration from the raw provider response, which the
// SDK hands back as already-unmarshalled JSON; the typed upload result has no
// duration field.
func videoDuration(raw interface{}) float64 {
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return 0
	}
	duration, ok := fields["duration"].(float64)
	if !ok {
		return 0
	}
	return duration
}

func (a *cloudinaryAdapter) Destroy(ctx context.Context, assetRef string, kind media.Kind) error {
	result, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     assetRef,
		ResourceType: resourceType(kind),
	})
	if err != nil {
		return &service.RemoteError{Message: "destroy request failed", Err: err}
	}
	// "not found" means the asset is already gone, which is what we wanted
	if result.Result != "ok" && result.Result != "not found" {
		return &service.RemoteError{Message: fmt.Sprintf("destroy returned %q", result.Result)}
	}
	return nil
}
