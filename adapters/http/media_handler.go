package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	mediaUC "github.com/khoahotran/media-vault/internal/application/usecase/media"
	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/khoahotran/media-vault/pkg/apperror"
	"github.com/khoahotran/media-vault/pkg/logger"
)

type MediaHandler struct {
	uploadMediaUC *mediaUC.UploadMediaUseCase
	listMediaUC   *mediaUC.ListMediaUseCase
	getMediaUC    *mediaUC.GetMediaUseCase
	deleteMediaUC *mediaUC.DeleteMediaUseCase
	logger        logger.Logger
}

func NewMediaHandler(
	uploadUC *mediaUC.UploadMediaUseCase,
	listUC *mediaUC.ListMediaUseCase,
	getUC *mediaUC.GetMediaUseCase,
	deleteUC *mediaUC.DeleteMediaUseCase,
	log logger.Logger,
) *MediaHandler {
	return &MediaHandler{
		uploadMediaUC: uploadUC,
		listMediaUC:   listUC,
		getMediaUC:    getUC,
		deleteMediaUC: deleteUC,
		logger:        log,
	}
}

// UploadMedia handles the multipart upload form: file + title + description.
// A missing file is passed down as a nil reader so the use case owns the
// validation order.
func (h *MediaHandler) UploadMedia(kind media.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, _ := GetOwnerIDFromGinContext(c)

		var (
			file     io.Reader
			size     int64
			mimeType string
		)
		fileHeader, err := c.FormFile("file")
		if err == nil {
			opened, err := fileHeader.Open()
			if err != nil {
				c.Error(apperror.NewInternal("failed to open uploaded file", err))
				return
			}
			defer opened.Close()
			file = opened
			size = fileHeader.Size
			mimeType = fileHeader.Header.Get("Content-Type")
		}

		input := mediaUC.UploadMediaInput{
			OwnerID:     ownerID,
			Kind:        kind,
			File:        file,
			SizeBytes:   size,
			MimeType:    mimeType,
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
		}

		output, err := h.uploadMediaUC.Execute(c.Request.Context(), input)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, UploadMediaResponse{
			MediaDTO: ToMediaDTO(output.Media),
			URL:      output.SecureURL,
		})
	}
}

func (h *MediaHandler) ListMedia(kind media.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, _ := GetOwnerIDFromGinContext(c)

		output, err := h.listMediaUC.Execute(c.Request.Context(), mediaUC.ListMediaInput{
			OwnerID: ownerID,
			Kind:    kind,
		})
		if err != nil {
			c.Error(err)
			return
		}

		dtos := make([]MediaDTO, len(output.Medias))
		for i, m := range output.Medias {
			dtos[i] = ToMediaDTO(m)
		}
		c.JSON(http.StatusOK, dtos)
	}
}

func (h *MediaHandler) GetMedia(kind media.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, _ := GetOwnerIDFromGinContext(c)

		mediaID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.Error(apperror.NewInvalidInput("invalid media ID", err))
			return
		}

		m, err := h.getMediaUC.Execute(c.Request.Context(), mediaUC.GetMediaInput{
			OwnerID: ownerID,
			Kind:    kind,
			MediaID: mediaID,
		})
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, ToMediaDTO(m))
	}
}

func (h *MediaHandler) DeleteMedia(kind media.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, _ := GetOwnerIDFromGinContext(c)

		mediaID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.Error(apperror.NewInvalidInput("invalid media ID", err))
			return
		}

		input := mediaUC.DeleteMediaInput{OwnerID: ownerID, Kind: kind, MediaID: mediaID}
		if err := h.deleteMediaUC.Execute(c.Request.Context(), input); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
