package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edumatch/edumatch-backend/internal/http/middleware"
	"github.com/edumatch/edumatch-backend/internal/interface/http/dto"
	"github.com/edumatch/edumatch-backend/internal/interface/http/response"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
	"github.com/edumatch/edumatch-backend/internal/storage"
)

// MediaHandler загружает изображения для обложек и блоков документа.
type MediaHandler struct {
	storage *storage.ImageStorage
}

func NewMediaHandler(images *storage.ImageStorage) *MediaHandler {
	return &MediaHandler{storage: images}
}

type deleteImageRequest struct {
	URL string `json:"url" binding:"required"`
}

// UploadImage обрабатывает POST /api/media/images (multipart, поле file).
func (h *MediaHandler) UploadImage(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "поле file обязательно")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}
	defer src.Close()

	stored, err := h.storage.Save(c.Request.Context(), identity.ID, src)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrEmptyFile), errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrUnsupportedImage):
		response.ValidationError(c, err.Error())
		return
	default:
		logger.WithOp("media.Upload").WithError(err).Error("image save failed")
		response.Error(c, apperror.ErrInternal)
		return
	}

	response.Created(c, dto.MediaUploadResponse{
		URL:         stored.URL,
		ContentType: stored.ContentType,
		Size:        stored.Size,
	})
}

// DeleteImage обрабатывает DELETE /api/media/images. Удалить можно только свой файл.
func (h *MediaHandler) DeleteImage(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	var req deleteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	if !strings.HasPrefix(req.URL, storage.PublicPrefix+identity.ID.String()+"/") {
		response.Forbidden(c, "удалить можно только свой файл")
		return
	}

	if err := h.storage.Delete(c.Request.Context(), req.URL); err != nil {
		logger.WithOp("media.Delete").WithError(err).Warn("image delete failed")
		response.BadRequest(c, "не удалось удалить файл")
		return
	}

	response.Success(c, gin.H{"url": req.URL})
}
