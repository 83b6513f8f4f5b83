package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edumatch/edumatch-backend/internal/interface/http/response"
)

// Счётчики ведутся по принципу fire-and-forget: ошибки сценарий пишет в лог,
// клиент всегда получает 200.

// AddFavorite обрабатывает POST /api/{kind}/:id/favorite.
func (h *ListingHandler) AddFavorite(c *gin.Context) {
	h.adjust(c, h.uc.Engagement.AddFavorite)
}

// RemoveFavorite обрабатывает DELETE /api/{kind}/:id/favorite.
func (h *ListingHandler) RemoveFavorite(c *gin.Context) {
	h.adjust(c, h.uc.Engagement.RemoveFavorite)
}

// AddRequest обрабатывает POST /api/services/:id/request.
func (h *ListingHandler) AddRequest(c *gin.Context) {
	h.adjust(c, h.uc.Engagement.AddRequest)
}

// RemoveRequest обрабатывает DELETE /api/services/:id/request.
func (h *ListingHandler) RemoveRequest(c *gin.Context) {
	h.adjust(c, h.uc.Engagement.RemoveRequest)
}

func (h *ListingHandler) adjust(c *gin.Context, apply func(context.Context, uuid.UUID)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	apply(c.Request.Context(), id)
	response.Success(c, gin.H{"id": id})
}
