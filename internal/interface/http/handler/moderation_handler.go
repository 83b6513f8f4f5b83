package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/edumatch/edumatch-backend/internal/http/middleware"
	"github.com/edumatch/edumatch-backend/internal/interface/http/dto"
	"github.com/edumatch/edumatch-backend/internal/interface/http/response"
)

// Pending обрабатывает GET /api/admin/{kind}/pending. Не администратору отдаётся пустой список.
func (h *ListingHandler) Pending(c *gin.Context) {
	listings := h.uc.Moderation.ListPending(c.Request.Context(), middleware.IdentityFrom(c))
	response.Success(c, dto.ToListingResponses(listings))
}

// Approve обрабатывает POST /api/admin/{kind}/:id/approve.
func (h *ListingHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	approved, err := h.uc.Moderation.Approve(c.Request.Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToListingResponse(approved))
}

// Reject обрабатывает POST /api/admin/{kind}/:id/reject. Тело с причиной необязательно.
func (h *ListingHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RejectListingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	rejected, err := h.uc.Moderation.Reject(c.Request.Context(), middleware.IdentityFrom(c), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToListingResponse(rejected))
}
