package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/http/middleware"
	"github.com/edumatch/edumatch-backend/internal/interface/http/dto"
	"github.com/edumatch/edumatch-backend/internal/interface/http/response"
	"github.com/edumatch/edumatch-backend/internal/usecase/listing"
)

// ListingUseCases сценарии одного вида материалов.
type ListingUseCases struct {
	Create     *listing.CreateListingUseCase
	Update     *listing.UpdateListingUseCase
	Get        *listing.GetListingUseCase
	List       *listing.ListListingsUseCase
	ListMine   *listing.ListMyListingsUseCase
	Popular    *listing.PopularListingsUseCase
	Engagement *listing.EngagementUseCase
	Moderation *listing.ModerationUseCase
}

// ListingHandler REST для одного вида материалов (услуги или статьи).
type ListingHandler struct {
	kind valueobject.ListingKind
	uc   ListingUseCases
}

func NewListingHandler(kind valueobject.ListingKind, uc ListingUseCases) *ListingHandler {
	return &ListingHandler{kind: kind, uc: uc}
}

func (h *ListingHandler) Kind() valueobject.ListingKind {
	return h.kind
}

// List обрабатывает GET /api/{kind}.
func (h *ListingHandler) List(c *gin.Context) {
	input := listing.ListListingsInput{
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
		Limit:     parseIntQuery(c, "limit", listing.DefaultPageSize),
		Offset:    parseIntQuery(c, "offset", 0),
	}

	listings, total, err := h.uc.List.Execute(c.Request.Context(), middleware.IdentityFrom(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	limit, offset := listing.PageBounds(input.Limit, input.Offset)
	response.Paginated(c, dto.ToListingResponses(listings), total, limit, offset)
}

// Popular обрабатывает GET /api/{kind}/popular. Всегда отвечает 200.
func (h *ListingHandler) Popular(c *gin.Context) {
	limit := parseIntQuery(c, "limit", listing.DefaultPopularLimit)
	listings := h.uc.Popular.Execute(c.Request.Context(), middleware.IdentityFrom(c), limit)
	response.Success(c, dto.ToListingResponses(listings))
}

// Get обрабатывает GET /api/{kind}/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	l, err := h.uc.Get.Execute(c.Request.Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToListingResponse(l))
}

// ListMine обрабатывает GET /api/{kind}/my.
func (h *ListingHandler) ListMine(c *gin.Context) {
	listings, err := h.uc.ListMine.Execute(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToListingResponses(listings))
}

// Create обрабатывает POST /api/{kind}.
func (h *ListingHandler) Create(c *gin.Context) {
	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.uc.Create.Execute(c.Request.Context(), middleware.IdentityFrom(c), listing.CreateListingInput{
		Title:        req.Title,
		Category:     req.Category,
		Blocks:       req.Blocks,
		ThumbnailURL: req.ThumbnailURL,
		PublishMode:  req.PublishMode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToListingResponse(created))
}

// Update обрабатывает PUT /api/{kind}/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	updated, err := h.uc.Update.Execute(c.Request.Context(), middleware.IdentityFrom(c), id, listing.UpdateListingInput{
		Title:        req.Title,
		Category:     req.Category,
		Blocks:       req.Blocks,
		ThumbnailURL: req.ThumbnailURL,
		PublishMode:  req.PublishMode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToListingResponse(updated))
}
