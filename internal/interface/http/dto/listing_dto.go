package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/edumatch/edumatch-backend/internal/domain/content"
	"github.com/edumatch/edumatch-backend/internal/domain/entity"
)

type CreateListingRequest struct {
	Title        string           `json:"title" binding:"required"`
	Category     string           `json:"category"`
	Blocks       content.Document `json:"blocks"`
	ThumbnailURL *string          `json:"thumbnail_url"`
	PublishMode  string           `json:"publish_mode"`
}

// UpdateListingRequest частичное обновление: отсутствующие поля не меняются,
// пустая строка thumbnail_url убирает обложку.
type UpdateListingRequest struct {
	Title        *string           `json:"title"`
	Category     *string           `json:"category"`
	Blocks       *content.Document `json:"blocks"`
	ThumbnailURL *string           `json:"thumbnail_url"`
	PublishMode  *string           `json:"publish_mode"`
}

type RejectListingRequest struct {
	Reason *string `json:"reason"`
}

type ListingResponse struct {
	ID              uuid.UUID        `json:"id"`
	Kind            string           `json:"kind"`
	ProviderID      uuid.UUID        `json:"provider_id"`
	Title           string           `json:"title"`
	Category        string           `json:"category"`
	Blocks          content.Document `json:"blocks"`
	Content         string           `json:"content"`
	ThumbnailURL    *string          `json:"thumbnail_url"`
	YoutubeURL      *string          `json:"youtube_url"`
	Images          []string         `json:"images"`
	FavoriteCount   int              `json:"favorite_count"`
	RequestCount    *int             `json:"request_count,omitempty"`
	ViewCount       int              `json:"view_count"`
	Status          string           `json:"status"`
	IsPublished     bool             `json:"is_published"`
	IsMemberOnly    bool             `json:"is_member_only"`
	SubmittedAt     *time.Time       `json:"submitted_at"`
	ApprovedAt      *time.Time       `json:"approved_at"`
	RejectedAt      *time.Time       `json:"rejected_at"`
	RejectionReason *string          `json:"rejection_reason"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func ToListingResponse(l *entity.Listing) ListingResponse {
	resp := ListingResponse{
		ID:              l.ID,
		Kind:            string(l.Kind),
		ProviderID:      l.ProviderID,
		Title:           l.Title,
		Category:        l.Category,
		Blocks:          l.Blocks,
		Content:         l.Content,
		ThumbnailURL:    l.ThumbnailURL,
		YoutubeURL:      l.YoutubeURL,
		Images:          l.Images,
		FavoriteCount:   l.FavoriteCount,
		ViewCount:       l.ViewCount,
		Status:          string(l.Status),
		IsPublished:     l.IsPublished,
		IsMemberOnly:    l.IsMemberOnly,
		SubmittedAt:     l.SubmittedAt,
		ApprovedAt:      l.ApprovedAt,
		RejectedAt:      l.RejectedAt,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if resp.Blocks == nil {
		resp.Blocks = content.Document{}
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if l.Kind.HasRequests() {
		count := l.RequestCount
		resp.RequestCount = &count
	}
	return resp
}

func ToListingResponses(listings []*entity.Listing) []ListingResponse {
	result := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		result = append(result, ToListingResponse(l))
	}
	return result
}

type MediaUploadResponse struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
