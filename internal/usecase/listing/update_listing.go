package listing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/edumatch/edumatch-backend/internal/domain/content"
	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/repository"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

// UpdateListingInput частичное обновление. nil поле не меняется.
type UpdateListingInput struct {
	Title        *string
	Category     *string
	Blocks       *content.Document
	ThumbnailURL *string
	PublishMode  *string
}

func (in UpdateListingInput) changesContent() bool {
	return in.Title != nil || in.Category != nil || in.Blocks != nil || in.ThumbnailURL != nil
}

type UpdateListingUseCase struct {
	kind        valueobject.ListingKind
	listingRepo repository.ListingRepository
	cache       RankingCache
}

func NewUpdateListingUseCase(kind valueobject.ListingKind, listingRepo repository.ListingRepository, cache RankingCache) *UpdateListingUseCase {
	return &UpdateListingUseCase{kind: kind, listingRepo: listingRepo, cache: cache}
}

// Execute редактирует материал автора. Смена режима публикации возвращает материал
// на путь черновик/модерация и сбрасывает прошлое решение модератора.
func (uc *UpdateListingUseCase) Execute(ctx context.Context, identity *entity.Identity, id uuid.UUID, input UpdateListingInput) (*entity.Listing, error) {
	const op = "listing.Update"

	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validateCommonFields(input.Title, input.Category, input.ThumbnailURL); err != nil {
		return nil, err
	}

	listing, err := uc.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fail(op, err)
	}
	if !listing.IsOwnedBy(identity.ID) {
		return nil, apperror.ErrNotOwner
	}

	wasListed := listing.IsPubliclyListed()

	if input.Title != nil {
		listing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Category != nil {
		listing.Category = strings.TrimSpace(*input.Category)
	}
	if input.ThumbnailURL != nil {
		if *input.ThumbnailURL == "" {
			listing.ThumbnailURL = nil
		} else {
			thumb := strings.TrimSpace(*input.ThumbnailURL)
			listing.ThumbnailURL = &thumb
		}
	}
	if input.Blocks != nil {
		if err := input.Blocks.Validate(); err != nil {
			return nil, err
		}
		listing.SetDocument(*input.Blocks)
	}
	if input.PublishMode != nil {
		mode, err := valueobject.NewPublishMode(*input.PublishMode)
		if err != nil {
			return nil, err
		}
		if err := listing.ApplyPublishMode(mode); err != nil {
			return nil, err
		}
	} else if input.changesContent() && listing.Status != valueobject.ListingStatusDraft {
		// Изменённый материал снова проходит модерацию в прежнем режиме
		if err := listing.ApplyPublishMode(listing.CurrentPublishMode()); err != nil {
			return nil, err
		}
	}
	listing.UpdatedAt = time.Now().UTC()

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, fail(op, err)
	}

	if wasListed != listing.IsPubliclyListed() {
		invalidatePopular(ctx, uc.cache, uc.kind)
	}

	logger.Log.WithFields(logrus.Fields{
		"kind":       uc.kind,
		"listing_id": listing.ID,
		"status":     listing.Status,
	}).Info("listing updated")

	return listing, nil
}
