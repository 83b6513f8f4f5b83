package listing

import (
	"context"

	"github.com/google/uuid"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/policy"
	"github.com/edumatch/edumatch-backend/internal/domain/repository"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

type GetListingUseCase struct {
	kind        valueobject.ListingKind
	listingRepo repository.ListingRepository
	profileRepo repository.ProfileRepository
}

func NewGetListingUseCase(kind valueobject.ListingKind, listingRepo repository.ListingRepository, profileRepo repository.ProfileRepository) *GetListingUseCase {
	return &GetListingUseCase{kind: kind, listingRepo: listingRepo, profileRepo: profileRepo}
}

// Execute возвращает материал, если он виден запрашивающему. Скрытый материал
// неотличим от несуществующего.
func (uc *GetListingUseCase) Execute(ctx context.Context, identity *entity.Identity, id uuid.UUID) (*entity.Listing, error) {
	const op = "listing.Get"

	listing, err := uc.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fail(op, err)
	}

	viewer := resolveViewer(ctx, uc.profileRepo, identity)
	if !policy.CanView(listing, viewer) {
		return nil, apperror.ErrListingNotFound
	}

	if listing.IsPubliclyListed() && (viewer == nil || !listing.IsOwnedBy(viewer.ID)) {
		if err := uc.listingRepo.IncrementViews(ctx, listing.ID); err != nil {
			logger.WithOp(op).WithError(err).WithField("listing_id", listing.ID).Warn("failed to increment views")
		} else {
			listing.ViewCount++
		}
	}

	return listing, nil
}
