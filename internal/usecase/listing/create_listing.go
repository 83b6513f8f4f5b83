package listing

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/edumatch/edumatch-backend/internal/domain/content"
	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/repository"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
	"github.com/edumatch/edumatch-backend/internal/validation"
)

type CreateListingInput struct {
	Title        string
	Category     string
	Blocks       content.Document
	ThumbnailURL *string
	PublishMode  string
}

type CreateListingUseCase struct {
	kind        valueobject.ListingKind
	listingRepo repository.ListingRepository
	profileRepo repository.ProfileRepository
}

func NewCreateListingUseCase(kind valueobject.ListingKind, listingRepo repository.ListingRepository, profileRepo repository.ProfileRepository) *CreateListingUseCase {
	return &CreateListingUseCase{kind: kind, listingRepo: listingRepo, profileRepo: profileRepo}
}

// Execute создаёт материал от имени аккаунта. Профиль вендора создаётся при первом обращении.
func (uc *CreateListingUseCase) Execute(ctx context.Context, identity *entity.Identity, input CreateListingInput) (*entity.Listing, error) {
	const op = "listing.Create"

	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validateCommonFields(&input.Title, &input.Category, input.ThumbnailURL); err != nil {
		return nil, err
	}

	if input.PublishMode == "" {
		input.PublishMode = string(valueobject.PublishModeDraft)
	}
	mode, err := valueobject.NewPublishMode(input.PublishMode)
	if err != nil {
		return nil, err
	}

	if _, err := ensureProfile(ctx, uc.profileRepo, identity); err != nil {
		return nil, fail(op, err)
	}

	listing, err := entity.NewListing(uc.kind, identity.ID, input.Title, input.Category, input.Blocks, input.ThumbnailURL, mode)
	if err != nil {
		return nil, err
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, fail(op, err)
	}

	logger.Log.WithFields(logrus.Fields{
		"kind":        uc.kind,
		"listing_id":  listing.ID,
		"provider_id": listing.ProviderID,
		"status":      listing.Status,
	}).Info("listing created")

	return listing, nil
}

// validateCommonFields проверяет поля, общие для создания и редактирования. nil поля пропускаются.
func validateCommonFields(title, category *string, thumbnailURL *string) error {
	if title != nil {
		if err := validation.ValidateListingTitle(*title); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if category != nil {
		if err := validation.ValidateCategory(*category); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if err := validation.ValidateExternalLink(thumbnailURL); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return nil
}
