package listing

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/repository"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

// PendingQueueLimit размер очереди модерации.
const PendingQueueLimit = 100

type ModerationUseCase struct {
	kind        valueobject.ListingKind
	listingRepo repository.ListingRepository
	profileRepo repository.ProfileRepository
	notifier    ModerationNotifier
	cache       RankingCache
}

func NewModerationUseCase(
	kind valueobject.ListingKind,
	listingRepo repository.ListingRepository,
	profileRepo repository.ProfileRepository,
	notifier ModerationNotifier,
	cache RankingCache,
) *ModerationUseCase {
	return &ModerationUseCase{
		kind:        kind,
		listingRepo: listingRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
		cache:       cache,
	}
}

func (uc *ModerationUseCase) Approve(ctx context.Context, identity *entity.Identity, id uuid.UUID) (*entity.Listing, error) {
	return uc.decide(ctx, "listing.Approve", identity, id, func(l *entity.Listing) error {
		return l.Approve()
	})
}

// Reject отклоняет материал. Пустая причина хранится как её отсутствие.
func (uc *ModerationUseCase) Reject(ctx context.Context, identity *entity.Identity, id uuid.UUID, reason *string) (*entity.Listing, error) {
	if reason != nil && strings.TrimSpace(*reason) == "" {
		reason = nil
	}
	return uc.decide(ctx, "listing.Reject", identity, id, func(l *entity.Listing) error {
		return l.Reject(reason)
	})
}

func (uc *ModerationUseCase) decide(ctx context.Context, op string, identity *entity.Identity, id uuid.UUID, apply func(*entity.Listing) error) (*entity.Listing, error) {
	if err := requireAdmin(ctx, uc.profileRepo, identity); err != nil {
		return nil, fail(op, err)
	}

	listing, err := uc.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fail(op, err)
	}
	if err := apply(listing); err != nil {
		return nil, err
	}
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, fail(op, err)
	}

	invalidatePopular(ctx, uc.cache, uc.kind)
	if uc.notifier != nil {
		uc.notifier.ListingModerated(listing)
	}

	logger.Log.WithFields(logrus.Fields{
		"op":         op,
		"kind":       uc.kind,
		"listing_id": listing.ID,
		"admin_id":   identity.ID,
		"status":     listing.Status,
	}).Info("listing moderated")

	return listing, nil
}

// ListPending возвращает очередь модерации от старых к новым.
// Не администратору и при сбое хранилища возвращается пустой список.
func (uc *ModerationUseCase) ListPending(ctx context.Context, identity *entity.Identity) []*entity.Listing {
	const op = "listing.ListPending"

	if err := requireAdmin(ctx, uc.profileRepo, identity); err != nil {
		if !apperror.IsForbidden(err) && apperror.CodeOf(err) != apperror.ErrCodeUnauthorized {
			logger.WithOp(op).WithError(err).Warn("failed to check admin role")
		}
		return []*entity.Listing{}
	}

	listings, err := uc.listingRepo.ListPending(ctx, PendingQueueLimit)
	if err != nil {
		logger.WithOp(op).WithError(err).Error("failed to load pending listings")
		return []*entity.Listing{}
	}
	if listings == nil {
		listings = []*entity.Listing{}
	}
	return listings
}
