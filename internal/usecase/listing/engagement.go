package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/edumatch/edumatch-backend/internal/domain/repository"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/logger"
)

// EngagementUseCase ведёт счётчики избранного и заявок.
// Сбой счётчика не должен ломать действие пользователя, поэтому ошибки только логируются.
type EngagementUseCase struct {
	kind        valueobject.ListingKind
	listingRepo repository.ListingRepository
}

func NewEngagementUseCase(kind valueobject.ListingKind, listingRepo repository.ListingRepository) *EngagementUseCase {
	return &EngagementUseCase{kind: kind, listingRepo: listingRepo}
}

func (uc *EngagementUseCase) AddFavorite(ctx context.Context, id uuid.UUID) {
	uc.adjust(ctx, "listing.AddFavorite", id, repository.CounterFavorite, 1)
}

func (uc *EngagementUseCase) RemoveFavorite(ctx context.Context, id uuid.UUID) {
	uc.adjust(ctx, "listing.RemoveFavorite", id, repository.CounterFavorite, -1)
}

func (uc *EngagementUseCase) AddRequest(ctx context.Context, id uuid.UUID) {
	uc.adjust(ctx, "listing.AddRequest", id, repository.CounterRequest, 1)
}

func (uc *EngagementUseCase) RemoveRequest(ctx context.Context, id uuid.UUID) {
	uc.adjust(ctx, "listing.RemoveRequest", id, repository.CounterRequest, -1)
}

func (uc *EngagementUseCase) adjust(ctx context.Context, op string, id uuid.UUID, counter repository.Counter, delta int) {
	log := logger.WithOp(op).WithFields(logrus.Fields{
		"kind":       uc.kind,
		"listing_id": id,
		"counter":    counter,
	})

	if counter == repository.CounterRequest && !uc.kind.HasRequests() {
		log.Warn("requests are not tracked for this kind")
		return
	}

	value, clamped, err := uc.listingRepo.AdjustCounter(ctx, id, counter, delta)
	if err != nil {
		log.WithError(err).Error("failed to adjust counter")
		return
	}
	if clamped {
		log.WithField("value", value).Warn("counter drift: decrement below zero clamped")
	}
}
