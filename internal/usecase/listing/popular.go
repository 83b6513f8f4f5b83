package listing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/repository"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/logger"
)

const (
	// PopularCandidateLimit сколько свежих материалов участвует в рейтинге.
	PopularCandidateLimit = 300
	DefaultPopularLimit   = 10
	MaxPopularLimit       = 50
)

// RankByEngagement сортирует материалы по убыванию суммы избранного и заявок.
// При равенстве сохраняется исходный порядок. Входной срез не меняется.
func RankByEngagement(candidates []*entity.Listing, limit int) []*entity.Listing {
	if limit <= 0 {
		return []*entity.Listing{}
	}

	ranked := make([]*entity.Listing, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EngagementScore() > ranked[j].EngagementScore()
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

type PopularListingsUseCase struct {
	kind        valueobject.ListingKind
	listingRepo repository.ListingRepository
	cache       RankingCache
	ttl         time.Duration
}

func NewPopularListingsUseCase(kind valueobject.ListingKind, listingRepo repository.ListingRepository, cache RankingCache, ttl time.Duration) *PopularListingsUseCase {
	return &PopularListingsUseCase{kind: kind, listingRepo: listingRepo, cache: cache, ttl: ttl}
}

// Execute возвращает самые популярные публичные материалы.
// При любой ошибке возвращается пустой список.
func (uc *PopularListingsUseCase) Execute(ctx context.Context, identity *entity.Identity, limit int) []*entity.Listing {
	const op = "listing.Popular"

	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}

	audience := "member"
	if identity == nil {
		audience = "anon"
	}
	key := fmt.Sprintf("%s%s:%d", PopularCachePrefix(uc.kind), audience, limit)

	if uc.cache != nil {
		var cached []*entity.Listing
		found, err := uc.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.WithOp(op).WithError(err).Warn("failed to read popular cache")
		} else if found {
			return cached
		}
	}

	candidates, _, err := uc.listingRepo.List(ctx, repository.ListingFilter{
		PubliclyListed:    true,
		ExcludeMemberOnly: identity == nil,
		SortBy:            "created_at",
		SortOrder:         "DESC",
		Limit:             PopularCandidateLimit,
	})
	if err != nil {
		logger.WithOp(op).WithError(err).Error("failed to load candidates")
		return []*entity.Listing{}
	}

	ranked := RankByEngagement(candidates, limit)

	if uc.cache != nil && uc.ttl > 0 {
		if err := uc.cache.Set(ctx, key, ranked, uc.ttl); err != nil {
			logger.WithOp(op).WithError(err).Warn("failed to write popular cache")
		}
	}
	return ranked
}
