package listing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/usecase/listing"
)

func scored(kind valueobject.ListingKind, title string, favorites, requests int) *entity.Listing {
	return &entity.Listing{
		ID:            uuid.New(),
		Kind:          kind,
		Title:         title,
		FavoriteCount: favorites,
		RequestCount:  requests,
		Status:        valueobject.ListingStatusApproved,
		IsPublished:   true,
	}
}

func titles(listings []*entity.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Title)
	}
	return out
}

func TestRankByEngagement(t *testing.T) {
	candidates := []*entity.Listing{
		scored(valueobject.ListingKindService, "a", 1, 0),
		scored(valueobject.ListingKindService, "b", 2, 3),
		scored(valueobject.ListingKindService, "c", 0, 1),
		scored(valueobject.ListingKindService, "d", 4, 1),
		scored(valueobject.ListingKindService, "e", 0, 0),
	}

	ranked := listing.RankByEngagement(candidates, 3)
	assert.Equal(t, []string{"b", "d", "a"}, titles(ranked), "ties keep input order")
	assert.Equal(t, "a", candidates[0].Title, "input is not reordered")

	all := listing.RankByEngagement(candidates, 100)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].EngagementScore(), all[i].EngagementScore())
	}

	assert.Empty(t, listing.RankByEngagement(candidates, 0))
	assert.Empty(t, listing.RankByEngagement(nil, 5))
}

func TestRankByEngagement_PostsIgnoreRequests(t *testing.T) {
	candidates := []*entity.Listing{
		scored(valueobject.ListingKindPost, "many-requests", 1, 50),
		scored(valueobject.ListingKindPost, "favorites", 2, 0),
	}
	assert.Equal(t, []string{"favorites", "many-requests"}, titles(listing.RankByEngagement(candidates, 2)))
}

func TestPopularListings_UsesCache(t *testing.T) {
	listings := newMockListingRepository()
	cache := newMockCache()
	uc := listing.NewPopularListingsUseCase(valueobject.ListingKindService, listings, cache, 60)

	listings.put(scored(valueobject.ListingKindService, "low", 1, 0))
	listings.put(scored(valueobject.ListingKindService, "high", 5, 5))

	first := uc.Execute(context.Background(), nil, 5)
	assert.Equal(t, []string{"high", "low"}, titles(first))
	assert.True(t, listings.lastFilter.ExcludeMemberOnly)
	assert.Equal(t, listing.PopularCandidateLimit, listings.lastFilter.Limit)

	listings.put(scored(valueobject.ListingKindService, "new", 100, 0))
	cached := uc.Execute(context.Background(), nil, 5)
	assert.Equal(t, []string{"high", "low"}, titles(cached))

	require.NoError(t, cache.DeleteByPrefix(context.Background(), listing.PopularCachePrefix(valueobject.ListingKindService)))
	fresh := uc.Execute(context.Background(), nil, 5)
	assert.Equal(t, []string{"new", "high", "low"}, titles(fresh))
}

func TestPopularListings_DegradesToEmpty(t *testing.T) {
	listings := newMockListingRepository()
	listings.err = storeDown()
	uc := listing.NewPopularListingsUseCase(valueobject.ListingKindPost, listings, nil, 0)

	result := uc.Execute(context.Background(), identityFor(uuid.New()), 10)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestPopularListings_AnonymousSkipsMemberOnly(t *testing.T) {
	listings := newMockListingRepository()
	uc := listing.NewPopularListingsUseCase(valueobject.ListingKindPost, listings, nil, 0)

	members := scored(valueobject.ListingKindPost, "members", 10, 0)
	members.IsMemberOnly = true
	listings.put(members)
	listings.put(scored(valueobject.ListingKindPost, "public", 1, 0))

	assert.Equal(t, []string{"public"}, titles(uc.Execute(context.Background(), nil, 10)))
	assert.Equal(t, []string{"members", "public"}, titles(uc.Execute(context.Background(), identityFor(uuid.New()), 10)))
}

func TestEngagement_Counters(t *testing.T) {
	listings := newMockListingRepository()
	uc := listing.NewEngagementUseCase(valueobject.ListingKindService, listings)
	l := listings.put(scored(valueobject.ListingKindService, "svc", 3, 0))
	ctx := context.Background()

	uc.AddFavorite(ctx, l.ID)
	uc.AddFavorite(ctx, l.ID)
	uc.RemoveFavorite(ctx, l.ID)
	assert.Equal(t, 4, l.FavoriteCount, "+2 -1 nets +1")

	uc.RemoveRequest(ctx, l.ID)
	assert.Equal(t, 0, l.RequestCount, "never below zero")

	uc.AddRequest(ctx, l.ID)
	assert.Equal(t, 1, l.RequestCount)
}

func TestEngagement_PostsHaveNoRequests(t *testing.T) {
	listings := newMockListingRepository()
	uc := listing.NewEngagementUseCase(valueobject.ListingKindPost, listings)
	l := listings.put(scored(valueobject.ListingKindPost, "post", 0, 0))

	uc.AddRequest(context.Background(), l.ID)
	assert.Equal(t, 0, l.RequestCount)
}

func TestEngagement_FailuresAreSwallowed(t *testing.T) {
	listings := newMockListingRepository()
	listings.counterErr = storeDown()
	uc := listing.NewEngagementUseCase(valueobject.ListingKindService, listings)

	assert.NotPanics(t, func() {
		uc.AddFavorite(context.Background(), uuid.New())
		uc.RemoveRequest(context.Background(), uuid.New())
	})
}
