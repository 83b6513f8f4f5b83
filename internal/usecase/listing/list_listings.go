package listing

import (
	"context"
	"strings"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/repository"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
	"github.com/edumatch/edumatch-backend/internal/validation"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageBounds приводит limit и offset к допустимым значениям.
func PageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type ListListingsInput struct {
	Category  string
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

type ListListingsUseCase struct {
	kind        valueobject.ListingKind
	listingRepo repository.ListingRepository
}

func NewListListingsUseCase(kind valueobject.ListingKind, listingRepo repository.ListingRepository) *ListListingsUseCase {
	return &ListListingsUseCase{kind: kind, listingRepo: listingRepo}
}

// Execute возвращает страницу каталога. В каталог попадают только прошедшие модерацию
// материалы, анониму не показываются материалы только для участников.
func (uc *ListListingsUseCase) Execute(ctx context.Context, identity *entity.Identity, input ListListingsInput) ([]*entity.Listing, int, error) {
	const op = "listing.List"

	if err := validation.ValidateSearch(input.Search); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	filter := repository.ListingFilter{
		PubliclyListed:    true,
		ExcludeMemberOnly: identity == nil,
		Category:          strings.TrimSpace(input.Category),
		Search:            strings.TrimSpace(input.Search),
		SortBy:            "created_at",
		SortOrder:         "DESC",
	}
	if _, ok := repository.ValidSortFields[input.SortBy]; ok {
		filter.SortBy = input.SortBy
	}
	if strings.EqualFold(input.SortOrder, "asc") {
		filter.SortOrder = "ASC"
	}
	filter.Limit, filter.Offset = PageBounds(input.Limit, input.Offset)

	listings, total, err := uc.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fail(op, err)
	}
	return listings, total, nil
}

type ListMyListingsUseCase struct {
	listingRepo repository.ListingRepository
}

func NewListMyListingsUseCase(listingRepo repository.ListingRepository) *ListMyListingsUseCase {
	return &ListMyListingsUseCase{listingRepo: listingRepo}
}

// Execute возвращает все материалы автора в любом статусе.
func (uc *ListMyListingsUseCase) Execute(ctx context.Context, identity *entity.Identity) ([]*entity.Listing, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	listings, err := uc.listingRepo.FindByProviderID(ctx, identity.ID)
	if err != nil {
		return nil, fail("listing.ListMine", err)
	}
	if listings == nil {
		listings = []*entity.Listing{}
	}
	return listings, nil
}
