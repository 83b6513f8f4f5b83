package listing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumatch/edumatch-backend/internal/domain/content"
	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
	"github.com/edumatch/edumatch-backend/internal/usecase/listing"
)

func strPtr(s string) *string { return &s }

func TestCreateListing_MemberModeRendersContent(t *testing.T) {
	listings := newMockListingRepository()
	profiles := newMockProfileRepository()
	uc := listing.NewCreateListingUseCase(valueobject.ListingKindPost, listings, profiles)

	userID := uuid.New()
	l, err := uc.Execute(context.Background(), identityFor(userID), listing.CreateListingInput{
		Title:       "Как выбрать репетитора",
		Blocks:      content.Document{{Type: content.BlockParagraph, Content: "hello"}},
		PublishMode: "member",
	})
	require.NoError(t, err)

	assert.Equal(t, "hello\n", l.Content)
	assert.True(t, l.IsMemberOnly)
	assert.Equal(t, valueobject.ListingStatusPending, l.Status)
	assert.NotNil(t, l.SubmittedAt)
	assert.False(t, l.IsPublished)
	assert.Equal(t, userID, l.ProviderID)

	stored, err := listings.FindByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, l, stored)
}

func TestCreateListing_DraftByDefault(t *testing.T) {
	uc := listing.NewCreateListingUseCase(valueobject.ListingKindService, newMockListingRepository(), newMockProfileRepository())

	l, err := uc.Execute(context.Background(), identityFor(uuid.New()), listing.CreateListingInput{Title: "Подготовка к ЕГЭ"})
	require.NoError(t, err)
	assert.Equal(t, valueobject.ListingStatusDraft, l.Status)
	assert.Nil(t, l.SubmittedAt)
	assert.Empty(t, l.Content)
}

func TestCreateListing_ProvisionsProfileOnce(t *testing.T) {
	profiles := newMockProfileRepository()
	uc := listing.NewCreateListingUseCase(valueobject.ListingKindService, newMockListingRepository(), profiles)
	identity := identityFor(uuid.New())

	for i := 0; i < 2; i++ {
		_, err := uc.Execute(context.Background(), identity, listing.CreateListingInput{Title: "Уроки музыки"})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, profiles.created)
	assert.Equal(t, valueobject.RoleProvider, profiles.profiles[identity.ID].Role)
	assert.Equal(t, "user", profiles.profiles[identity.ID].DisplayName)
}

func TestCreateListing_Errors(t *testing.T) {
	tests := []struct {
		name     string
		identity *entity.Identity
		input    listing.CreateListingInput
		repoErr  error
		wantCode apperror.ErrorCode
	}{
		{
			name:     "anonymous",
			input:    listing.CreateListingInput{Title: "Курс"},
			wantCode: apperror.ErrCodeUnauthorized,
		},
		{
			name:     "short title",
			identity: identityFor(uuid.New()),
			input:    listing.CreateListingInput{Title: "ab"},
			wantCode: apperror.ErrCodeValidation,
		},
		{
			name:     "unknown publish mode",
			identity: identityFor(uuid.New()),
			input:    listing.CreateListingInput{Title: "Курс", PublishMode: "everyone"},
			wantCode: apperror.ErrCodeValidation,
		},
		{
			name:     "unknown block type",
			identity: identityFor(uuid.New()),
			input:    listing.CreateListingInput{Title: "Курс", Blocks: content.Document{{Type: "table"}}},
			wantCode: apperror.ErrCodeValidation,
		},
		{
			name:     "bad thumbnail",
			identity: identityFor(uuid.New()),
			input:    listing.CreateListingInput{Title: "Курс", ThumbnailURL: strPtr("ftp://example.com/a.png")},
			wantCode: apperror.ErrCodeValidation,
		},
		{
			name:     "store unavailable",
			identity: identityFor(uuid.New()),
			input:    listing.CreateListingInput{Title: "Курс"},
			repoErr:  storeDown(),
			wantCode: apperror.ErrCodeStoreUnavailable,
		},
		{
			name:     "unexpected error is hidden",
			identity: identityFor(uuid.New()),
			input:    listing.CreateListingInput{Title: "Курс"},
			repoErr:  errors.New("boom"),
			wantCode: apperror.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings := newMockListingRepository()
			listings.err = tt.repoErr
			uc := listing.NewCreateListingUseCase(valueobject.ListingKindService, listings, newMockProfileRepository())

			_, err := uc.Execute(context.Background(), tt.identity, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperror.CodeOf(err))
		})
	}
}

func TestUpdateListing_OwnershipRequired(t *testing.T) {
	listings := newMockListingRepository()
	owner := uuid.New()
	l, err := entity.NewListing(valueobject.ListingKindService, owner, "Английский", "languages", nil, nil, valueobject.PublishModeDraft)
	require.NoError(t, err)
	listings.put(l)

	uc := listing.NewUpdateListingUseCase(valueobject.ListingKindService, listings, nil)
	_, err = uc.Execute(context.Background(), identityFor(uuid.New()), l.ID, listing.UpdateListingInput{Title: strPtr("Чужой")})
	assert.ErrorIs(t, err, apperror.ErrNotOwner)
	assert.Equal(t, "Английский", l.Title)
}

func TestUpdateListing_NotFound(t *testing.T) {
	uc := listing.NewUpdateListingUseCase(valueobject.ListingKindService, newMockListingRepository(), nil)
	_, err := uc.Execute(context.Background(), identityFor(uuid.New()), uuid.New(), listing.UpdateListingInput{})
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateListing_DraftAlwaysResetsState(t *testing.T) {
	for _, status := range []valueobject.ListingStatus{
		valueobject.ListingStatusDraft,
		valueobject.ListingStatusPending,
		valueobject.ListingStatusApproved,
		valueobject.ListingStatusRejected,
	} {
		t.Run(string(status), func(t *testing.T) {
			listings := newMockListingRepository()
			owner := uuid.New()
			l, err := entity.NewListing(valueobject.ListingKindPost, owner, "Статья", "", nil, nil, valueobject.PublishModePublic)
			require.NoError(t, err)
			switch status {
			case valueobject.ListingStatusDraft:
				require.NoError(t, l.ApplyPublishMode(valueobject.PublishModeDraft))
			case valueobject.ListingStatusApproved:
				require.NoError(t, l.Approve())
			case valueobject.ListingStatusRejected:
				require.NoError(t, l.Reject(strPtr("мало деталей")))
			}
			listings.put(l)

			cache := newMockCache()
			uc := listing.NewUpdateListingUseCase(valueobject.ListingKindPost, listings, cache)
			updated, err := uc.Execute(context.Background(), identityFor(owner), l.ID, listing.UpdateListingInput{PublishMode: strPtr("draft")})
			require.NoError(t, err)

			assert.Equal(t, valueobject.ListingStatusDraft, updated.Status)
			assert.Nil(t, updated.SubmittedAt)
			assert.Nil(t, updated.ApprovedAt)
			assert.Nil(t, updated.RejectedAt)
			assert.Nil(t, updated.RejectionReason)
			assert.False(t, updated.IsPublished)
			if status == valueobject.ListingStatusApproved {
				assert.Equal(t, []string{listing.PopularCachePrefix(valueobject.ListingKindPost)}, cache.invalidated)
			}
		})
	}
}

func TestUpdateListing_ApprovedBackToPending(t *testing.T) {
	listings := newMockListingRepository()
	owner := uuid.New()
	l, err := entity.NewListing(valueobject.ListingKindService, owner, "Математика", "", nil, nil, valueobject.PublishModePublic)
	require.NoError(t, err)
	require.NoError(t, l.Approve())
	listings.put(l)

	uc := listing.NewUpdateListingUseCase(valueobject.ListingKindService, listings, nil)
	updated, err := uc.Execute(context.Background(), identityFor(owner), l.ID, listing.UpdateListingInput{PublishMode: strPtr("member")})
	require.NoError(t, err)

	assert.Equal(t, valueobject.ListingStatusPending, updated.Status)
	assert.True(t, updated.IsMemberOnly)
	assert.False(t, updated.IsPublished)
	assert.Nil(t, updated.ApprovedAt)
	assert.NotNil(t, updated.SubmittedAt)
}

func TestUpdateListing_ContentEditResubmitsApproved(t *testing.T) {
	listings := newMockListingRepository()
	owner := uuid.New()
	l, err := entity.NewListing(valueobject.ListingKindService, owner, "Химия", "science", nil, nil, valueobject.PublishModePublic)
	require.NoError(t, err)
	require.NoError(t, l.Approve())
	listings.put(l)

	blocks := content.Document{
		{Type: content.BlockHeading1, Content: "Программа"},
		{Type: content.BlockImage, URL: "https://cdn.example.com/a.png"},
		{Type: content.BlockVideo, URL: "https://youtu.be/abc123"},
	}
	cache := newMockCache()
	uc := listing.NewUpdateListingUseCase(valueobject.ListingKindService, listings, cache)
	updated, err := uc.Execute(context.Background(), identityFor(owner), l.ID, listing.UpdateListingInput{
		Blocks:   &blocks,
		Category: strPtr("chemistry"),
	})
	require.NoError(t, err)

	assert.Equal(t, valueobject.ListingStatusPending, updated.Status)
	assert.False(t, updated.IsPublished)
	assert.False(t, updated.IsMemberOnly)
	assert.Nil(t, updated.ApprovedAt)
	assert.NotNil(t, updated.SubmittedAt)
	assert.Equal(t, []string{listing.PopularCachePrefix(valueobject.ListingKindService)}, cache.invalidated)
	assert.Equal(t, "Химия", updated.Title)
	assert.Equal(t, "chemistry", updated.Category)
	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, updated.Images)
	require.NotNil(t, updated.YoutubeURL)
	assert.Equal(t, "https://youtu.be/abc123", *updated.YoutubeURL)
	assert.Contains(t, updated.Content, "# Программа\n")
}

func TestUpdateListing_ClearThumbnail(t *testing.T) {
	listings := newMockListingRepository()
	owner := uuid.New()
	l, err := entity.NewListing(valueobject.ListingKindService, owner, "Физика", "", nil, strPtr("https://cdn.example.com/t.png"), valueobject.PublishModeDraft)
	require.NoError(t, err)
	listings.put(l)

	uc := listing.NewUpdateListingUseCase(valueobject.ListingKindService, listings, nil)
	updated, err := uc.Execute(context.Background(), identityFor(owner), l.ID, listing.UpdateListingInput{ThumbnailURL: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.ThumbnailURL)
}

func TestUpdateListing_ContentEditKeepsMemberMode(t *testing.T) {
	listings := newMockListingRepository()
	owner := uuid.New()
	l, err := entity.NewListing(valueobject.ListingKindPost, owner, "Биология", "", nil, nil, valueobject.PublishModeMember)
	require.NoError(t, err)
	require.NoError(t, l.Reject(strPtr("Мало деталей")))
	listings.put(l)

	uc := listing.NewUpdateListingUseCase(valueobject.ListingKindPost, listings, nil)
	updated, err := uc.Execute(context.Background(), identityFor(owner), l.ID, listing.UpdateListingInput{Title: strPtr("Биология 7 класс")})
	require.NoError(t, err)

	assert.Equal(t, valueobject.ListingStatusPending, updated.Status)
	assert.True(t, updated.IsMemberOnly)
	assert.Nil(t, updated.RejectedAt)
	assert.Nil(t, updated.RejectionReason)
}

func TestUpdateListing_DraftEditStaysDraft(t *testing.T) {
	listings := newMockListingRepository()
	owner := uuid.New()
	l, err := entity.NewListing(valueobject.ListingKindService, owner, "Черновик", "", nil, nil, valueobject.PublishModeDraft)
	require.NoError(t, err)
	listings.put(l)

	uc := listing.NewUpdateListingUseCase(valueobject.ListingKindService, listings, nil)
	updated, err := uc.Execute(context.Background(), identityFor(owner), l.ID, listing.UpdateListingInput{Title: strPtr("Новый черновик")})
	require.NoError(t, err)

	assert.Equal(t, valueobject.ListingStatusDraft, updated.Status)
	assert.Nil(t, updated.SubmittedAt)
}
