package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
)

// Counter счётчик вовлечённости.
type Counter string

const (
	CounterFavorite Counter = "favorite_count"
	CounterRequest  Counter = "request_count"
)

// ListingRepository хранилище материалов одного вида.
type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	Update(ctx context.Context, listing *entity.Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	FindByProviderID(ctx context.Context, providerID uuid.UUID) ([]*entity.Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]*entity.Listing, int, error)
	ListPending(ctx context.Context, limit int) ([]*entity.Listing, error)

	// AdjustCounter атомарно меняет счётчик на delta и не опускает его ниже нуля.
	// clamped=true, если уменьшение упёрлось в ноль.
	AdjustCounter(ctx context.Context, id uuid.UUID, counter Counter, delta int) (value int, clamped bool, err error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type ListingFilter struct {
	// PubliclyListed оставляет только одобренные или опубликованные материалы.
	PubliclyListed bool
	// ExcludeMemberOnly скрывает материалы только для участников (анонимный просмотр).
	ExcludeMemberOnly bool
	Category          string
	Search            string
	SortBy            string
	SortOrder         string
	Limit             int
	Offset            int
}

// ValidSortFields поля, по которым разрешена сортировка.
var ValidSortFields = map[string]struct{}{
	"created_at":   {},
	"submitted_at": {},
	"view_count":   {},
}

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	// Create создаёт профиль. Если профиль уже есть, ошибки нет.
	Create(ctx context.Context, profile *entity.Profile) error
}
