package listing_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/repository"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

type mockListingRepository struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*entity.Listing
	order    []uuid.UUID
	views    map[uuid.UUID]int

	err        error
	counterErr error
	viewsErr   error
	lastFilter repository.ListingFilter
}

func newMockListingRepository() *mockListingRepository {
	return &mockListingRepository{
		listings: make(map[uuid.UUID]*entity.Listing),
		views:    make(map[uuid.UUID]int),
	}
}

func (m *mockListingRepository) put(l *entity.Listing) *entity.Listing {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[l.ID]; !ok {
		m.order = append(m.order, l.ID)
	}
	m.listings[l.ID] = l
	return l
}

func (m *mockListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	if m.err != nil {
		return m.err
	}
	m.put(l)
	return nil
}

func (m *mockListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	if m.err != nil {
		return m.err
	}
	m.put(l)
	return nil
}

func (m *mockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.listings[id]; ok {
		return l, nil
	}
	return nil, apperror.ErrListingNotFound
}

func (m *mockListingRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID) ([]*entity.Listing, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*entity.Listing
	for _, id := range m.order {
		if l := m.listings[id]; l.ProviderID == providerID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockListingRepository) List(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	result := []*entity.Listing{}
	for _, id := range m.order {
		l := m.listings[id]
		if filter.PubliclyListed && !l.IsPubliclyListed() {
			continue
		}
		if filter.ExcludeMemberOnly && l.IsMemberOnly {
			continue
		}
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(l.Title), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, l)
	}
	total := len(result)
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, total, nil
}

func (m *mockListingRepository) ListPending(ctx context.Context, limit int) ([]*entity.Listing, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*entity.Listing
	for _, l := range m.listings {
		if l.Status == valueobject.ListingStatusPending {
			result = append(result, l)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedAt.Before(*result[j].SubmittedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockListingRepository) AdjustCounter(ctx context.Context, id uuid.UUID, counter repository.Counter, delta int) (int, bool, error) {
	if m.counterErr != nil {
		return 0, false, m.counterErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return 0, false, apperror.ErrListingNotFound
	}

	field := &l.FavoriteCount
	if counter == repository.CounterRequest {
		field = &l.RequestCount
	}
	next := *field + delta
	clamped := next < 0
	if clamped {
		next = 0
	}
	*field = next
	return next, clamped, nil
}

func (m *mockListingRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if m.viewsErr != nil {
		return m.viewsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[id]++
	return nil
}

type mockProfileRepository struct {
	profiles map[uuid.UUID]*entity.Profile
	created  int
	err      error
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{profiles: make(map[uuid.UUID]*entity.Profile)}
}

func (m *mockProfileRepository) withRole(id uuid.UUID, role valueobject.Role) {
	m.profiles[id] = &entity.Profile{ID: id, Role: role}
}

func (m *mockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, apperror.ErrProfileNotFound
}

func (m *mockProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.profiles[p.ID]; !ok {
		m.profiles[p.ID] = p
		m.created++
	}
	return nil
}

type mockNotifier struct {
	moderated []*entity.Listing
}

func (m *mockNotifier) ListingModerated(l *entity.Listing) {
	m.moderated = append(m.moderated, l)
}

type mockCache struct {
	data        map[string]interface{}
	invalidated []string
	err         error
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]interface{})}
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	out, ok := dest.(*[]*entity.Listing)
	if !ok {
		return false, errors.New("unexpected destination")
	}
	*out = v.([]*entity.Listing)
	return true, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	m.invalidated = append(m.invalidated, prefix)
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func identityFor(id uuid.UUID) *entity.Identity {
	return &entity.Identity{ID: id, Email: "user@example.com"}
}

func storeDown() error {
	return apperror.Wrap(errors.New("dial tcp: connection refused"), apperror.ErrCodeStoreUnavailable, "база данных недоступна")
}
