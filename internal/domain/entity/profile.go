package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
)

// SubscriptionStatusFree состояние подписки нового профиля.
const SubscriptionStatusFree = "free"

type Profile struct {
	ID                 uuid.UUID
	Email              string
	DisplayName        string
	Role               valueobject.Role
	SubscriptionStatus string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewProviderProfile создаёт профиль вендора для аккаунта без профиля.
func NewProviderProfile(identity Identity) *Profile {
	now := time.Now().UTC()
	return &Profile{
		ID:                 identity.ID,
		Email:              identity.Email,
		DisplayName:        identity.DisplayName(),
		Role:               valueobject.RoleProvider,
		SubscriptionStatus: SubscriptionStatusFree,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == valueobject.RoleAdmin
}

// Identity аккаунт, подтверждённый внешним провайдером идентификации.
type Identity struct {
	ID       uuid.UUID
	Email    string
	Metadata map[string]interface{}
}

// DisplayName берёт имя из метаданных провайдера, иначе локальную часть email.
func (i Identity) DisplayName() string {
	for _, key := range []string{"full_name", "name"} {
		if v, ok := i.Metadata[key].(string); ok && v != "" {
			return v
		}
	}
	for idx, r := range i.Email {
		if r == '@' {
			return i.Email[:idx]
		}
	}
	return i.Email
}

// Viewer тот, кто запрашивает материал. nil означает анонима.
type Viewer struct {
	ID   uuid.UUID
	Role valueobject.Role
}

func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == valueobject.RoleAdmin
}
