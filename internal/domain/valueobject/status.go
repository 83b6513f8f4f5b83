package valueobject

import "github.com/edumatch/edumatch-backend/internal/pkg/apperror"

type ListingStatus string

const (
	ListingStatusDraft    ListingStatus = "DRAFT"
	ListingStatusPending  ListingStatus = "PENDING"
	ListingStatusApproved ListingStatus = "APPROVED"
	ListingStatusRejected ListingStatus = "REJECTED"
)

// CanTransitionTo проверяет переход жизненного цикла.
// Повторное одобрение/отклонение разрешено и лишь обновляет отметку времени.
func (s ListingStatus) CanTransitionTo(newStatus ListingStatus) bool {
	transitions := map[ListingStatus][]ListingStatus{
		ListingStatusDraft:    {ListingStatusDraft, ListingStatusPending},
		ListingStatusPending:  {ListingStatusDraft, ListingStatusPending, ListingStatusApproved, ListingStatusRejected},
		ListingStatusApproved: {ListingStatusDraft, ListingStatusPending, ListingStatusApproved, ListingStatusRejected},
		ListingStatusRejected: {ListingStatusDraft, ListingStatusPending, ListingStatusApproved, ListingStatusRejected},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

// PublishMode режим публикации, выбранный автором.
type PublishMode string

const (
	PublishModeDraft  PublishMode = "draft"
	PublishModePublic PublishMode = "public"
	PublishModeMember PublishMode = "member"
)

func (m PublishMode) IsValid() bool {
	switch m {
	case PublishModeDraft, PublishModePublic, PublishModeMember:
		return true
	}
	return false
}

func NewPublishMode(mode string) (PublishMode, error) {
	m := PublishMode(mode)
	if !m.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный режим публикации")
	}
	return m, nil
}

// Role роль аккаунта. Задаётся при регистрации и не меняется workflow.
type Role string

const (
	RoleViewer   Role = "VIEWER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// NewRole разбирает роль из хранилища.
func NewRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректная роль")
	}
	return r, nil
}
