package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/edumatch/edumatch-backend/internal/domain/content"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

// MaxRejectionReasonLength максимальная длина причины отклонения в символах.
const MaxRejectionReasonLength = 500

// Listing общий жизненный цикл услуги вендора и статьи.
type Listing struct {
	ID           uuid.UUID
	Kind         valueobject.ListingKind
	ProviderID   uuid.UUID
	Title        string
	Category     string
	Blocks       content.Document
	Content      string
	ThumbnailURL *string
	YoutubeURL   *string
	Images       []string

	FavoriteCount int
	RequestCount  int
	ViewCount     int

	Status          valueobject.ListingStatus
	IsPublished     bool
	IsMemberOnly    bool
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewListing(kind valueobject.ListingKind, providerID uuid.UUID, title, category string, doc content.Document, thumbnailURL *string, mode valueobject.PublishMode) (*Listing, error) {
	if !kind.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный вид материала")
	}
	if strings.TrimSpace(title) == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название обязательно")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l := &Listing{
		ID:           uuid.New(),
		Kind:         kind,
		ProviderID:   providerID,
		Title:        strings.TrimSpace(title),
		Category:     strings.TrimSpace(category),
		ThumbnailURL: thumbnailURL,
		Status:       valueobject.ListingStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	l.SetDocument(doc)

	if err := l.ApplyPublishMode(mode); err != nil {
		return nil, err
	}
	return l, nil
}

// SetDocument заменяет блоки и заново выводит текст, изображения и ссылку на видео.
func (l *Listing) SetDocument(doc content.Document) {
	if doc == nil {
		doc = content.Document{}
	}
	l.Blocks = doc
	l.Content = doc.Render()
	l.Images = doc.Images()
	l.YoutubeURL = doc.VideoURL()
}

// ApplyPublishMode возвращает материал на путь черновик/модерация.
// Результаты прошлой модерации сбрасываются.
func (l *Listing) ApplyPublishMode(mode valueobject.PublishMode) error {
	if !mode.IsValid() {
		return apperror.New(apperror.ErrCodeValidation, "некорректный режим публикации")
	}

	target := valueobject.ListingStatusPending
	if mode == valueobject.PublishModeDraft {
		target = valueobject.ListingStatusDraft
	}
	if !l.Status.CanTransitionTo(target) {
		return apperror.ErrInvalidTransition
	}

	now := time.Now().UTC()
	l.ApprovedAt = nil
	l.RejectedAt = nil
	l.RejectionReason = nil
	l.IsPublished = false

	if target == valueobject.ListingStatusDraft {
		l.Status = valueobject.ListingStatusDraft
		l.SubmittedAt = nil
	} else {
		l.Status = valueobject.ListingStatusPending
		l.SubmittedAt = &now
		l.IsMemberOnly = mode == valueobject.PublishModeMember
	}
	l.UpdatedAt = now
	return nil
}

// CurrentPublishMode режим, которым материал был отправлен на модерацию.
// Для черновика возвращается draft.
func (l *Listing) CurrentPublishMode() valueobject.PublishMode {
	switch {
	case l.Status == valueobject.ListingStatusDraft:
		return valueobject.PublishModeDraft
	case l.IsMemberOnly:
		return valueobject.PublishModeMember
	default:
		return valueobject.PublishModePublic
	}
}

func (l *Listing) Approve() error {
	if !l.Status.CanTransitionTo(valueobject.ListingStatusApproved) {
		return apperror.New(apperror.ErrCodeBadRequest, "черновик нельзя одобрить до отправки на модерацию")
	}
	now := time.Now().UTC()
	l.Status = valueobject.ListingStatusApproved
	l.IsPublished = true
	l.ApprovedAt = &now
	l.RejectedAt = nil
	l.RejectionReason = nil
	l.UpdatedAt = now
	return nil
}

// Reject отклоняет материал. Причина обрезается до MaxRejectionReasonLength символов.
func (l *Listing) Reject(reason *string) error {
	if !l.Status.CanTransitionTo(valueobject.ListingStatusRejected) {
		return apperror.New(apperror.ErrCodeBadRequest, "черновик нельзя отклонить до отправки на модерацию")
	}
	now := time.Now().UTC()
	l.Status = valueobject.ListingStatusRejected
	l.IsPublished = false
	l.RejectedAt = &now
	l.ApprovedAt = nil
	l.RejectionReason = truncateReason(reason)
	l.UpdatedAt = now
	return nil
}

func truncateReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	r := *reason
	if utf8.RuneCountInString(r) > MaxRejectionReasonLength {
		r = string([]rune(r)[:MaxRejectionReasonLength])
	}
	return &r
}

func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.ProviderID == userID
}

// IsPubliclyListed сообщает, прошёл ли материал модерацию.
func (l *Listing) IsPubliclyListed() bool {
	return l.Status == valueobject.ListingStatusApproved || l.IsPublished
}

// EngagementScore сумма избранного и заявок. У статей заявок нет.
func (l *Listing) EngagementScore() int {
	if !l.Kind.HasRequests() {
		return l.FavoriteCount
	}
	return l.FavoriteCount + l.RequestCount
}
