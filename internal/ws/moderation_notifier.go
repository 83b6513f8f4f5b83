package ws

import (
	"time"

	"github.com/google/uuid"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/logger"
)

const (
	EventListingApproved = "listing.approved"
	EventListingRejected = "listing.rejected"
)

// ModerationPayload данные события о решении модератора.
type ModerationPayload struct {
	ListingID       uuid.UUID                 `json:"listing_id"`
	Kind            valueobject.ListingKind   `json:"kind"`
	Title           string                    `json:"title"`
	Status          valueobject.ListingStatus `json:"status"`
	RejectionReason *string                   `json:"rejection_reason,omitempty"`
	DecidedAt       time.Time                 `json:"decided_at"`
}

// ModerationNotifier отправляет автору решение модератора по его материалу.
type ModerationNotifier struct {
	hub *Hub
}

func NewModerationNotifier(hub *Hub) *ModerationNotifier {
	return &ModerationNotifier{hub: hub}
}

func (n *ModerationNotifier) ListingModerated(listing *entity.Listing) {
	event := EventListingApproved
	if listing.Status == valueobject.ListingStatusRejected {
		event = EventListingRejected
	}

	payload := ModerationPayload{
		ListingID:       listing.ID,
		Kind:            listing.Kind,
		Title:           listing.Title,
		Status:          listing.Status,
		RejectionReason: listing.RejectionReason,
		DecidedAt:       listing.UpdatedAt,
	}

	if err := n.hub.BroadcastToUser(listing.ProviderID, event, payload); err != nil {
		logger.WithOp("ws.ListingModerated").WithError(err).
			WithField("listing_id", listing.ID).Warn("failed to notify provider")
	}
}
