// Package policy решает, кому виден материал.
package policy

import "github.com/edumatch/edumatch-backend/internal/domain/entity"

// CanView сообщает, может ли viewer видеть материал. nil viewer это аноним.
// Прошедший модерацию материал виден всем, кроме анонимов, если он только для участников.
// Остальные видны только автору и администратору.
func CanView(listing *entity.Listing, viewer *entity.Viewer) bool {
	if listing == nil {
		return false
	}

	if listing.IsPubliclyListed() {
		if listing.IsMemberOnly && viewer == nil {
			return false
		}
		return true
	}

	if viewer == nil {
		return false
	}
	return listing.IsOwnedBy(viewer.ID) || viewer.IsAdmin()
}
