// Package listing содержит сценарии жизненного цикла услуг и статей:
// создание, редактирование, модерацию, просмотр, вовлечённость и рейтинг популярности.
package listing

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/repository"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

// RankingCache кэш рассчитанных рейтингов популярности.
type RankingCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// ModerationNotifier сообщает автору о решении модератора.
type ModerationNotifier interface {
	ListingModerated(listing *entity.Listing)
}

// fail приводит ошибку к виду, который можно показать клиенту.
// Известные ошибки домена проходят как есть, остальные логируются и заменяются общим сообщением.
func fail(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperror.ErrCodeStoreUnavailable:
			logger.WithOp(op).WithError(err).Warn("store unavailable")
			return apperror.ErrStoreUnavailable
		case apperror.ErrCodeInternal, apperror.ErrCodeDatabaseError:
			logger.WithOp(op).WithError(err).Error("operation failed")
			return apperror.ErrInternal
		default:
			return appErr
		}
	}

	logger.WithOp(op).WithError(err).Error("unexpected error")
	return apperror.ErrInternal
}

func requireIdentity(identity *entity.Identity) error {
	if identity == nil {
		return apperror.ErrUnauthorized
	}
	return nil
}

// resolveViewer читает роль из профиля при каждом запросе.
// Без профиля пользователь считается обычным зрителем.
func resolveViewer(ctx context.Context, profiles repository.ProfileRepository, identity *entity.Identity) *entity.Viewer {
	if identity == nil {
		return nil
	}

	viewer := &entity.Viewer{ID: identity.ID, Role: valueobject.RoleViewer}
	profile, err := profiles.FindByID(ctx, identity.ID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			logger.WithOp("listing.resolveViewer").WithError(err).
				WithField("user_id", identity.ID).Warn("failed to load profile, falling back to viewer role")
		}
		return viewer
	}
	viewer.Role = profile.Role
	return viewer
}

// ensureProfile создаёт профиль вендора при первом обращении аккаунта.
func ensureProfile(ctx context.Context, profiles repository.ProfileRepository, identity *entity.Identity) (*entity.Profile, error) {
	profile, err := profiles.FindByID(ctx, identity.ID)
	if err == nil {
		return profile, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	profile = entity.NewProviderProfile(*identity)
	if err := profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"user_id": identity.ID,
		"role":    profile.Role,
	}).Info("profile provisioned")
	return profile, nil
}

// requireAdmin проверяет роль администратора по текущему профилю.
func requireAdmin(ctx context.Context, profiles repository.ProfileRepository, identity *entity.Identity) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	profile, err := profiles.FindByID(ctx, identity.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.ErrAdminOnly
		}
		return err
	}
	if !profile.IsAdmin() {
		return apperror.ErrAdminOnly
	}
	return nil
}

// PopularCachePrefix префикс ключей рейтинга одного вида материалов.
func PopularCachePrefix(kind valueobject.ListingKind) string {
	return "popular:" + string(kind) + ":"
}

func invalidatePopular(ctx context.Context, cache RankingCache, kind valueobject.ListingKind) {
	if cache == nil {
		return
	}
	if err := cache.DeleteByPrefix(ctx, PopularCachePrefix(kind)); err != nil {
		logger.WithOp("listing.invalidatePopular").WithError(err).Warn("failed to invalidate popular cache")
	}
}
