package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/interface/http/response"
	"github.com/edumatch/edumatch-backend/internal/logger"
)

// ContextIdentityKey ключ аккаунта в gin.Context.
const ContextIdentityKey = "identity"

// TokenVerifier проверяет токен провайдера идентификации.
type TokenVerifier interface {
	Verify(token string) (*entity.Identity, error)
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// OptionalAuth кладёт аккаунт в контекст, если передан валидный токен.
// Без токена или с просроченным токеном запрос обслуживается как анонимный.
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			identity, err := verifier.Verify(raw)
			if err != nil {
				logger.Log.WithError(err).Debug("optional auth: token rejected")
			} else {
				c.Set(ContextIdentityKey, identity)
			}
		}
		c.Next()
	}
}

// RequireAuth пропускает только запросы с валидным токеном.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			response.Unauthorized(c, "требуется авторизация")
			c.Abort()
			return
		}

		identity, err := verifier.Verify(raw)
		if err != nil {
			response.Unauthorized(c, "токен невалиден")
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// IdentityFrom возвращает аккаунт из контекста или nil для анонима.
func IdentityFrom(c *gin.Context) *entity.Identity {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, _ := value.(*entity.Identity)
	return identity
}
