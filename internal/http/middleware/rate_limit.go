package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/edumatch/edumatch-backend/internal/interface/http/response"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

// RateLimitMiddleware ограничивает число запросов. Авторизованные запросы считаются
// по аккаунту, анонимные по IP.
func RateLimitMiddleware(name string, limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 30
	}
	if period <= 0 {
		period = time.Minute
	}

	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: period,
		Limit:  limit,
	})

	return func(c *gin.Context) {
		key := name + ":ip:" + c.ClientIP()
		if identity := IdentityFrom(c); identity != nil {
			key = name + ":user:" + identity.ID.String()
		}

		lctx, err := instance.Get(c, key)
		if err != nil {
			// Отказ лимитера не блокирует запрос
			logger.WithOp("middleware.RateLimit").WithError(err).Error("rate limiter failure")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			response.Error(c, apperror.ErrRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
