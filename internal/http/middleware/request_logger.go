package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/edumatch/edumatch-backend/internal/interface/http/response"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

// RequestLogger пишет в лог метод, путь, статус и длительность каждого запроса.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if identity := IdentityFrom(c); identity != nil {
			fields["user_id"] = identity.ID
		}

		entry := logger.Log.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Info("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}

// Recovery перехватывает panic в хэндлере и отвечает общим сообщением.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(logrus.Fields{
					"panic":  r,
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
					"stack":  string(debug.Stack()),
				}).Error("panic recovered")

				if !c.Writer.Written() {
					response.Error(c, apperror.ErrInternal)
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
