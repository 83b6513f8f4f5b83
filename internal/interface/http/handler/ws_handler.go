package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/edumatch/edumatch-backend/internal/http/middleware"
	"github.com/edumatch/edumatch-backend/internal/interface/http/response"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/ws"
)

// WSHandler открывает WebSocket для уведомлений о модерации.
type WSHandler struct {
	hub      *ws.Hub
	verifier middleware.TokenVerifier
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, verifier middleware.TokenVerifier, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &WSHandler{
		hub:      hub,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
// Браузер не умеет передавать заголовок Authorization при апгрейде, поэтому токен в query.
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		rawToken = c.GetHeader("Authorization")
	}
	if rawToken == "" {
		response.Unauthorized(c, "токен обязателен")
		return
	}

	identity, err := h.verifier.Verify(rawToken)
	if err != nil {
		response.Unauthorized(c, "токен невалиден")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		logger.WithOp("ws.Handle").WithError(err).Debug("upgrade failed")
		return
	}

	client := ws.NewClient(conn, h.hub, identity.ID)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
