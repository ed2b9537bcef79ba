package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/classifieds-moderation/internal/http/middleware"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
	"github.com/ignatzorin/classifieds-moderation/internal/ws"
)

// WSHandler подключает клиентов к ленте событий модерации.
type WSHandler struct {
	hub      *ws.Hub
	tokens   middleware.TokenParser
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, tokens middleware.TokenParser, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     middleware.OriginAllowed(allowedOrigins),
		},
	}
}

// Admin обслуживает GET /api/admin/ws?token=... - все события модерации.
func (h *WSHandler) Admin(c *gin.Context) {
	h.serve(c, true)
}

// Owner обслуживает GET /api/ws?token=... - события по объявлениям владельца.
func (h *WSHandler) Owner(c *gin.Context) {
	h.serve(c, false)
}

// serve берёт токен из query: браузер не передаёт заголовки при handshake.
func (h *WSHandler) serve(c *gin.Context, adminOnly bool) {
	actor, err := middleware.ActorFromToken(h.tokens, c.Query("token"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if adminOnly && !actor.IsAdmin() {
		_ = c.Error(apperror.ErrForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		return
	}

	client := ws.NewClient(conn, h.hub, actor.UserID, adminOnly)
	if !h.hub.Register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
		_ = conn.Close()
		return
	}
	client.Run(c.Request.Context())
}
