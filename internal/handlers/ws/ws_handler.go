// internal/handlers/ws/ws_handler.go
package ws

import (
	"net/http"

	"kilofit-service/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from another origin; auth happens via the
	// token middleware before the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub    *notify.Hub
	logger *zap.Logger
}

func NewWSHandler(hub *notify.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Connect upgrades the request and attaches the dashboard to the toast feed.
func (h *WSHandler) Connect(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	notify.NewConn(h.hub, ws, h.logger).Start()
}
