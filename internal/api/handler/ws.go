package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dealshub/backend/internal/livefeed"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is public and read-only, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeDealsFeed upgrades the connection and subscribes it to the live
// deal feed.
func (h *Handler) ServeDealsFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := livefeed.NewClient(h.Hub, conn)
	h.Hub.RegisterCh <- client
	client.Run()
}
