package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the static pages are served from another origin
	},
}

// HandleGlobalWebSocket subscribes to reloads of every dataset.
func (h *Hub) HandleGlobalWebSocket(c *gin.Context) {
	h.serve(c, "")
}

// HandleDatasetWebSocket subscribes to reloads of the :name dataset.
func (h *Hub) HandleDatasetWebSocket(c *gin.Context) {
	h.serve(c, c.Param("name"))
}

func (h *Hub) serve(c *gin.Context, dataset string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := h.Register(dataset, conn)
	defer h.Unregister(dataset, conn)

	hello := gin.H{"type": "connected", "dataset": dataset}
	if msg, err := json.Marshal(hello); err == nil {
		client.Send <- msg
	}
	zap.L().Debug("websocket connected", zap.String("dataset", dataset))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	zap.L().Debug("websocket disconnected", zap.String("dataset", dataset))
}
