// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"lmis-mock-server/internal/api/middleware"
	"lmis-mock-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Maximum time to wait for the next client message or ping.
const pongWait = 60 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler streams every logged event to connected subscribers.
type WebSocketHandler struct {
	Hub    *socket.Hub
	Logger *zap.Logger
}

func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	subscriberID := uuid.New().String()
	if identity, ok := middleware.IdentityFrom(c); ok {
		subscriberID = identity.Username + "-" + subscriberID[:8]
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	h.Hub.Register(subscriberID, conn)
	defer func() {
		h.Hub.Unregister(subscriberID)
		conn.Close()
	}()

	// A client ping extends the deadline; gorilla answers with a pong.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	// The feed is one-way; reads only detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Info("websocket closed unexpectedly", zap.String("subscriber", subscriberID), zap.Error(err))
			}
			return
		}
	}
}
