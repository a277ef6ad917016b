package handler

import (
	"net/http"
	"time"

	"github.com/aokimura/chatplaza/internal/broker"
	"github.com/aokimura/chatplaza/internal/service"
	"github.com/aokimura/chatplaza/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second // Time allowed to write a message to the peer
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // add origin check in production
	},
}

// WebSocketHandler streams new chats of a room to connected clients. Posts
// still go through the normal HTTP endpoint; the socket is read-only.
type WebSocketHandler struct {
	roomService *service.RoomService
	broker      broker.ChatBroker
}

func NewWebSocketHandler(roomService *service.RoomService, chatBroker broker.ChatBroker) *WebSocketHandler {
	return &WebSocketHandler{
		roomService: roomService,
		broker:      chatBroker,
	}
}

// HandleRoomFeed upgrades the connection and relays the room's broker
// channel until the client goes away.
// GET /api/rooms/:id/ws
func (h *WebSocketHandler) HandleRoomFeed(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	roomID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.roomService.GetRoom(roomID); err != nil {
		handleServiceError(c, err)
		return
	}

	sub, err := h.broker.Subscribe(roomID)
	if err != nil {
		logger.Log.Error("Failed to subscribe to room feed",
			zap.Uint("room_id", roomID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open room feed"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		sub.Close()
		logger.Log.Warn("Failed to upgrade connection",
			zap.Uint("room_id", roomID),
			zap.Error(err),
		)
		return
	}

	logger.Log.Info("Room feed opened",
		zap.Uint("room_id", roomID),
		zap.String("user_id", claims.UserID.String()),
	)

	go h.writePump(conn, sub)
	h.readPump(conn)

	sub.Close()
	conn.Close()

	logger.Log.Info("Room feed closed",
		zap.Uint("room_id", roomID),
		zap.String("user_id", claims.UserID.String()),
	)
}

// writePump relays broker events and keeps the connection alive with pings.
func (h *WebSocketHandler) writePump(conn *websocket.Conn, sub broker.Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs are processed, and returns when
// the peer disconnects.
func (h *WebSocketHandler) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
