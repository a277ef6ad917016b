package handler

import (
	"net/http"

	"github.com/aokimura/chatplaza/internal/service"
	"github.com/aokimura/chatplaza/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	ChatRoom string `json:"chat_room"`
}

// List returns every chat room.
// GET /api/rooms
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.roomService.ListRooms()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// Create makes a new room. The name must be digits-only and unique.
// POST /api/rooms
func (h *RoomHandler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	logger.Log.Info("Room creation attempt",
		zap.String("name", req.Name),
		zap.String("ip", c.ClientIP()),
	)

	room, err := h.roomService.CreateRoom(req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Chat room created",
		"room":    room,
	})
}

// Join resolves a room by name so the client can enter it. Unknown names
// come back as a field error on chat_room.
// POST /api/rooms/join
func (h *RoomHandler) Join(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	room, err := h.roomService.JoinRoom(req.ChatRoom)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room})
}
