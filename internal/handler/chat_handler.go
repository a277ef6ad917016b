package handler

import (
	"net/http"
	"strconv"

	"github.com/aokimura/chatplaza/internal/service"
	"github.com/aokimura/chatplaza/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

type PostChatRequest struct {
	Message string `json:"message"`
}

type EditChatRequest struct {
	Message string `json:"message"`
}

// ListByRoom returns a room's chats in ascending creation-time order with
// like counts resolved for the requesting user.
// GET /api/rooms/:id/chats
func (h *ChatHandler) ListByRoom(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	roomID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	chats, err := h.chatService.ListRoomChats(roomID, claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chats": chats,
		"count": len(chats),
	})
}

// Post adds a message to the room on behalf of the authenticated user.
// POST /api/rooms/:id/chats
func (h *ChatHandler) Post(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	roomID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req PostChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	chat, err := h.chatService.PostChat(claims.UserID, claims.Nickname, roomID, req.Message)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Chat posted",
		"chat":    chat,
	})
}

// Get fetches one of the user's own chats, used to show the delete
// confirmation. Non-authors get 404.
// GET /api/chats/:id
func (h *ChatHandler) Get(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	chatID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	chat, err := h.chatService.GetChatForUser(chatID, claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat": chat})
}

// Edit updates one of the user's own chats. Non-authors get 404.
// PUT /api/chats/:id
func (h *ChatHandler) Edit(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	chatID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req EditChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	chat, err := h.chatService.EditChat(chatID, claims.UserID, req.Message)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Chat updated",
		"chat":    chat,
	})
}

// Delete removes one of the user's own chats. Non-authors get 404.
// DELETE /api/chats/:id
func (h *ChatHandler) Delete(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	chatID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.chatService.DeleteChat(chatID, claims.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	logger.Log.Info("Chat deleted via API",
		zap.Uint("chat_id", chatID),
		zap.String("user_id", claims.UserID.String()),
	)

	c.JSON(http.StatusOK, gin.H{
		"message": "Chat deleted",
	})
}

// ToggleLike flips the user's like on a chat. Only POST is accepted; any
// other method is a generic client error.
// Any /api/chats/:id/like
func (h *ChatHandler) ToggleLike(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	claims := mustClaims(c)
	if claims == nil {
		return
	}

	chatID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	liked, likesCount, err := h.chatService.ToggleLike(claims.UserID, chatID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked":       liked,
		"likes_count": likesCount,
	})
}

// parseUintParam parses a numeric path parameter, responding 400 on junk.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(value), true
}
