package handler

import (
	"net/http"

	"github.com/aokimura/chatplaza/internal/service"
	"github.com/aokimura/chatplaza/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler backs the operator console: read-only list/search views
// over users, chats and likes.
type AdminHandler struct {
	authService *service.AuthService
	chatService *service.ChatService
}

func NewAdminHandler(authService *service.AuthService, chatService *service.ChatService) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		chatService: chatService,
	}
}

// ListUsers returns all users, including deleted ones, optionally filtered
// by email or username.
// GET /api/admin/users?q=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	query := c.Query("q")

	logger.Log.Info("Staff listing users",
		zap.String("staff_id", c.GetString("user_id")),
		zap.String("query", query),
	)

	users, err := h.authService.SearchUsers(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// ListChats returns chats, optionally filtered by message text.
// GET /api/admin/chats?q=
func (h *AdminHandler) ListChats(c *gin.Context) {
	query := c.Query("q")

	chats, err := h.chatService.SearchChats(query)
	if err != nil {
		logger.Log.Error("Failed to search chats",
			zap.String("query", query),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch chats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chats": chats,
		"count": len(chats),
	})
}

// ListLikes returns all likes, newest first.
// GET /api/admin/likes
func (h *AdminHandler) ListLikes(c *gin.Context) {
	likes, err := h.chatService.ListLikes()
	if err != nil {
		logger.Log.Error("Failed to list likes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch likes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"likes": likes,
		"count": len(likes),
	})
}
