package handler

import (
	"net/http"

	"github.com/aokimura/chatplaza/internal/service"
	"github.com/gin-gonic/gin"
)

// handleServiceError translates a service failure into the uniform error
// responses: field-level validation errors re-render as an errors map,
// everything else becomes a single error message. Returns the status used.
func handleServiceError(c *gin.Context, err error) int {
	if fieldErrs, ok := service.AsFieldErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return http.StatusBadRequest
	}

	switch err {
	case service.ErrInvalidCredentials:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return http.StatusUnauthorized
	case service.ErrChatNotFound, service.ErrRoomNotFound, service.ErrUserNotFound:
		// Ownership failures deliberately surface as not-found
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return http.StatusNotFound
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return http.StatusInternalServerError
	}
}
