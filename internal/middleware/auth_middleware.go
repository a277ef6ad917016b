package middleware

import (
	"net/http"
	"strings"

	"github.com/aokimura/chatplaza/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the session token from the token cookie or the
// Authorization header and stores the claims in the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("is_staff", claims.IsStaff)
		c.Set("claims", claims)

		c.Next()
	}
}

// extractToken prefers the session cookie, falling back to a Bearer header
// for non-browser clients.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return tokenString
}

// StaffMiddleware gates operator console routes. Requires AuthMiddleware
// to have run first.
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStaff, exists := c.Get("is_staff")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			c.Abort()
			return
		}

		if isStaff != true {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Staff access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
