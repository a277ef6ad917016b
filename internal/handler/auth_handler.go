package handler

import (
	"net/http"

	"github.com/aokimura/chatplaza/internal/service"
	"github.com/aokimura/chatplaza/internal/utils"
	"github.com/aokimura/chatplaza/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionCookieMaxAge = 7 * 24 * 60 * 60 // 7 days in seconds

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Nickname        string `json:"nickname"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Nickname        string `json:"nickname"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register creates an account. It does not log the new user in; the client
// is expected to continue to the login form.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Registration request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, err := h.authService.Register(service.RegisterInput{
		Email:           req.Email,
		Username:        req.Username,
		Nickname:        req.Nickname,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
			"nickname": user.Nickname,
		},
	})
}

// Login authenticates and sets the session cookie.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
			"nickname": user.Nickname,
		},
	})
}

// Logout clears the session cookie.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

// Me returns the authenticated user's profile.
// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	user, err := h.authService.GetProfile(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateMe edits the profile. When the password changes, the session is
// re-established under the new credential via a fresh cookie.
// PUT /api/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	user, token, err := h.authService.UpdateProfile(claims.UserID, service.UpdateProfileInput{
		Email:           req.Email,
		Username:        req.Username,
		Nickname:        req.Nickname,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if token != "" {
		h.setSessionCookie(c, token)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated",
		"user":    user,
	})
}

// DeleteMe deletes the account and ends the session.
// DELETE /api/me
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}

	if err := h.authService.DeleteAccount(claims.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	h.clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted",
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	isProduction := h.authService.IsProduction()

	c.SetSameSite(http.SameSiteLaxMode) // CSRF protection
	c.SetCookie(
		"token",
		token,
		sessionCookieMaxAge,
		"/",
		"",           // domain (empty = current domain)
		isProduction, // secure (HTTPS-only in production)
		true,         // httpOnly
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", "", -1, "/", "", h.authService.IsProduction(), true)
}

// mustClaims pulls the validated claims placed by AuthMiddleware; responds
// 401 and returns nil if they are missing.
func mustClaims(c *gin.Context) *utils.Claims {
	claimsValue, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil
	}
	claims, ok := claimsValue.(*utils.Claims)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid claims format"})
		return nil
	}
	return claims
}
