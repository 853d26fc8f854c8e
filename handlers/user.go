package handlers

import (
	"errors"
	"net/http"
	"strings"

	"moim/config"
	"moim/middleware"
	"moim/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes the sign-in and account endpoints.
type UserHandler struct {
	Service user.UserService
}

// GoogleLoginURLHandler returns the Google consent URL to start sign-in.
func (h *UserHandler) GoogleLoginURLHandler(c *gin.Context) {
	force := config.AppConfig.GoogleForcePromptConsent || c.Query("force") == "true"
	c.JSON(http.StatusOK, gin.H{"auth_url": h.Service.GoogleAuthURL(force)})
}

// GoogleCallbackHandler completes the OAuth flow with the code Google
// redirected back with, and returns a session token.
func (h *UserHandler) GoogleCallbackHandler(c *gin.Context) {
	logger := getLogger(c)

	code := c.Query("code")
	if code == "" {
		var req struct {
			Code string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
			return
		}
		code = req.Code
	}

	resp, err := h.Service.CompleteGoogleSignIn(c.Request.Context(), code)
	if err != nil {
		logger.Error("Google sign-in failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign-in failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MeHandler returns the authenticated user's profile.
func (h *UserHandler) MeHandler(c *gin.Context) {
	logger := getLogger(c)

	userID := middleware.UserID(c)
	usr, err := h.Service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to fetch user", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}
	c.JSON(http.StatusOK, usr)
}

// LogoutHandler revokes the presented session token.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	logger := getLogger(c)

	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}
	if err := h.Service.RevokeAuthToken(c.Request.Context(), token); err != nil {
		logger.Error("Logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
