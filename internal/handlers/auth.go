package handlers

import (
	"github.com/collabtrack/collabtrack/internal/middleware"
	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type tokenResponse struct {
	Token           string      `json:"token"`
	ExpireAt        string      `json:"expire_at"`
	RefreshToken    string      `json:"refresh_token"`
	RefreshExpireAt string      `json:"refresh_expire_at"`
	User            interface{} `json:"user,omitempty"`
}

// Register handles account creation
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Register(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, tokenResponse{
		Token:           result.AccessToken,
		ExpireAt:        result.AccessExpireAt.Format("2006-01-02T15:04:05Z07:00"),
		RefreshToken:    result.RefreshToken,
		RefreshExpireAt: result.RefreshExpireAt.Format("2006-01-02T15:04:05Z07:00"),
		User:            result.User,
	})
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	response.Success(c, tokenResponse{
		Token:           result.AccessToken,
		ExpireAt:        result.AccessExpireAt.Format("2006-01-02T15:04:05Z07:00"),
		RefreshToken:    result.RefreshToken,
		RefreshExpireAt: result.RefreshExpireAt.Format("2006-01-02T15:04:05Z07:00"),
		User:            result.User,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates a refresh token and issues a new access token
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Refresh(req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	response.Success(c, tokenResponse{
		Token:           result.AccessToken,
		ExpireAt:        result.AccessExpireAt.Format("2006-01-02T15:04:05Z07:00"),
		RefreshToken:    result.RefreshToken,
		RefreshExpireAt: result.RefreshExpireAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the refresh token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.RevokeRefreshToken(req.RefreshToken); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "logged out successfully"})
}

// GetCurrentUser returns the current logged-in user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}

	response.Success(c, user)
}

// GetAuthConfig returns authentication configuration
// GET /api/auth/config
func (h *AuthHandler) GetAuthConfig(c *gin.Context) {
	response.Success(c, gin.H{
		"ldap_enabled": h.authService.IsLDAPEnabled(),
	})
}

// ChangePassword changes the current user's password
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.authService.ChangePassword(userID, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "password changed successfully"})
}
