package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/store/backend/internal/application/identity"
)

// AuthHandler handles authentication endpoints for the admin console
// and the partner cabinet.
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest carries console or cabinet credentials. Partners log in
// with their email or phone.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued bearer token
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginAdmin authenticates the administrator console.
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	token, expiresAt, err := h.authService.LoginAdmin(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// LoginPartner authenticates a wholesale partner by email or phone.
func (h *AuthHandler) LoginPartner(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	token, expiresAt, err := h.authService.LoginPartner(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, TokenResponse{Token: token, ExpiresAt: expiresAt})
}
