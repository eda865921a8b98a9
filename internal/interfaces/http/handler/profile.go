package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/store/backend/internal/application/identity"
	"github.com/store/backend/internal/domain/identity"
)

// ProfileHandler handles partner registration, moderation and the
// partner cabinet.
type ProfileHandler struct {
	BaseHandler
	profileService *identityapp.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *identityapp.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// RegisterRequest is a partner registration submission
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Organization string `json:"organization" binding:"required"`
	Activity     string `json:"activity"`
}

// ProfileStatusRequest moves a profile through moderation
type ProfileStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePasswordRequest changes the password of an authenticated partner
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// EmailChangeRequest starts the email change flow
type EmailChangeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ConfirmTokenRequest confirms a mailed link by its token
type ConfirmTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// PasswordResetRequest starts the password reset flow
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ConfirmPasswordResetRequest applies a password reset
type ConfirmPasswordResetRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register stores a pending partner profile awaiting moderation.
func (h *ProfileHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.profileService.Register(c.Request.Context(), identityapp.RegisterInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Organization: req.Organization,
		Activity:     req.Activity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, profile)
}

// Me returns the authenticated partner's profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	profileID, err := getProfileID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), profileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// List returns a page of partner profiles for the admin console.
func (h *ProfileHandler) List(c *gin.Context) {
	req, err := listRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := identity.ProfileFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if raw, ok := c.GetQuery("status"); ok {
		status := identity.ProfileStatus(raw)
		filter.Status = &status
	}

	profiles, total, err := h.profileService.ListPartners(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, profiles, total, filter.Page, filter.PageSize)
}

// GetByID returns one partner profile for the admin console.
func (h *ProfileHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid profile ID")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateStatus moves a profile through moderation. Activation issues
// credentials and mails them to the partner.
func (h *ProfileHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid profile ID")
		return
	}

	var req ProfileStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.profileService.UpdateStatus(
		c.Request.Context(), id, identity.ProfileStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdatePassword changes the authenticated partner's password.
func (h *ProfileHandler) UpdatePassword(c *gin.Context) {
	profileID, err := getProfileID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err = h.profileService.UpdatePassword(
		c.Request.Context(), profileID, req.OldPassword, req.NewPassword)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RequestEmailChange starts the email change flow for the authenticated
// partner. The confirmation link is mailed to the new address.
func (h *ProfileHandler) RequestEmailChange(c *gin.Context) {
	profileID, err := getProfileID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req EmailChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.profileService.RequestEmailChange(c.Request.Context(), profileID, req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmEmailChange applies an email change by its mailed token.
func (h *ProfileHandler) ConfirmEmailChange(c *gin.Context) {
	var req ConfirmTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.profileService.ConfirmEmailChange(c.Request.Context(), req.Token)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// RequestPasswordReset starts the password reset flow for the profile
// registered under the given email.
func (h *ProfileHandler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.profileService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmPasswordReset applies a password reset by its mailed token.
func (h *ProfileHandler) ConfirmPasswordReset(c *gin.Context) {
	var req ConfirmPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err := h.profileService.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
