package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/service"
	"github.com/qualityeducation/eduplatform-api/pkg/response"
)

// AuthHandler exposes student account endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// @Summary Register a student account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterStudentRequest true "registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "account created", student)
}

// Login godoc
// @Summary Student login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "login successful", result)
}

// ForgotPassword godoc
// @Summary Request a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "account email"
// @Success 200 {object} response.Envelope
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "if the account exists, a reset link has been sent", nil)
}

// ResetPassword godoc
// @Summary Redeem a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "reset payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "password updated", nil)
}

// Me returns the authenticated student's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	student, err := h.auth.Profile(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "profile", student)
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.UpdateStudentProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.auth.UpdateProfile(c.Request.Context(), principal.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "profile updated", student)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), principal.ID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "password changed", nil)
}
