package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/service"
	"github.com/qualityeducation/eduplatform-api/pkg/response"
)

// SupervisorHandler exposes supervisor account, review and stats endpoints.
type SupervisorHandler struct {
	supervisors *service.SupervisorService
}

func NewSupervisorHandler(supervisors *service.SupervisorService) *SupervisorHandler {
	return &SupervisorHandler{supervisors: supervisors}
}

func (h *SupervisorHandler) Register(c *gin.Context) {
	var req models.RegisterSupervisorRequest
	if !bindJSON(c, &req) {
		return
	}

	supervisor, err := h.supervisors.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "account created", supervisor)
}

func (h *SupervisorHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.supervisors.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "login successful", result)
}

func (h *SupervisorHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.supervisors.ForgotPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "if the account exists, a reset link has been sent", nil)
}

func (h *SupervisorHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.supervisors.ResetPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "password updated", nil)
}

func (h *SupervisorHandler) Profile(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	supervisor, err := h.supervisors.Profile(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "profile", supervisor)
}

func (h *SupervisorHandler) UpdateProfile(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.UpdateSupervisorProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	supervisor, err := h.supervisors.UpdateProfile(c.Request.Context(), principal.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "profile updated", supervisor)
}

// Stats godoc
// @Summary Platform-wide statistics
// @Tags supervisor
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /supervisor/stats [get]
func (h *SupervisorHandler) Stats(c *gin.Context) {
	stats, err := h.supervisors.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "platform stats", stats)
}

// Teachers lists teacher accounts, optionally filtered by ?status=.
func (h *SupervisorHandler) Teachers(c *gin.Context) {
	teachers, err := h.supervisors.ListTeachers(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "teachers", teachers)
}

func (h *SupervisorHandler) ApproveTeacher(c *gin.Context) {
	teacher, err := h.supervisors.ApproveTeacher(c.Request.Context(), c.Param("teacherID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "teacher approved", teacher)
}

func (h *SupervisorHandler) RejectTeacher(c *gin.Context) {
	// note is optional
	var req models.ReviewLessonRequest
	_ = c.ShouldBindJSON(&req)

	teacher, err := h.supervisors.RejectTeacher(c.Request.Context(), c.Param("teacherID"), req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "teacher rejected", teacher)
}

// PendingLessons is the lesson review queue.
func (h *SupervisorHandler) PendingLessons(c *gin.Context) {
	lessons, err := h.supervisors.PendingLessons(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "lessons awaiting review", lessons)
}

func (h *SupervisorHandler) ApproveLesson(c *gin.Context) {
	var req models.ReviewLessonRequest
	_ = c.ShouldBindJSON(&req)

	lesson, err := h.supervisors.ApproveLesson(c.Request.Context(), c.Param("lessonID"), req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "lesson published", lesson)
}

func (h *SupervisorHandler) RejectLesson(c *gin.Context) {
	var req models.ReviewLessonRequest
	_ = c.ShouldBindJSON(&req)

	lesson, err := h.supervisors.RejectLesson(c.Request.Context(), c.Param("lessonID"), req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "lesson rejected", lesson)
}
