package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/service"
	"github.com/qualityeducation/eduplatform-api/pkg/response"
)

// TeacherHandler exposes teacher account and roster endpoints.
type TeacherHandler struct {
	teachers *service.TeacherService
}

func NewTeacherHandler(teachers *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// Register godoc
// @Summary Register a teacher account (pending supervisor review)
// @Tags teacher
// @Accept json
// @Produce json
// @Param request body models.RegisterTeacherRequest true "registration payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teacher/register [post]
func (h *TeacherHandler) Register(c *gin.Context) {
	var req models.RegisterTeacherRequest
	if !bindJSON(c, &req) {
		return
	}

	teacher, err := h.teachers.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "account created, awaiting review", teacher)
}

// Login godoc
// @Summary Teacher login
// @Tags teacher
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/login [post]
func (h *TeacherHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.teachers.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "login successful", result)
}

func (h *TeacherHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.teachers.ForgotPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "if the account exists, a reset link has been sent", nil)
}

func (h *TeacherHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.teachers.ResetPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "password updated", nil)
}

func (h *TeacherHandler) Profile(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	teacher, err := h.teachers.Profile(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "profile", teacher)
}

func (h *TeacherHandler) UpdateProfile(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.UpdateTeacherProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	teacher, err := h.teachers.UpdateProfile(c.Request.Context(), principal.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "profile updated", teacher)
}

// Students godoc
// @Summary Roster of students enrolled in the teacher's courses
// @Tags teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/students [get]
func (h *TeacherHandler) Students(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	roster, err := h.teachers.Roster(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "roster", roster)
}

func (h *TeacherHandler) StudentDetail(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	entry, enrollments, err := h.teachers.StudentDetail(c.Request.Context(), principal.ID, c.Param("studentID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "student detail", gin.H{
		"student":     entry.Student,
		"summary":     entry.Enrollments,
		"enrollments": enrollments,
	})
}

// ExportStudents streams the roster as a CSV download.
func (h *TeacherHandler) ExportStudents(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	data, err := h.teachers.ExportRoster(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("students-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
