package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/service"
	"github.com/qualityeducation/eduplatform-api/pkg/response"
)

// StudentHandler exposes the student learning surface: enrollments,
// progress events, stats and certificates.
type StudentHandler struct {
	enrollments *service.EnrollmentService
}

func NewStudentHandler(enrollments *service.EnrollmentService) *StudentHandler {
	return &StudentHandler{enrollments: enrollments}
}

// Enroll godoc
// @Summary Enroll in a published course
// @Tags student
// @Produce json
// @Param courseID path string true "course id"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /student/courses/{courseID}/enroll [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollments.Enroll(c.Request.Context(), principal.ID, c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "enrolled", enrollment)
}

func (h *StudentHandler) MyCourses(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	courses, err := h.enrollments.MyCourses(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "my courses", courses)
}

// CompleteLesson godoc
// @Summary Record a lesson completion
// @Tags student
// @Accept json
// @Produce json
// @Param courseID path string true "course id"
// @Param lessonID path string true "lesson id"
// @Param request body models.CompleteLessonRequest false "completion event"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /student/courses/{courseID}/lessons/{lessonID}/complete [post]
func (h *StudentHandler) CompleteLesson(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	// the event body is optional; an empty body means plain completion
	var req models.CompleteLessonRequest
	_ = c.ShouldBindJSON(&req)

	enrollment, err := h.enrollments.CompleteLesson(c.Request.Context(), principal.ID,
		c.Param("courseID"), c.Param("lessonID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "lesson completed", enrollment)
}

func (h *StudentHandler) SubmitQuiz(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.SubmitQuizRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.enrollments.SubmitQuiz(c.Request.Context(), principal.ID,
		c.Param("courseID"), c.Param("lessonID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "quiz graded", result)
}

func (h *StudentHandler) Stats(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	stats, err := h.enrollments.Stats(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "stats", stats)
}

// Certificate streams the completion certificate PDF.
func (h *StudentHandler) Certificate(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	pdf, err := h.enrollments.Certificate(c.Request.Context(), principal.ID, c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "certificate.pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
