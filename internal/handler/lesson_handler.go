package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/service"
	"github.com/qualityeducation/eduplatform-api/pkg/response"
)

// LessonHandler exposes lesson CRUD for teachers and published lesson reads
// for everyone.
type LessonHandler struct {
	lessons *service.LessonService
}

func NewLessonHandler(lessons *service.LessonService) *LessonHandler {
	return &LessonHandler{lessons: lessons}
}

// Create godoc
// @Summary Create a draft lesson inside an owned module
// @Tags teacher
// @Accept json
// @Produce json
// @Param courseID path string true "course id"
// @Param moduleID path string true "module id"
// @Param request body models.CreateLessonRequest true "lesson payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/courses/{courseID}/modules/{moduleID}/lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.CreateLessonRequest
	if !bindJSON(c, &req) {
		return
	}

	lesson, err := h.lessons.Create(c.Request.Context(), principal.ID, c.Param("courseID"), c.Param("moduleID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "lesson created", lesson)
}

func (h *LessonHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.UpdateLessonRequest
	if !bindJSON(c, &req) {
		return
	}

	lesson, err := h.lessons.Update(c.Request.Context(), principal.ID,
		c.Param("courseID"), c.Param("moduleID"), c.Param("lessonID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "lesson updated", lesson)
}

func (h *LessonHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	err := h.lessons.Delete(c.Request.Context(), principal.ID,
		c.Param("courseID"), c.Param("moduleID"), c.Param("lessonID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Submit sends a draft or rejected lesson to the supervisor review queue.
func (h *LessonHandler) Submit(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	lesson, err := h.lessons.SubmitForReview(c.Request.Context(), principal.ID,
		c.Param("courseID"), c.Param("moduleID"), c.Param("lessonID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "lesson submitted for review", lesson)
}

// List is the teacher view of a module's lessons, drafts included.
func (h *LessonHandler) List(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	lessons, err := h.lessons.ListByModule(c.Request.Context(), principal.ID,
		c.Param("courseID"), c.Param("moduleID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "lessons", lessons)
}

// PublicList returns the published lessons of a module.
func (h *LessonHandler) PublicList(c *gin.Context) {
	lessons, err := h.lessons.PublicListByModule(c.Request.Context(), c.Param("moduleID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "lessons", lessons)
}

// PublicGet returns one published lesson and counts the view.
func (h *LessonHandler) PublicGet(c *gin.Context) {
	lesson, err := h.lessons.PublicGet(c.Request.Context(), c.Param("lessonID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "lesson", lesson)
}
