package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/service"
	"github.com/qualityeducation/eduplatform-api/pkg/response"
)

// CourseHandler exposes the public catalog and the teacher course CRUD.
type CourseHandler struct {
	courses *service.CourseService
	modules *service.ModuleService
}

func NewCourseHandler(courses *service.CourseService, modules *service.ModuleService) *CourseHandler {
	return &CourseHandler{courses: courses, modules: modules}
}

// Catalog godoc
// @Summary Browse published courses
// @Tags courses
// @Produce json
// @Param term query string false "search term"
// @Param category query string false "category filter"
// @Param level query string false "level filter"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) Catalog(c *gin.Context) {
	filter := models.CourseFilter{
		Term:     c.Query("term"),
		Category: c.Query("category"),
		Level:    c.Query("level"),
	}

	courses, err := h.courses.Catalog(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "courses", courses)
}

// Get returns one published course with its modules.
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.GetPublic(c.Request.Context(), c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	modules, err := h.modules.List(c.Request.Context(), course.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "course", gin.H{"course": course, "modules": modules})
}

// Create godoc
// @Summary Create an unpublished course
// @Tags teacher
// @Accept json
// @Produce json
// @Param request body models.CreateCourseRequest true "course payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.courses.Create(c.Request.Context(), principal.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "course created", course)
}

func (h *CourseHandler) ListMine(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	courses, err := h.courses.ListMine(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "courses", courses)
}

func (h *CourseHandler) GetMine(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	course, err := h.courses.GetOwned(c.Request.Context(), principal.ID, c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	modules, err := h.modules.List(c.Request.Context(), course.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "course", gin.H{"course": course, "modules": modules})
}

func (h *CourseHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.courses.Update(c.Request.Context(), principal.ID, c.Param("courseID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "course updated", course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.courses.Delete(c.Request.Context(), principal.ID, c.Param("courseID")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func (h *CourseHandler) Publish(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	course, err := h.courses.Publish(c.Request.Context(), principal.ID, c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "course published", course)
}

func (h *CourseHandler) Unpublish(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	course, err := h.courses.Unpublish(c.Request.Context(), principal.ID, c.Param("courseID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "course unpublished", course)
}
