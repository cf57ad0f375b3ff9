package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/service"
	"github.com/qualityeducation/eduplatform-api/pkg/response"
)

// ModuleHandler exposes module CRUD under a teacher's course.
type ModuleHandler struct {
	modules *service.ModuleService
}

func NewModuleHandler(modules *service.ModuleService) *ModuleHandler {
	return &ModuleHandler{modules: modules}
}

func (h *ModuleHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.CreateModuleRequest
	if !bindJSON(c, &req) {
		return
	}

	module, err := h.modules.Create(c.Request.Context(), principal.ID, c.Param("courseID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "module created", module)
}

func (h *ModuleHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.UpdateModuleRequest
	if !bindJSON(c, &req) {
		return
	}

	module, err := h.modules.Update(c.Request.Context(), principal.ID, c.Param("courseID"), c.Param("moduleID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "module updated", module)
}

func (h *ModuleHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.modules.Delete(c.Request.Context(), principal.ID, c.Param("courseID"), c.Param("moduleID")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Reorder rewrites the module order of a course. The request must name
// every module exactly once.
func (h *ModuleHandler) Reorder(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req models.ReorderModulesRequest
	if !bindJSON(c, &req) {
		return
	}

	modules, err := h.modules.Reorder(c.Request.Context(), principal.ID, c.Param("courseID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "modules reordered", modules)
}
