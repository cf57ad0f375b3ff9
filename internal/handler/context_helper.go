package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qualityeducation/eduplatform-api/internal/middleware"
	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
	"github.com/qualityeducation/eduplatform-api/pkg/response"
)

// mustPrincipal fetches the request identity or writes a 401 and reports
// failure. Route guards normally run first, this is the second line.
func mustPrincipal(c *gin.Context) (models.Principal, bool) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return models.Principal{}, false
	}
	return principal, true
}

// bindJSON decodes the body into dest, writing a 400 envelope on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.ValidationError(c, err.Error())
		return false
	}
	return true
}
