package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
	"github.com/qualityeducation/eduplatform-api/pkg/response"
)

// RequireRole guards a route group. Anonymous requests get 401, requests
// with a principal of the wrong role get 403.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, apperrors.ErrForbidden)
		c.Abort()
	}
}
