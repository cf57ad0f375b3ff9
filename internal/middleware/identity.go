package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/token"
)

const principalKey = "principal"

const bearerPrefix = "Bearer "

// Identity resolves the request principal from a bearer token. The
// middleware is fail-open: requests without a usable token continue
// anonymously and route-level guards decide what needs authentication. A
// principal installed by an earlier middleware is never overwritten.
func Identity(codec *token.Codec, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}

		claims, err := codec.Decode(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			logger.Debug("bearer token rejected", zap.Error(err))
			c.Next()
			return
		}

		if _, exists := c.Get(principalKey); !exists {
			c.Set(principalKey, models.Principal{
				ID:        claims.PrincipalID,
				Email:     claims.Subject,
				Role:      models.RoleFromPrincipalType(claims.PrincipalType),
				FirstName: claims.FirstName,
				LastName:  claims.LastName,
			})
		}

		c.Next()
	}
}

// PrincipalFrom returns the resolved request identity, if any.
func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}

	p, ok := v.(models.Principal)
	return p, ok
}
