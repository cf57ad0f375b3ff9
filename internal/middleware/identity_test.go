package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, codec *token.Codec) *gin.Engine {
	t.Helper()

	r := gin.New()
	r.Use(Identity(codec, nil))

	r.GET("/whoami", func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": string(p.Role)})
	})

	r.GET("/teacher-only", RequireRole(models.RoleTeacher), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r
}

func issue(t *testing.T, codec *token.Codec, principalType string) string {
	t.Helper()

	signed, err := codec.Issue(token.Claims{
		Subject:       "user@example.com",
		PrincipalID:   "u-1",
		PrincipalType: principalType,
	})
	require.NoError(t, err)
	return signed
}

func TestIdentity_NoHeaderPassesThrough(t *testing.T) {
	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	r := newRouter(t, codec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestIdentity_MalformedTokenPassesThrough(t *testing.T) {
	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	r := newRouter(t, codec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	// a bad token never turns a public route into an error
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestIdentity_ValidTokenInstallsPrincipal(t *testing.T) {
	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	r := newRouter(t, codec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, codec, "TEACHER"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u-1"`)
	assert.Contains(t, w.Body.String(), `"role":"teacher"`)
}

func TestIdentity_UnknownPrincipalTypeDefaultsToStudent(t *testing.T) {
	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	r := newRouter(t, codec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, codec, "weird"))
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"role":"student"`)
}

func TestRequireRole_AnonymousGets401(t *testing.T) {
	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	r := newRouter(t, codec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teacher-only", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_ExpiredTokenGets401Not500(t *testing.T) {
	short, err := token.NewCodec(testSecret, time.Millisecond)
	require.NoError(t, err)
	r := newRouter(t, short)

	signed := issue(t, short, "TEACHER")
	time.Sleep(10 * time.Millisecond)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teacher-only", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_WrongRoleGets403(t *testing.T) {
	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	r := newRouter(t, codec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teacher-only", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, codec, "STUDENT"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_MatchingRolePasses(t *testing.T) {
	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	r := newRouter(t, codec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teacher-only", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, codec, "teacher"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
