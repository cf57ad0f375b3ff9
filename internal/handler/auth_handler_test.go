package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/service"
	"github.com/qualityeducation/eduplatform-api/internal/token"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
	"github.com/qualityeducation/eduplatform-api/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func notFoundErr() error { return apperrors.ErrNotFound }

type stubStudentStore struct {
	byEmail map[string]*models.Student
}

func (s *stubStudentStore) Create(ctx context.Context, st *models.Student) error { return nil }

func (s *stubStudentStore) GetByID(ctx context.Context, id string) (*models.Student, error) {
	for _, st := range s.byEmail {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, notFoundErr()
}

func (s *stubStudentStore) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	if st, ok := s.byEmail[email]; ok {
		return st, nil
	}
	return nil, notFoundErr()
}

func (s *stubStudentStore) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	return nil, notFoundErr()
}

func (s *stubStudentStore) GetByResetCode(ctx context.Context, code string) (*models.Student, error) {
	return nil, notFoundErr()
}

func (s *stubStudentStore) Update(ctx context.Context, st *models.Student) error { return nil }

func (s *stubStudentStore) UpdatePassword(ctx context.Context, id, hash string) error { return nil }

func (s *stubStudentStore) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	return nil
}

func (s *stubStudentStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return nil
}

func newAuthRouter(t *testing.T, store *stubStudentStore) *gin.Engine {
	t.Helper()

	codec, err := token.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	h := NewAuthHandler(service.NewAuthService(store, codec, service.NopNotifier{}, nil))

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &stubStudentStore{byEmail: map[string]*models.Student{
		"ada@example.com": {
			ID:        "student-1",
			Username:  "ada",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Password:  string(hash),
			Status:    models.StatusActive,
		},
	}}

	r := newAuthRouter(t, store)
	rec := postJSON(t, r, "/api/auth/login", models.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
}

func TestLogin_UnknownEmailReturnsEnvelope(t *testing.T) {
	r := newAuthRouter(t, &stubStudentStore{byEmail: map[string]*models.Student{}})

	rec := postJSON(t, r, "/api/auth/login", models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}

func TestLogin_MalformedBodyReturns400(t *testing.T) {
	r := newAuthRouter(t, &stubStudentStore{byEmail: map[string]*models.Student{}})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
