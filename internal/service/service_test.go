package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

func expiredAt() sql.NullTime {
	return sql.NullTime{Time: time.Now().Add(-time.Minute), Valid: true}
}

func validUntil(d time.Duration) sql.NullTime {
	return sql.NullTime{Time: time.Now().Add(d), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestGateAccountStatus(t *testing.T) {
	assert.NoError(t, gateAccountStatus(models.StatusActive))
	assert.NoError(t, gateAccountStatus(models.StatusApproved))

	pending := gateAccountStatus(models.StatusPending)
	assert.True(t, apperrors.HasCode(pending, apperrors.ErrAccountNotActive.Code))
	assert.Contains(t, pending.Error(), "under review")

	rejected := gateAccountStatus(models.StatusRejected)
	assert.Contains(t, rejected.Error(), "rejected")

	suspended := gateAccountStatus(models.StatusSuspended)
	assert.Contains(t, suspended.Error(), "suspended")
}

func TestGradeQuiz(t *testing.T) {
	quiz := models.Quiz{Questions: []models.QuizQuestion{
		{Prompt: "q1", Options: []string{"a", "b"}, AnswerIndex: 0, Points: 2},
		{Prompt: "q2", Options: []string{"a", "b"}, AnswerIndex: 1, Points: 1},
		{Prompt: "q3", Options: []string{"a", "b"}, AnswerIndex: 1},
	}}

	score, correct := gradeQuiz(quiz, []int{0, 1, 1})
	assert.Equal(t, 100, score)
	assert.Equal(t, 3, correct)

	// missing the two-point question drops half the points
	score, correct = gradeQuiz(quiz, []int{1, 1, 1})
	assert.Equal(t, 50, score)
	assert.Equal(t, 2, correct)

	score, correct = gradeQuiz(quiz, []int{1, 0, 0})
	assert.Equal(t, 0, score)
	assert.Equal(t, 0, correct)
}
