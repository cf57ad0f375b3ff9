package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

// Envelope is the uniform body shape for every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the machine-readable part of a failure.
type ErrorBody struct {
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// JSON writes a success envelope with the given status code.
func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data)
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error normalises err into the failure envelope, using the typed error's
// status and code when available.
func Error(c *gin.Context, err error) {
	e := apperrors.FromError(err)
	c.JSON(e.Status, Envelope{
		Success: false,
		Message: e.Message,
		Error:   &ErrorBody{Code: e.Code},
	})
}

// ValidationError writes a 400 failure envelope with field-level details.
func ValidationError(c *gin.Context, details interface{}) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: apperrors.ErrValidation.Message,
		Error: &ErrorBody{
			Code:    apperrors.ErrValidation.Code,
			Details: details,
		},
	})
}
