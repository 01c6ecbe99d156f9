package resp

import (
	"errors"
	"net/http"

	"milano/pkg/apperr"
	"milano/pkg/logger"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
func Success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Status maps an error kind to its HTTP status.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error writes {error: message}. Untyped errors are logged and reported as a
// generic server error so driver messages never reach the client.
func Error(c *gin.Context, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).WithError(err).Error("request failed")
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}
