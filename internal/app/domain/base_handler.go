package domain

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

// RespondError maps domain sentinel errors to HTTP statuses. Anything not
// matched falls through to a 500 with the message hidden behind a generic
// label so internals never reach the client.
func (h *BaseHandler) RespondError(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, models.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUpstreamGateway):
		status = http.StatusBadGateway
	case errors.Is(err, models.ErrUpstreamPayload):
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error(msg, zap.Error(err))
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.Logger.Warn(msg, zap.Error(err), zap.Int("status", status))
	c.JSON(status, gin.H{"error": msg, "details": err.Error()})
}

// RespondValidationError reports a request-binding failure.
func (h *BaseHandler) RespondValidationError(c *gin.Context, err error) {
	h.Logger.Warn("Invalid request payload", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
}
