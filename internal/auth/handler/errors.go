package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"connect-service/internal/auth"
	"connect-service/internal/logger"
	"connect-service/internal/templates"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrSessionExpired),
		errors.Is(err, auth.ErrHandshake),
		errors.Is(err, auth.ErrAlreadyLoggedIn):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrAlreadyConnected):
		return http.StatusConflict
	case errors.Is(err, auth.ErrSignupsDisabled):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, auth.ErrFormValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// kindLabel names an error kind for metrics.
func kindLabel(err error) string {
	switch {
	case errors.Is(err, auth.ErrSessionExpired):
		return "expired"
	case errors.Is(err, auth.ErrHandshake):
		return "handshake_error"
	case errors.Is(err, auth.ErrTimeout):
		return "timeout"
	case errors.Is(err, auth.ErrAlreadyConnected):
		return "already_connected"
	case errors.Is(err, auth.ErrSignupsDisabled):
		return "signups_disabled"
	default:
		return "error"
	}
}

// fail renders the error page for err.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)

	fields := map[string]any{
		"path":   c.Request.URL.Path,
		"status": status,
		"error":  err,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("social login failed", fields)
	} else {
		logger.Warn("social login rejected", fields)
	}

	_ = c.Error(err)
	c.HTML(status, templates.Error, templates.ErrorView{
		Status:  status,
		Message: auth.Message(err),
	})
}
