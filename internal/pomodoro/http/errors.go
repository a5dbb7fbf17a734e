package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/service"
	"github.com/aussiebroadwan/pomodoro/pkg/httpx"
	"github.com/aussiebroadwan/pomodoro/pkg/slogx"
)

// writeServiceError is the one place service errors become status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		code, msg = http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, service.ErrInvalidStatus):
		code, msg = http.StatusBadRequest, "Invalid status"
	case errors.Is(err, service.ErrResetTokenNotFound), errors.Is(err, service.ErrResetTokenExpired):
		code, msg = http.StatusBadRequest, "Invalid or expired token"
	case errors.Is(err, service.ErrInvalidCredentials):
		code, msg = http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, service.ErrUnauthenticated):
		code, msg = http.StatusUnauthorized, "No token provided"
	case errors.Is(err, service.ErrForbidden):
		code, msg = http.StatusForbidden, "Invalid or expired token"
	case errors.Is(err, service.ErrUserNotFound):
		code, msg = http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrTaskNotFound):
		code, msg = http.StatusNotFound, "Task not found"
	case errors.Is(err, service.ErrEmailTaken):
		code, msg = http.StatusConflict, "Email already registered"
	case errors.Is(err, service.ErrMailDelivery):
		msg = "Error sending email"
	}

	if code >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
	}
	httpx.WriteError(w, code, msg)
}

// writeBadRequest reports a body that failed to decode or validate.
func writeBadRequest(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, err.Error())
}
