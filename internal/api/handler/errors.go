package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tlc-app/tlc-backend/internal/api/metrics"
	"github.com/tlc-app/tlc-backend/internal/api/middleware"
	"github.com/tlc-app/tlc-backend/internal/core/domain"
)

// Resolve maps err to an HTTP status, a machine-readable reason and a human
// message. known is false for errors the API has no mapping for; those are
// rendered as 500 with a generic message.
func Resolve(err error) (status int, reason, info string, known bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, httpReason(he.Code), fmt.Sprintf("%v", he.Message), true
	}

	var gate *middleware.GateError
	fromGate := errors.As(err, &gate)

	switch {
	case errors.Is(err, domain.ErrBadCredentials):
		return http.StatusBadRequest, "bad_credentials", err.Error(), true
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized, "authentication_failed", err.Error(), true
	case errors.Is(err, domain.ErrUserNotFound):
		if fromGate {
			return http.StatusUnauthorized, "not_found", "user not found", true
		}
		return http.StatusBadRequest, "not_found", "there is no user with this username", true
	case errors.Is(err, domain.ErrNoResetRequested):
		return http.StatusBadRequest, "no_reset_requested", err.Error(), true
	case errors.Is(err, domain.ErrWrongCode):
		return http.StatusBadRequest, "wrong_code", err.Error(), true
	case errors.Is(err, domain.ErrInvalidUsername):
		return http.StatusBadRequest, "invalid_username", err.Error(), true
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too_many_attempts", err.Error(), true
	case errors.Is(err, domain.ErrNotifierUnavailable):
		return http.StatusServiceUnavailable, "notifier_unavailable", err.Error(), true
	case errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest, "invalid_payload", err.Error(), true
	}

	return http.StatusInternalServerError, "internal_error", "internal server error", false
}

func httpReason(code int) string {
	if code == http.StatusBadRequest {
		return "invalid_payload"
	}
	text := http.StatusText(code)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}

// invalidPayload builds the 400 returned for undecodable or invalid bodies.
func invalidPayload(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return invalidPayload("invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return invalidPayload(err.Error())
	}
	return nil
}

// observe counts the outcome of a credential operation.
func observe(operation string, err error) {
	result := "ok"
	if err != nil {
		_, result, _, _ = Resolve(err)
	}
	metrics.AuthRequestsTotal.WithLabelValues(operation, result).Inc()
}
