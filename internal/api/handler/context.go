package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tlc-app/tlc-backend/internal/api/middleware"
	"github.com/tlc-app/tlc-backend/internal/core/domain"
)

// ctxUser returns the principal injected by the Auth middleware. Routes are
// mounted behind RequireUser, but handlers still fail fast if it is missing.
func ctxUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, &middleware.GateError{Err: domain.ErrNotAuthenticated}
	}
	return user, nil
}
