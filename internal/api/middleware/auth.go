package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
	"github.com/tlc-app/tlc-backend/internal/core/ports"
)

// UserKey is the echo context key holding the authenticated *domain.User.
const UserKey = "user"

// GateError marks a failure raised while authenticating the request, so the
// error handler can tell an unknown token principal apart from other lookups.
type GateError struct {
	Err error
}

func (e *GateError) Error() string { return e.Err.Error() }
func (e *GateError) Unwrap() error { return e.Err }

// Auth resolves the bearer token into a user and stores it under UserKey.
// Requests without an Authorization header pass through anonymously; use
// RequireUser to reject them.
func Auth(authenticator ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			user, err := authenticator.Authenticate(c.Request().Context(), header)
			if err != nil {
				return &GateError{Err: err}
			}
			if user != nil {
				c.Set(UserKey, user)
			}
			return next(c)
		}
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return &GateError{Err: domain.ErrNotAuthenticated}
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user set by Auth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserKey).(*domain.User)
	return user
}
