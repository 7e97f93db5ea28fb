package handler

import (
	"github.com/labstack/echo/v4"

	"agrisense/internal/errors"
	"agrisense/internal/session"
)

// apiError turns a domain error into the JSON error response.
func apiError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// RequireSession rejects API requests without an authenticated session.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !session.FromContext(c).Authenticated {
			return apiError(errors.ErrAuth)
		}
		return next(c)
	}
}

// RequireAdmin rejects API requests from sessions without the Admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := session.FromContext(c)
		if !s.Authenticated {
			return apiError(errors.ErrAuth)
		}
		if !s.IsAdmin() {
			return apiError(errors.ErrForbidden)
		}
		return next(c)
	}
}
