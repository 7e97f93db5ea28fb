package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agrisense/internal/auth"
)

const (
	// CookieName is the cookie holding the signed session token.
	CookieName = "agrisense_session"
	// TokenContextKey is where echo-jwt leaves the parsed token.
	TokenContextKey = "user"

	contextKey = "session"
)

// Middleware loads the session for the request's token, or an anonymous one.
func Middleware(m *Manager, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var claims *auth.Claims
			if token, ok := c.Get(TokenContextKey).(*jwt.Token); ok && token.Valid {
				claims, _ = token.Claims.(*auth.Claims)
			}

			s, err := m.Load(c.Request().Context(), claims)
			if err != nil {
				logger.Warn("session load failed; continuing anonymous", zap.Error(err))
			}
			c.Set(contextKey, s)
			return next(c)
		}
	}
}

// FromContext returns the request's session. It is never nil.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok && s != nil {
		return s
	}
	s := Anonymous()
	c.Set(contextKey, s)
	return s
}

// SetCookie hands the browser a token for the started session.
func SetCookie(c echo.Context, token string, ttl time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// ClearCookie removes the session cookie.
func ClearCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}
