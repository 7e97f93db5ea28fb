package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"agrisense/internal/auth"
	"agrisense/internal/config"
	"agrisense/internal/handler"
	"agrisense/internal/session"
	"agrisense/internal/web"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth  *handler.AuthHandler
	Crop  *handler.CropHandler
	Admin *handler.AdminHandler
	Web   *handler.WebHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, sessions *session.Manager, h Handlers, logger *zap.Logger) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "agrisense")
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// The session token is optional: a missing or invalid one means anonymous.
	e.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:             []byte(cfg.SessionSecret),
		SigningMethod:          jwt.SigningMethodHS256.Name,
		TokenLookup:            "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + session.CookieName,
		ContextKey:             session.TokenContextKey,
		NewClaimsFunc:          func(echo.Context) jwt.Claims { return new(auth.Claims) },
		ContinueOnIgnoredError: true,
		ErrorHandler: func(echo.Context, error) error {
			return nil
		},
		Skipper: isStatic,
	}))
	e.Use(session.Middleware(sessions, logger))

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)

	// Secured routes (require a signed-in session)
	secured := api.Group("", handler.RequireSession)
	secured.GET("/me", h.Auth.Me)
	secured.POST("/crops/analyze", h.Crop.Analyze)
	secured.GET("/crops/report", h.Crop.Report)

	admin := api.Group("/admin", handler.RequireAdmin)
	admin.GET("/login-logs", h.Admin.LoginLogs)
	admin.GET("/crop-history", h.Admin.CropHistory)

	// HTML shell; every form post carries a CSRF token.
	pages := e.Group("", middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookieName:     "agrisense_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	pages.GET("/", h.Web.Home)
	pages.POST("/login", h.Web.Login)
	pages.POST("/register", h.Web.Register)
	pages.POST("/logout", h.Web.Logout)
	pages.GET(web.PathCrops, h.Web.Crops)
	pages.POST(web.PathCrops+"/analyze", h.Web.Analyze)
	pages.GET(web.PathCrops+"/report.pdf", h.Web.Report)
	pages.GET(web.PathLogins, h.Web.LoginLogs)
	pages.GET(web.PathHistory, h.Web.CropHistory)
}

func isStatic(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/healthz" || strings.HasPrefix(p, "/swagger/")
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
