package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agrisense/internal/errors"
	"agrisense/internal/model"
	"agrisense/internal/service"
	"agrisense/internal/session"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  service.AuthService
	sessions     *session.Manager
	cookieSecure bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *session.Manager, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessions:     sessions,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Role     string `json:"role" form:"role" validate:"omitempty,oneof=User Admin"`
	Passkey  string `json:"passkey" form:"passkey"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	Email       string     `json:"email"`
	Role        model.Role `json:"role"`
	Warning     string     `json:"warning,omitempty"`
}

// MeResponse describes the current session.
type MeResponse struct {
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	LastCrop string     `json:"last_crop,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.Register(c.Request().Context(), req.Email, req.Password); err != nil {
		return apiError(err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: errors.MsgAccountCreated})
}

// Login godoc
// @Summary Sign in as User or Admin
// @Description Admin sign-in also requires the admin passkey. The returned token is set as the session cookie and may be sent as a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	s, warning, err := h.authService.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Passkey:  req.Passkey,
	})
	if err != nil {
		return apiError(err)
	}

	token, err := h.sessions.Start(ctx, s)
	if err != nil {
		h.logger.Error("start session", zap.Error(err))
		return apiError(err)
	}
	session.SetCookie(c, token, h.sessions.TTL(), h.cookieSecure)

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken: token,
		Email:       s.Email,
		Role:        s.Role,
		Warning:     warning,
	})
}

// Logout godoc
// @Summary Logout and discard the session
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Destroy(c.Request().Context(), session.FromContext(c)); err != nil {
		h.logger.Warn("destroy session", zap.Error(err))
	}
	session.ClearCookie(c, h.cookieSecure)
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me godoc
// @Summary Current session
// @Description Confirms with the identity service that the session is still valid.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	s := session.FromContext(c)
	if _, err := h.authService.CheckSession(c.Request().Context(), s.IdentityToken); err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, MeResponse{Email: s.Email, Role: s.Role, LastCrop: s.LastCrop})
}
