package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"agrisense/internal/errors"
	"agrisense/internal/report"
	"agrisense/internal/service"
	"agrisense/internal/session"
	"agrisense/internal/web"
)

// WebHandler serves the HTML shell over the same services as the API.
type WebHandler struct {
	authService    service.AuthService
	cropService    service.CropService
	historyService service.HistoryService
	sessions       *session.Manager
	cookieSecure   bool
	logger         *zap.Logger
}

// NewWebHandler creates a new web handler.
func NewWebHandler(
	authService service.AuthService,
	cropService service.CropService,
	historyService service.HistoryService,
	sessions *session.Manager,
	cookieSecure bool,
	logger *zap.Logger,
) *WebHandler {
	return &WebHandler{
		authService:    authService,
		cropService:    cropService,
		historyService: historyService,
		sessions:       sessions,
		cookieSecure:   cookieSecure,
		logger:         logger,
	}
}

func (h *WebHandler) page(c echo.Context, title, active string) web.Page {
	s := session.FromContext(c)
	p := web.Page{
		Title:   title,
		Session: s,
		Nav:     web.Navigation(s, active),
	}
	if token, ok := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok {
		p.CSRF = token
	}
	if s.Notice != "" {
		p.Notice = s.TakeNotice()
		h.save(c, s)
	}
	return p
}

func (h *WebHandler) save(c echo.Context, s *session.Session) {
	if s.ID == "" {
		return
	}
	if err := h.sessions.Save(c.Request().Context(), s); err != nil {
		h.logger.Warn("save session", zap.Error(err))
	}
}

// redirectWithNotice stores a one-shot notice and redirects. Anonymous
// sessions have nowhere to keep it, so the notice is dropped for them.
func (h *WebHandler) redirectWithNotice(c echo.Context, to, notice string) error {
	s := session.FromContext(c)
	if notice != "" && s.ID != "" {
		s.Notice = notice
		h.save(c, s)
	}
	return c.Redirect(http.StatusSeeOther, to)
}

// Home shows the login and register tabs, or sends a signed-in user to the analysis page.
func (h *WebHandler) Home(c echo.Context) error {
	if session.FromContext(c).Authenticated {
		return c.Redirect(http.StatusSeeOther, web.PathCrops)
	}
	p := h.page(c, "Login", "")
	p.Tab = c.QueryParam("tab")
	return c.Render(http.StatusOK, web.PageLogin, p)
}

// Login handles the login form.
func (h *WebHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	ctx := c.Request().Context()
	s, warning, err := h.authService.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Passkey:  req.Passkey,
	})
	if err != nil {
		p := h.page(c, "Login", "")
		p.Email = req.Email
		p.Error = errors.UserMessage(err)
		return c.Render(errors.MapErrorToHTTP(err).StatusCode, web.PageLogin, p)
	}

	s.Notice = warning
	token, err := h.sessions.Start(ctx, s)
	if err != nil {
		h.logger.Error("start session", zap.Error(err))
		p := h.page(c, "Login", "")
		p.Error = errors.MsgAuthFailed
		return c.Render(http.StatusInternalServerError, web.PageLogin, p)
	}
	session.SetCookie(c, token, h.sessions.TTL(), h.cookieSecure)
	return c.Redirect(http.StatusSeeOther, web.PathCrops)
}

// Register handles the register form.
func (h *WebHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	p := h.page(c, "Register", "")
	p.Tab = "register"
	if err := h.authService.Register(c.Request().Context(), req.Email, req.Password); err != nil {
		p.Email = req.Email
		p.Error = errors.MsgRegisterFailed
		if stderrors.Is(err, errors.ErrInvalidInput) {
			p.Error = errors.UserMessage(err)
		}
		return c.Render(errors.MapErrorToHTTP(err).StatusCode, web.PageLogin, p)
	}

	p.Tab = "login"
	p.Notice = errors.MsgAccountCreated
	return c.Render(http.StatusOK, web.PageLogin, p)
}

// Logout discards the session and returns to the login page.
func (h *WebHandler) Logout(c echo.Context) error {
	if err := h.sessions.Destroy(c.Request().Context(), session.FromContext(c)); err != nil {
		h.logger.Warn("destroy session", zap.Error(err))
	}
	session.ClearCookie(c, h.cookieSecure)
	return c.Redirect(http.StatusSeeOther, "/")
}

// Crops shows the analysis page with the session's last result.
func (h *WebHandler) Crops(c echo.Context) error {
	s := session.FromContext(c)
	if !s.Authenticated {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	p := h.page(c, "Crop Analysis", web.PathCrops)
	if s.LastResult != nil {
		p.Crop = s.LastCrop
		p.ResultCrop = s.LastCrop
		p.Fields = s.LastResult.Fields()
		p.Chart = report.Chart()
	}
	return c.Render(http.StatusOK, web.PageCrops, p)
}

// Analyze handles the analyze button. An empty crop name does nothing.
func (h *WebHandler) Analyze(c echo.Context) error {
	s := session.FromContext(c)
	if !s.Authenticated {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if req.Crop == "" {
		return c.Redirect(http.StatusSeeOther, web.PathCrops)
	}

	_, warning, err := runAnalysis(c, h.cropService, h.sessions, h.logger, s, req.Crop)
	if err != nil {
		p := h.page(c, "Crop Analysis", web.PathCrops)
		p.Crop = req.Crop
		p.Error = errors.UserMessage(err)
		if s.LastResult != nil {
			p.ResultCrop = s.LastCrop
			p.Fields = s.LastResult.Fields()
			p.Chart = report.Chart()
		}
		return c.Render(errors.MapErrorToHTTP(err).StatusCode, web.PageCrops, p)
	}
	return h.redirectWithNotice(c, web.PathCrops, warning)
}

// Report downloads the PDF of the last analysis.
func (h *WebHandler) Report(c echo.Context) error {
	s := session.FromContext(c)
	if !s.Authenticated {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if err := sendReport(c, h.cropService, s); err != nil {
		if stderrors.Is(err, errors.ErrNoAnalysis) {
			return h.redirectWithNotice(c, web.PathCrops, "Analyze a crop first.")
		}
		h.logger.Error("render report", zap.Error(err))
		return apiError(err)
	}
	return nil
}

// LoginLogs shows the login history to admins.
func (h *WebHandler) LoginLogs(c echo.Context) error {
	if !h.admin(c) {
		return c.Redirect(http.StatusSeeOther, web.PathCrops)
	}
	p := h.page(c, "User Logs", web.PathLogins)
	logs, err := h.historyService.ListLoginLogs(c.Request().Context())
	if err != nil {
		p.Error = errors.UserMessage(err)
	}
	p.LoginLogs = logs
	return c.Render(http.StatusOK, web.PageLogins, p)
}

// CropHistory shows the crop-query history to admins.
func (h *WebHandler) CropHistory(c echo.Context) error {
	if !h.admin(c) {
		return c.Redirect(http.StatusSeeOther, web.PathCrops)
	}
	p := h.page(c, "Research History", web.PathHistory)
	queries, err := h.historyService.ListCropQueries(c.Request().Context())
	if err != nil {
		p.Error = errors.UserMessage(err)
	}
	p.CropQueries = queries
	return c.Render(http.StatusOK, web.PageHistory, p)
}

func (h *WebHandler) admin(c echo.Context) bool {
	return session.FromContext(c).IsAdmin()
}
