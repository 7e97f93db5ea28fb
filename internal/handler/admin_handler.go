package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agrisense/internal/model"
	"agrisense/internal/service"
)

// AdminHandler serves the history tables.
type AdminHandler struct {
	historyService service.HistoryService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(historyService service.HistoryService) *AdminHandler {
	return &AdminHandler{historyService: historyService}
}

// LoginLogs godoc
// @Summary List login events, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.LoginLog
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /admin/login-logs [get]
func (h *AdminHandler) LoginLogs(c echo.Context) error {
	logs, err := h.historyService.ListLoginLogs(c.Request().Context())
	if err != nil {
		return apiError(err)
	}
	if logs == nil {
		logs = []model.LoginLog{}
	}
	return c.JSON(http.StatusOK, logs)
}

// CropHistory godoc
// @Summary List crop queries, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CropQuery
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /admin/crop-history [get]
func (h *AdminHandler) CropHistory(c echo.Context) error {
	queries, err := h.historyService.ListCropQueries(c.Request().Context())
	if err != nil {
		return apiError(err)
	}
	if queries == nil {
		queries = []model.CropQuery{}
	}
	return c.JSON(http.StatusOK, queries)
}
