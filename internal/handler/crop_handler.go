package handler

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agrisense/internal/model"
	"agrisense/internal/report"
	"agrisense/internal/service"
	"agrisense/internal/session"
)

// CropHandler handles crop analysis endpoints.
type CropHandler struct {
	cropService service.CropService
	sessions    *session.Manager
	logger      *zap.Logger
}

// NewCropHandler creates a new crop handler.
func NewCropHandler(cropService service.CropService, sessions *session.Manager, logger *zap.Logger) *CropHandler {
	return &CropHandler{
		cropService: cropService,
		sessions:    sessions,
		logger:      logger,
	}
}

// AnalyzeRequest represents a crop analysis request.
type AnalyzeRequest struct {
	Crop string `json:"crop" form:"crop" validate:"required"`
}

// AnalyzeResponse is the analysis shown on the crop page.
type AnalyzeResponse struct {
	Crop    string               `json:"crop"`
	Result  model.AnalysisResult `json:"result" swaggertype:"object"`
	Fields  []model.Field        `json:"fields"`
	Chart   report.ChartSpec     `json:"chart"`
	Warning string               `json:"warning,omitempty"`
}

// Analyze godoc
// @Summary Analyze a crop
// @Description Runs the model for the crop, records the query and keeps the result in the session for the PDF report.
// @Tags crops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnalyzeRequest true "Crop name"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /crops/analyze [post]
func (h *CropHandler) Analyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s := session.FromContext(c)
	result, warning, err := runAnalysis(c, h.cropService, h.sessions, h.logger, s, req.Crop)
	if err != nil {
		return apiError(err)
	}

	return c.JSON(http.StatusOK, AnalyzeResponse{
		Crop:    req.Crop,
		Result:  result,
		Fields:  result.Fields(),
		Chart:   report.Chart(),
		Warning: warning,
	})
}

// Report godoc
// @Summary Download the PDF report of the last analysis
// @Tags crops
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /crops/report [get]
func (h *CropHandler) Report(c echo.Context) error {
	if err := sendReport(c, h.cropService, session.FromContext(c)); err != nil {
		return apiError(err)
	}
	return nil
}

// runAnalysis analyzes crop for s and stores the result in the session.
func runAnalysis(c echo.Context, svc service.CropService, sessions *session.Manager, logger *zap.Logger, s *session.Session, crop string) (model.AnalysisResult, string, error) {
	ctx := c.Request().Context()
	result, warning, err := svc.Analyze(ctx, s.Email, s.Role, crop)
	if err != nil {
		return model.AnalysisResult{}, "", err
	}

	s.SetResult(crop, result)
	if err := sessions.Save(ctx, s); err != nil {
		logger.Warn("save session", zap.Error(err))
	}
	return result, warning, nil
}

// sendReport writes the PDF of s's last analysis as an attachment.
func sendReport(c echo.Context, svc service.CropService, s *session.Session) error {
	pdf, filename, err := svc.Report(s.LastCrop, s.LastResult)
	if err != nil {
		return err
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = fmt.Sprintf("attachment; filename=%q", "analysis.pdf")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
