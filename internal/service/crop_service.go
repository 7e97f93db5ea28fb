package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "agrisense/internal/errors"
	"agrisense/internal/model"
	"agrisense/internal/report"
)

// Analyzer produces an analysis for a crop name.
type Analyzer interface {
	Analyze(ctx context.Context, cropName string) (model.AnalysisResult, error)
}

// CropService runs analyses, records them and renders reports.
type CropService interface {
	Analyze(ctx context.Context, email string, role model.Role, cropName string) (result model.AnalysisResult, warning string, err error)
	Report(cropName string, result *model.AnalysisResult) (pdf []byte, filename string, err error)
}

type cropService struct {
	analyzer Analyzer
	history  HistoryService
	logger   *zap.Logger
	now      func() time.Time
}

// NewCropService creates a new crop service.
func NewCropService(analyzer Analyzer, history HistoryService, logger *zap.Logger) CropService {
	return &cropService{
		analyzer: analyzer,
		history:  history,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze runs the engine for cropName and records the query. The result is
// returned even when recording fails.
func (s *cropService) Analyze(ctx context.Context, email string, role model.Role, cropName string) (model.AnalysisResult, string, error) {
	if strings.TrimSpace(cropName) == "" {
		return model.AnalysisResult{}, "", fmt.Errorf("%w: crop", apperrors.ErrInvalidInput)
	}

	result, err := s.analyzer.Analyze(ctx, cropName)
	if err != nil {
		s.logger.Error("crop analysis failed", zap.String("crop", cropName), zap.Error(err))
		return model.AnalysisResult{}, "", err
	}

	var warning string
	if err := s.history.RecordCropQuery(ctx, email, role, cropName, result, s.now()); err != nil {
		s.logger.Warn("crop query not recorded", zap.String("crop", cropName), zap.Error(err))
		warning = apperrors.MsgQueryNotRecorded
	}
	return result, warning, nil
}

// Report renders the PDF for the last analysis.
func (s *cropService) Report(cropName string, result *model.AnalysisResult) ([]byte, string, error) {
	if result == nil {
		return nil, "", apperrors.ErrNoAnalysis
	}
	pdf, err := report.RenderPDF(cropName, *result)
	if err != nil {
		return nil, "", err
	}
	return pdf, report.Filename(cropName), nil
}
