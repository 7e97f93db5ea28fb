package service

import (
	"context"
	"fmt"
	"time"

	apperrors "agrisense/internal/errors"
	"agrisense/internal/model"
	"agrisense/internal/repository"
)

// HistoryService appends and lists login and crop-query records.
type HistoryService interface {
	RecordLogin(ctx context.Context, email string, role model.Role, at time.Time) error
	RecordCropQuery(ctx context.Context, email string, role model.Role, crop string, result model.AnalysisResult, at time.Time) error
	ListLoginLogs(ctx context.Context) ([]model.LoginLog, error)
	ListCropQueries(ctx context.Context) ([]model.CropQuery, error)
}

type historyService struct {
	loginRepo repository.LoginLogRepository
	cropRepo  repository.CropQueryRepository
}

// NewHistoryService creates a new history service.
func NewHistoryService(loginRepo repository.LoginLogRepository, cropRepo repository.CropQueryRepository) HistoryService {
	return &historyService{
		loginRepo: loginRepo,
		cropRepo:  cropRepo,
	}
}

// RecordLogin appends one login event.
func (s *historyService) RecordLogin(ctx context.Context, email string, role model.Role, at time.Time) error {
	entry := &model.LoginLog{
		Email: email,
		Role:  role,
		Time:  at.UTC(),
	}
	if err := s.loginRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("%w: create login log: %w", apperrors.ErrPersistence, err)
	}
	return nil
}

// RecordCropQuery appends one crop-query event with the serialized result.
func (s *historyService) RecordCropQuery(ctx context.Context, email string, role model.Role, crop string, result model.AnalysisResult, at time.Time) error {
	query, err := model.NewCropQuery(email, role, crop, result, at.UTC())
	if err != nil {
		return fmt.Errorf("%w: encode result: %w", apperrors.ErrPersistence, err)
	}
	if err := s.cropRepo.Create(ctx, query); err != nil {
		return fmt.Errorf("%w: create crop query: %w", apperrors.ErrPersistence, err)
	}
	return nil
}

// ListLoginLogs returns every login event, newest first.
func (s *historyService) ListLoginLogs(ctx context.Context) ([]model.LoginLog, error) {
	logs, err := s.loginRepo.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list login logs: %w", apperrors.ErrPersistence, err)
	}
	return logs, nil
}

// ListCropQueries returns every crop-query event, newest first.
func (s *historyService) ListCropQueries(ctx context.Context) ([]model.CropQuery, error) {
	queries, err := s.cropRepo.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list crop history: %w", apperrors.ErrPersistence, err)
	}
	return queries, nil
}
