package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"agrisense/internal/auth"
	"agrisense/internal/model"
)

// MockIdentityProvider is a mock implementation of auth.IdentityProvider.
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) (*auth.IdentitySession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.IdentitySession), args.Error(1)
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *MockIdentityProvider) GetUser(ctx context.Context, accessToken string) (*auth.IdentityUser, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.IdentityUser), args.Error(1)
}

// MockHistoryService is a mock implementation of HistoryService.
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) RecordLogin(ctx context.Context, email string, role model.Role, at time.Time) error {
	args := m.Called(ctx, email, role, at)
	return args.Error(0)
}

func (m *MockHistoryService) RecordCropQuery(ctx context.Context, email string, role model.Role, crop string, result model.AnalysisResult, at time.Time) error {
	args := m.Called(ctx, email, role, crop, result, at)
	return args.Error(0)
}

func (m *MockHistoryService) ListLoginLogs(ctx context.Context) ([]model.LoginLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoginLog), args.Error(1)
}

func (m *MockHistoryService) ListCropQueries(ctx context.Context) ([]model.CropQuery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CropQuery), args.Error(1)
}

// MockLoginLogRepository is a mock implementation of repository.LoginLogRepository.
type MockLoginLogRepository struct {
	mock.Mock
}

func (m *MockLoginLogRepository) Create(ctx context.Context, log *model.LoginLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockLoginLogRepository) ListNewestFirst(ctx context.Context) ([]model.LoginLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoginLog), args.Error(1)
}

// MockCropQueryRepository is a mock implementation of repository.CropQueryRepository.
type MockCropQueryRepository struct {
	mock.Mock
}

func (m *MockCropQueryRepository) Create(ctx context.Context, query *model.CropQuery) error {
	args := m.Called(ctx, query)
	return args.Error(0)
}

func (m *MockCropQueryRepository) ListNewestFirst(ctx context.Context) ([]model.CropQuery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CropQuery), args.Error(1)
}

// MockAnalyzer is a mock implementation of Analyzer.
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, cropName string) (model.AnalysisResult, error) {
	args := m.Called(ctx, cropName)
	return args.Get(0).(model.AnalysisResult), args.Error(1)
}
