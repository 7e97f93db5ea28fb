package repository

import (
	"context"

	"gorm.io/gorm"

	"agrisense/internal/model"
)

// LoginLogRepository defines login log persistence operations.
type LoginLogRepository interface {
	Create(ctx context.Context, log *model.LoginLog) error
	ListNewestFirst(ctx context.Context) ([]model.LoginLog, error)
}

type loginLogRepository struct {
	db *gorm.DB
}

// NewLoginLogRepository creates a new login log repository.
func NewLoginLogRepository(db *gorm.DB) LoginLogRepository {
	return &loginLogRepository{db: db}
}

// Create appends a login log entry.
func (r *loginLogRepository) Create(ctx context.Context, log *model.LoginLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListNewestFirst returns every login log entry ordered by time descending.
func (r *loginLogRepository) ListNewestFirst(ctx context.Context) ([]model.LoginLog, error) {
	var logs []model.LoginLog
	if err := r.db.WithContext(ctx).Order("time DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
