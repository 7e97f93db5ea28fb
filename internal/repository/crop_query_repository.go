package repository

import (
	"context"

	"gorm.io/gorm"

	"agrisense/internal/model"
)

// CropQueryRepository defines crop history persistence operations.
type CropQueryRepository interface {
	Create(ctx context.Context, query *model.CropQuery) error
	ListNewestFirst(ctx context.Context) ([]model.CropQuery, error)
}

type cropQueryRepository struct {
	db *gorm.DB
}

// NewCropQueryRepository creates a new crop history repository.
func NewCropQueryRepository(db *gorm.DB) CropQueryRepository {
	return &cropQueryRepository{db: db}
}

// Create appends a crop history entry.
func (r *cropQueryRepository) Create(ctx context.Context, query *model.CropQuery) error {
	return r.db.WithContext(ctx).Create(query).Error
}

// ListNewestFirst returns every crop history entry ordered by time descending.
func (r *cropQueryRepository) ListNewestFirst(ctx context.Context) ([]model.CropQuery, error) {
	var queries []model.CropQuery
	if err := r.db.WithContext(ctx).Order("time DESC").Find(&queries).Error; err != nil {
		return nil, err
	}
	return queries, nil
}
