package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CropQuery records one successful crop analysis. Rows are append-only.
type CropQuery struct {
	ID     uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email  string    `json:"email" gorm:"size:255;not null;index"`
	Role   Role      `json:"role" gorm:"type:varchar(20);not null"`
	Crop   string    `json:"crop" gorm:"size:255;not null"`
	Result string    `json:"result" gorm:"type:text;not null"` // JSON-encoded AnalysisResult
	Time   time.Time `json:"time" gorm:"column:time;not null;index"`
}

// TableName pins the table to the name the hosted store already uses.
func (CropQuery) TableName() string {
	return "crop_history"
}

// BeforeCreate sets UUID before creating the record.
func (q *CropQuery) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// NewCropQuery serializes result into a record ready for insertion.
func NewCropQuery(email string, role Role, crop string, result AnalysisResult, at time.Time) (*CropQuery, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis result: %w", err)
	}
	return &CropQuery{
		Email:  email,
		Role:   role,
		Crop:   crop,
		Result: string(payload),
		Time:   at,
	}, nil
}

// Analysis decodes the stored result column.
func (q *CropQuery) Analysis() (AnalysisResult, error) {
	var r AnalysisResult
	if err := json.Unmarshal([]byte(q.Result), &r); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode stored result: %w", err)
	}
	return r, nil
}
