package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginLog records one successful login. Rows are append-only.
type LoginLog struct {
	ID    uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email string    `json:"email" gorm:"size:255;not null;index"`
	Role  Role      `json:"role" gorm:"type:varchar(20);not null"`
	Time  time.Time `json:"time" gorm:"column:time;not null;index"`
}

// TableName pins the table to the name the hosted store already uses.
func (LoginLog) TableName() string {
	return "login_logs"
}

// BeforeCreate sets UUID before creating the record.
func (l *LoginLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
