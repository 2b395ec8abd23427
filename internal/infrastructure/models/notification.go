package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(200);not null"`
	Message   string    `gorm:"type:text;not null"`
	Type      string    `gorm:"type:varchar(20);not null"`
	ActionURL *string   `gorm:"type:text"`
	Read      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}
