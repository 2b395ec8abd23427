package models

import (
	"time"

	"github.com/google/uuid"
)

type KYCDocument struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	DocumentType    string     `gorm:"type:varchar(30);not null"`
	FileURL         string     `gorm:"type:text;not null"`
	FilePath        string     `gorm:"type:text;not null"`
	FileName        string     `gorm:"type:varchar(255);not null"`
	ContentType     string     `gorm:"type:varchar(100);not null"`
	FileSize        int64      `gorm:"not null"`
	Status          string     `gorm:"type:varchar(20);not null;index"`
	RejectionReason *string    `gorm:"type:text"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (KYCDocument) TableName() string {
	return "kyc_documents"
}
