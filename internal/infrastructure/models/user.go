package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email             string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name              string    `gorm:"type:varchar(100);not null"`
	PasswordHash      string    `gorm:"type:varchar(255);not null"`
	Role              string    `gorm:"type:varchar(20);not null;default:'investor'"`
	KYCStatus         string    `gorm:"type:varchar(20);not null;default:'pending'"`
	Phone             *string   `gorm:"type:varchar(20)"`
	Bio               *string   `gorm:"type:text"`
	Location          *string   `gorm:"type:varchar(120)"`
	AvatarURL         *string   `gorm:"type:text"`
	BankName          *string   `gorm:"type:varchar(100)"`
	BankAccountNumber *string   `gorm:"type:varchar(20)"`
	BankAccountName   *string   `gorm:"type:varchar(100)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}
