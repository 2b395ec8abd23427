package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Investment struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	InvestorID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProjectID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	Amount           decimal.Decimal     `gorm:"type:numeric(18,2);not null"`
	Status           string              `gorm:"type:varchar(20);not null;index"`
	ExpectedReturn   decimal.Decimal     `gorm:"type:numeric(5,2);not null"`
	ActualReturn     decimal.NullDecimal `gorm:"type:numeric(18,2)"`
	PaymentReference *string             `gorm:"type:varchar(100)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// InvestmentWithRefs is an investment row joined with its project title and investor name
type InvestmentWithRefs struct {
	Investment   `gorm:"embedded"`
	ProjectTitle string
	InvestorName string
}
