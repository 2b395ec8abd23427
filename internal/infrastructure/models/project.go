package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Project struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	FarmerID          uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Title             string                      `gorm:"type:varchar(100);not null"`
	Description       string                      `gorm:"type:text;not null"`
	Category          string                      `gorm:"type:varchar(30);not null;index"`
	Location          string                      `gorm:"type:varchar(120)"`
	FundingGoal       decimal.Decimal             `gorm:"type:numeric(18,2);not null"`
	AmountRaised      decimal.Decimal             `gorm:"type:numeric(18,2);not null;default:0"`
	MinimumInvestment decimal.Decimal             `gorm:"type:numeric(18,2);not null"`
	MaximumInvestment decimal.NullDecimal         `gorm:"type:numeric(18,2)"`
	ExpectedReturn    decimal.Decimal             `gorm:"type:numeric(5,2);not null"`
	DurationMonths    int                         `gorm:"not null"`
	RiskLevel         string                      `gorm:"type:varchar(10);not null"`
	Status            string                      `gorm:"type:varchar(20);not null;index"`
	ImageURLs         datatypes.JSONSlice[string] `gorm:"column:image_urls;type:jsonb"`
	StartDate         *time.Time
	EndDate           *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProjectWithFarmer is a project row joined with its farmer's display name
type ProjectWithFarmer struct {
	Project    `gorm:"embedded"`
	FarmerName string
}
