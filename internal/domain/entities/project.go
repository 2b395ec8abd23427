package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// ProjectCategory represents the farming sector of a project
type ProjectCategory string

const (
	CategoryCrops          ProjectCategory = "crops"
	CategoryLivestock      ProjectCategory = "livestock"
	CategoryPoultry        ProjectCategory = "poultry"
	CategoryAquaculture    ProjectCategory = "aquaculture"
	CategoryHorticulture   ProjectCategory = "horticulture"
	CategoryAgroProcessing ProjectCategory = "agro_processing"
	CategoryEquipment      ProjectCategory = "equipment"
	CategoryOther          ProjectCategory = "other"
)

// RiskLevel represents the declared risk of a project
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ProjectStatus represents the funding campaign lifecycle
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusFunded    ProjectStatus = "funded"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// CanTransitionTo reports whether an owner may move a project from s to next.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	switch s {
	case ProjectStatusDraft:
		return next == ProjectStatusActive || next == ProjectStatusCancelled
	case ProjectStatusActive:
		return next == ProjectStatusCancelled
	case ProjectStatusFunded:
		return next == ProjectStatusCompleted
	}
	return false
}

// Project represents a funding campaign owned by a farmer
type Project struct {
	ID                uuid.UUID           `json:"id"`
	FarmerID          uuid.UUID           `json:"farmer_id"`
	FarmerName        string              `json:"farmer_name,omitempty"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Category          ProjectCategory     `json:"category"`
	Location          string              `json:"location"`
	FundingGoal       decimal.Decimal     `json:"funding_goal"`
	AmountRaised      decimal.Decimal     `json:"amount_raised"`
	MinimumInvestment decimal.Decimal     `json:"minimum_investment"`
	MaximumInvestment decimal.NullDecimal `json:"maximum_investment"`
	ExpectedReturn    decimal.Decimal     `json:"expected_return"`
	DurationMonths    int                 `json:"duration_months"`
	RiskLevel         RiskLevel           `json:"risk_level"`
	Status            ProjectStatus       `json:"status"`
	ImageURLs         []string            `json:"image_urls"`
	StartDate         null.Time           `json:"start_date"`
	EndDate           null.Time           `json:"end_date"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// RowID implements livequery.Row
func (p Project) RowID() uuid.UUID { return p.ID }

// Remaining returns the amount still needed to reach the funding goal.
func (p *Project) Remaining() decimal.Decimal {
	r := p.FundingGoal.Sub(p.AmountRaised)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// ProjectUpdate is a partial project update. Nil fields are left untouched.
type ProjectUpdate struct {
	Title             *string
	Description       *string
	Category          *ProjectCategory
	Location          *string
	FundingGoal       *decimal.Decimal
	MinimumInvestment *decimal.Decimal
	MaximumInvestment *decimal.NullDecimal
	ExpectedReturn    *decimal.Decimal
	DurationMonths    *int
	RiskLevel         *RiskLevel
	Status            *ProjectStatus
	StartDate         *null.Time
	EndDate           *null.Time
}

// Empty reports whether the update carries no field.
func (u ProjectUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil && u.Location == nil &&
		u.FundingGoal == nil && u.MinimumInvestment == nil && u.MaximumInvestment == nil &&
		u.ExpectedReturn == nil && u.DurationMonths == nil && u.RiskLevel == nil &&
		u.Status == nil && u.StartDate == nil && u.EndDate == nil
}

// ProjectFilter narrows project listings
type ProjectFilter struct {
	FarmerID  *uuid.UUID
	Status    ProjectStatus
	Category  ProjectCategory
	RiskLevel RiskLevel
	Search    string
	Order     *Order
	Limit     int
	Offset    int
}
