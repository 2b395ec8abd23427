package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// InvestmentStatus represents the lifecycle of a pledge
type InvestmentStatus string

const (
	InvestmentStatusPending   InvestmentStatus = "pending"
	InvestmentStatusActive    InvestmentStatus = "active"
	InvestmentStatusCompleted InvestmentStatus = "completed"
	InvestmentStatusCancelled InvestmentStatus = "cancelled"
)

// Committed reports whether an investment in this status counts toward a
// project's amount raised.
func (s InvestmentStatus) Committed() bool {
	return s == InvestmentStatusPending || s == InvestmentStatusActive || s == InvestmentStatusCompleted
}

// CanTransitionTo reports whether an investment may move from s to next.
func (s InvestmentStatus) CanTransitionTo(next InvestmentStatus) bool {
	switch s {
	case InvestmentStatusPending:
		return next == InvestmentStatusActive || next == InvestmentStatusCancelled
	case InvestmentStatusActive:
		return next == InvestmentStatusCompleted || next == InvestmentStatusCancelled
	}
	return false
}

// Investment represents one investor's pledge toward one project
type Investment struct {
	ID               uuid.UUID           `json:"id"`
	InvestorID       uuid.UUID           `json:"investor_id"`
	InvestorName     string              `json:"investor_name,omitempty"`
	ProjectID        uuid.UUID           `json:"project_id"`
	ProjectTitle     string              `json:"project_title,omitempty"`
	Amount           decimal.Decimal     `json:"amount"`
	Status           InvestmentStatus    `json:"status"`
	ExpectedReturn   decimal.Decimal     `json:"expected_return"`
	ActualReturn     decimal.NullDecimal `json:"actual_return"`
	PaymentReference null.String         `json:"payment_reference"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// RowID implements livequery.Row
func (i Investment) RowID() uuid.UUID { return i.ID }

// InvestmentUpdate is a partial investment update. Nil fields are left untouched.
type InvestmentUpdate struct {
	Status           *InvestmentStatus
	ActualReturn     *decimal.NullDecimal
	PaymentReference *string
}

// InvestmentFilter narrows investment listings
type InvestmentFilter struct {
	InvestorID *uuid.UUID
	ProjectID  *uuid.UUID
	FarmerID   *uuid.UUID
	Status     InvestmentStatus
	Order      *Order
	Limit      int
	Offset     int
}
