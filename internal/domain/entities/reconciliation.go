package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundingMismatch reports a project whose amount_raised disagrees with the
// total of its committed investments.
type FundingMismatch struct {
	ProjectID    uuid.UUID       `json:"project_id"`
	ProjectTitle string          `json:"project_title"`
	AmountRaised decimal.Decimal `json:"amount_raised"`
	Committed    decimal.Decimal `json:"committed"`
}

// Difference is amount_raised minus the committed total
func (m FundingMismatch) Difference() decimal.Decimal {
	return m.AmountRaised.Sub(m.Committed)
}
