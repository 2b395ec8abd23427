package validation

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bounds are the platform-wide absolute limits on a single investment
type Bounds struct {
	Min      decimal.Decimal
	Max      decimal.Decimal
	Currency string
}

// InvestmentForm is the raw investment input
type InvestmentForm struct {
	ProjectID       string `json:"project_id" validate:"required,uuid"`
	Amount          Raw    `json:"amount" validate:"required,money"`
	AcceptTerms     bool   `json:"accept_terms" validate:"required"`
	DeferredPayment bool   `json:"deferred_payment"`
}

// InvestmentInput is a validated investment request. Project-specific limits
// are enforced later against a fresh project snapshot.
type InvestmentInput struct {
	ProjectID       uuid.UUID
	Amount          decimal.Decimal
	DeferredPayment bool
}

// ValidateInvestment checks an investment form against the global bounds
func ValidateInvestment(form InvestmentForm, bounds Bounds) (InvestmentInput, FieldErrors) {
	form.ProjectID = strings.TrimSpace(form.ProjectID)
	errs := check(form, map[string]string{
		"accept_terms.required": "You must accept the investment terms",
		"amount.money":          "Enter a valid investment amount",
	})

	amount, ok := parseMoney(form.Amount.String())
	if ok {
		if !bounds.Min.IsZero() && amount.LessThan(bounds.Min) {
			errs.add("amount", "Amount must be at least "+formatMoney(bounds.Min, bounds.Currency))
		}
		if !bounds.Max.IsZero() && amount.GreaterThan(bounds.Max) {
			errs.add("amount", "Amount cannot exceed "+formatMoney(bounds.Max, bounds.Currency))
		}
	}
	if !errs.OK() {
		return InvestmentInput{}, errs
	}

	return InvestmentInput{
		ProjectID:       uuid.MustParse(form.ProjectID),
		Amount:          amount,
		DeferredPayment: form.DeferredPayment,
	}, errs
}

func formatMoney(d decimal.Decimal, currency string) string {
	s := d.StringFixed(2)
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// FormatMoney renders an amount with its currency code, e.g. "USD 1000.00".
func FormatMoney(d decimal.Decimal, currency string) string {
	return formatMoney(d, currency)
}
