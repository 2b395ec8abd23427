package validation

import (
	"strings"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/shopspring/decimal"
)

// InvestmentStatusForm is an admin's investment status change
type InvestmentStatusForm struct {
	Status           string `json:"status" validate:"required,oneof=active completed cancelled"`
	ActualReturn     Raw    `json:"actual_return"`
	PaymentReference string `json:"payment_reference" validate:"max=64"`
}

// ValidateInvestmentStatus returns the investment update an admin requested
func ValidateInvestmentStatus(form InvestmentStatusForm) (entities.InvestmentUpdate, FieldErrors) {
	form.PaymentReference = strings.TrimSpace(form.PaymentReference)
	errs := check(form, nil)

	var actual decimal.NullDecimal
	if s := form.ActualReturn.String(); s != "" {
		d, ok := parseSignedMoney(s)
		if !ok {
			errs.add("actual_return", "Actual return must be an amount with at most two decimals")
		} else {
			actual = decimal.NewNullDecimal(d)
		}
	}
	if actual.Valid && form.Status != string(entities.InvestmentStatusCompleted) {
		errs.add("actual_return", "Actual return can only be recorded when completing an investment")
	}
	if !errs.OK() {
		return entities.InvestmentUpdate{}, errs
	}

	status := entities.InvestmentStatus(form.Status)
	update := entities.InvestmentUpdate{Status: &status}
	if actual.Valid {
		update.ActualReturn = &actual
	}
	if form.PaymentReference != "" {
		update.PaymentReference = &form.PaymentReference
	}
	return update, errs
}

// KYCReviewForm is an admin's decision on a KYC document
type KYCReviewForm struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Reason string `json:"reason" validate:"max=500"`
}

// KYCReviewInput is a validated review
type KYCReviewInput struct {
	Status entities.DocumentStatus
	Reason string
}

// ValidateKYCReview requires a reason when rejecting
func ValidateKYCReview(form KYCReviewForm) (KYCReviewInput, FieldErrors) {
	form.Reason = strings.TrimSpace(form.Reason)
	errs := check(form, nil)
	if form.Status == string(entities.DocumentStatusRejected) && form.Reason == "" {
		errs.add("reason", "A reason is required when rejecting a document")
	}
	if !errs.OK() {
		return KYCReviewInput{}, errs
	}
	input := KYCReviewInput{Status: entities.DocumentStatus(form.Status)}
	if input.Status == entities.DocumentStatusRejected {
		input.Reason = form.Reason
	}
	return input, errs
}
