package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

const dateLayout = "2006-01-02"

// ProjectForm is the raw project creation input
type ProjectForm struct {
	Title             string `json:"title" validate:"required,min=5,max=100"`
	Description       string `json:"description" validate:"required,min=20,max=5000"`
	Category          string `json:"category" validate:"required,oneof=crops livestock poultry aquaculture horticulture agro_processing equipment other"`
	Location          string `json:"location" validate:"max=120"`
	FundingGoal       Raw    `json:"funding_goal" validate:"required,money"`
	MinimumInvestment Raw    `json:"minimum_investment" validate:"required,money"`
	MaximumInvestment Raw    `json:"maximum_investment" validate:"omitempty,money"`
	ExpectedReturn    Raw    `json:"expected_return" validate:"required,percent"`
	DurationMonths    Raw    `json:"duration_months" validate:"required"`
	RiskLevel         string `json:"risk_level" validate:"required,oneof=low medium high"`
	StartDate         string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate           string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	SaveAsDraft       bool   `json:"save_as_draft"`
}

// ProjectInput is a validated project ready to be stored
type ProjectInput struct {
	Title             string
	Description       string
	Category          entities.ProjectCategory
	Location          string
	FundingGoal       decimal.Decimal
	MinimumInvestment decimal.Decimal
	MaximumInvestment decimal.NullDecimal
	ExpectedReturn    decimal.Decimal
	DurationMonths    int
	RiskLevel         entities.RiskLevel
	StartDate         null.Time
	EndDate           null.Time
	Status            entities.ProjectStatus
}

var projectMessages = map[string]string{
	"category.oneof":   "Choose a valid project category",
	"risk_level.oneof": "Choose a risk level: low, medium or high",
}

// ValidateProject checks a project creation form
func ValidateProject(form ProjectForm) (ProjectInput, FieldErrors) {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	form.Category = strings.ToLower(strings.TrimSpace(form.Category))
	form.Location = strings.TrimSpace(form.Location)
	form.RiskLevel = strings.ToLower(strings.TrimSpace(form.RiskLevel))
	form.StartDate = strings.TrimSpace(form.StartDate)
	form.EndDate = strings.TrimSpace(form.EndDate)

	errs := check(form, projectMessages)

	in := ProjectInput{
		Title:       form.Title,
		Description: form.Description,
		Category:    entities.ProjectCategory(form.Category),
		Location:    form.Location,
		RiskLevel:   entities.RiskLevel(form.RiskLevel),
		Status:      entities.ProjectStatusActive,
	}
	if form.SaveAsDraft {
		in.Status = entities.ProjectStatusDraft
	}

	goal, goalOK := parseMoney(form.FundingGoal.String())
	minInv, minOK := parseMoney(form.MinimumInvestment.String())
	in.FundingGoal, in.MinimumInvestment = goal, minInv
	if goalOK && minOK && minInv.GreaterThan(goal) {
		errs.add("minimum_investment", "Minimum investment cannot exceed the funding goal")
	}
	if maxInv, ok := parseMoney(form.MaximumInvestment.String()); ok {
		in.MaximumInvestment = decimal.NewNullDecimal(maxInv)
		if minOK && maxInv.LessThan(minInv) {
			errs.add("maximum_investment", "Maximum investment cannot be below the minimum investment")
		}
	}
	in.ExpectedReturn, _ = parsePercent(form.ExpectedReturn.String())

	if months, ok := parseMonths(form.DurationMonths.String()); ok {
		in.DurationMonths = months
	} else if form.DurationMonths.String() != "" {
		errs.add("duration_months", "Duration months must be a whole number between 1 and 120")
	}

	in.StartDate, in.EndDate = parseDate(form.StartDate), parseDate(form.EndDate)
	if in.StartDate.Valid && in.EndDate.Valid && !in.EndDate.Time.After(in.StartDate.Time) {
		errs.add("end_date", "End date must be after the start date")
	}

	if !errs.OK() {
		return ProjectInput{}, errs
	}
	return in, errs
}

// ProjectPatchForm is the raw partial project update input
type ProjectPatchForm struct {
	Title             *string `json:"title" validate:"omitempty,min=5,max=100"`
	Description       *string `json:"description" validate:"omitempty,min=20,max=5000"`
	Category          *string `json:"category" validate:"omitempty,oneof=crops livestock poultry aquaculture horticulture agro_processing equipment other"`
	Location          *string `json:"location" validate:"omitempty,max=120"`
	FundingGoal       *Raw    `json:"funding_goal" validate:"omitempty,money"`
	MinimumInvestment *Raw    `json:"minimum_investment" validate:"omitempty,money"`
	MaximumInvestment *Raw    `json:"maximum_investment" validate:"omitempty,money"`
	ExpectedReturn    *Raw    `json:"expected_return" validate:"omitempty,percent"`
	DurationMonths    *Raw    `json:"duration_months"`
	RiskLevel         *string `json:"risk_level" validate:"omitempty,oneof=low medium high"`
	Status            *string `json:"status" validate:"omitempty,oneof=draft active funded completed cancelled"`
	StartDate         *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate           *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// ValidateProjectPatch checks a partial update. Cross-field rules that need the
// stored row are applied by the caller.
func ValidateProjectPatch(form ProjectPatchForm) (entities.ProjectUpdate, FieldErrors) {
	errs := check(form, projectMessages)
	var up entities.ProjectUpdate

	if form.Title != nil {
		v := strings.TrimSpace(*form.Title)
		up.Title = &v
	}
	if form.Description != nil {
		v := strings.TrimSpace(*form.Description)
		up.Description = &v
	}
	if form.Category != nil {
		v := entities.ProjectCategory(strings.ToLower(strings.TrimSpace(*form.Category)))
		up.Category = &v
	}
	if form.Location != nil {
		v := strings.TrimSpace(*form.Location)
		up.Location = &v
	}
	if form.FundingGoal != nil {
		if d, ok := parseMoney(form.FundingGoal.String()); ok {
			up.FundingGoal = &d
		}
	}
	if form.MinimumInvestment != nil {
		if d, ok := parseMoney(form.MinimumInvestment.String()); ok {
			up.MinimumInvestment = &d
		}
	}
	if form.MaximumInvestment != nil {
		v := decimal.NullDecimal{}
		if d, ok := parseMoney(form.MaximumInvestment.String()); ok {
			v = decimal.NewNullDecimal(d)
		}
		up.MaximumInvestment = &v
	}
	if form.ExpectedReturn != nil {
		if d, ok := parsePercent(form.ExpectedReturn.String()); ok {
			up.ExpectedReturn = &d
		}
	}
	if form.DurationMonths != nil {
		if months, ok := parseMonths(form.DurationMonths.String()); ok {
			up.DurationMonths = &months
		} else {
			errs.add("duration_months", "Duration months must be a whole number between 1 and 120")
		}
	}
	if form.RiskLevel != nil {
		v := entities.RiskLevel(strings.ToLower(strings.TrimSpace(*form.RiskLevel)))
		up.RiskLevel = &v
	}
	if form.Status != nil {
		v := entities.ProjectStatus(strings.ToLower(strings.TrimSpace(*form.Status)))
		up.Status = &v
	}
	if form.StartDate != nil {
		v := parseDate(*form.StartDate)
		up.StartDate = &v
	}
	if form.EndDate != nil {
		v := parseDate(*form.EndDate)
		up.EndDate = &v
	}

	if !errs.OK() {
		return entities.ProjectUpdate{}, errs
	}
	if up.Empty() {
		errs.add("_form", "Nothing to update")
		return entities.ProjectUpdate{}, errs
	}
	return up, errs
}

func parseMonths(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 120 {
		return 0, false
	}
	return n, true
}

func parseDate(s string) null.Time {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(t)
}
