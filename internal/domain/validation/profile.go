package validation

import (
	"strings"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
)

// ProfileForm is the raw profile edit input. Empty optional fields clear the stored value.
type ProfileForm struct {
	Name              string `json:"name" validate:"required,min=2,max=100"`
	Phone             string `json:"phone" validate:"omitempty,phone"`
	Bio               string `json:"bio" validate:"max=500"`
	Location          string `json:"location" validate:"max=120"`
	AvatarURL         string `json:"avatar_url" validate:"omitempty,url"`
	BankName          string `json:"bank_name" validate:"max=100"`
	BankAccountNumber string `json:"bank_account_number" validate:"omitempty,digits,min=6,max=20"`
	BankAccountName   string `json:"bank_account_name" validate:"max=100"`
}

// ValidateProfile checks a profile form and returns the update to apply
func ValidateProfile(form ProfileForm) (entities.ProfileUpdate, FieldErrors) {
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = normalizePhone(form.Phone)
	form.Bio = strings.TrimSpace(form.Bio)
	form.Location = strings.TrimSpace(form.Location)
	form.AvatarURL = strings.TrimSpace(form.AvatarURL)
	form.BankName = strings.TrimSpace(form.BankName)
	form.BankAccountNumber = strings.ReplaceAll(strings.TrimSpace(form.BankAccountNumber), " ", "")
	form.BankAccountName = strings.TrimSpace(form.BankAccountName)

	errs := check(form, map[string]string{
		"bank_account_number.min": "Bank account number must be 6 to 20 digits",
		"bank_account_number.max": "Bank account number must be 6 to 20 digits",
	})
	if !errs.OK() {
		return entities.ProfileUpdate{}, errs
	}

	return entities.ProfileUpdate{
		Name:              &form.Name,
		Phone:             &form.Phone,
		Bio:               &form.Bio,
		Location:          &form.Location,
		AvatarURL:         &form.AvatarURL,
		BankName:          &form.BankName,
		BankAccountNumber: &form.BankAccountNumber,
		BankAccountName:   &form.BankAccountName,
	}, errs
}
