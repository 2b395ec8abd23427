package validation

import (
	"strings"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
)

// SignUpForm is the raw sign-up input
type SignUpForm struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,password"`
	Role     string `json:"role" validate:"required,oneof=farmer investor"`
}

// SignUpInput is a validated sign-up request
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     entities.UserRole
}

// ValidateSignUp checks a sign-up form. Admin accounts cannot self-register.
func ValidateSignUp(form SignUpForm) (SignUpInput, FieldErrors) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.Role = strings.ToLower(strings.TrimSpace(form.Role))

	errs := check(form, map[string]string{
		"role.oneof": "Choose whether you are a farmer or an investor",
	})
	if !errs.OK() {
		return SignUpInput{}, errs
	}
	return SignUpInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     entities.UserRole(form.Role),
	}, errs
}

// LoginForm is the raw sign-in input
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ValidateLogin checks a sign-in form and normalizes the email
func ValidateLogin(form LoginForm) (LoginForm, FieldErrors) {
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	errs := check(form, nil)
	if !errs.OK() {
		return LoginForm{}, errs
	}
	return form, errs
}

// PasswordForm is the raw change-password input
type PasswordForm struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,password"`
}

// ValidatePassword checks a change-password form
func ValidatePassword(form PasswordForm) (PasswordForm, FieldErrors) {
	errs := check(form, nil)
	if errs.OK() && form.CurrentPassword == form.NewPassword {
		errs.add("new_password", "New password must differ from the current one")
	}
	if !errs.OK() {
		return PasswordForm{}, errs
	}
	return form, errs
}

// RefreshForm carries a refresh token
type RefreshForm struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ValidateRefresh checks a refresh request
func ValidateRefresh(form RefreshForm) (RefreshForm, FieldErrors) {
	form.RefreshToken = strings.TrimSpace(form.RefreshToken)
	return form, check(form, nil)
}
