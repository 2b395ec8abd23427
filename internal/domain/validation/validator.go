// Package validation turns raw form input into normalized domain values or a
// set of field-keyed messages. Every function here is pure and never panics.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a JSON field name to a human-readable message
type FieldErrors map[string]string

// OK reports whether no field failed.
func (fe FieldErrors) OK() bool { return len(fe) == 0 }

func (fe FieldErrors) add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Raw holds a form value as text whether it arrived as a JSON string or number.
type Raw string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (r *Raw) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Raw(s)
		return nil
	}
	*r = Raw(b)
	return nil
}

func (r Raw) String() string { return strings.TrimSpace(string(r)) }

var (
	phonePattern  = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)

	// Decimal fields take plain notation only; exponent forms are rejected
	// before they reach the decimal parser.
	moneyPattern       = regexp.MustCompile(`^[0-9]{1,15}(\.[0-9]{1,2})?$`)
	signedMoneyPattern = regexp.MustCompile(`^-?[0-9]{1,15}(\.[0-9]{1,2})?$`)
	percentPattern     = regexp.MustCompile(`^[0-9]{1,3}(\.[0-9]{1,2})?$`)

	instance *validator.Validate
	initOnce sync.Once
)

func engine() *validator.Validate {
	initOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("password", isStrongPassword)
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(normalizePhone(fl.Field().String()))
		})
		_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
			return digitsPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
			_, ok := parseMoney(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("percent", func(fl validator.FieldLevel) bool {
			_, ok := parsePercent(fl.Field().String())
			return ok
		})
		instance = v
	})
	return instance
}

func isStrongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

func normalizePhone(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(s))
}

// parseMoney accepts a positive decimal with at most two fractional digits.
func parseMoney(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !moneyPattern.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// parseSignedMoney is parseMoney allowing zero and negative amounts.
func parseSignedMoney(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !signedMoneyPattern.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

// parsePercent accepts 0 to 100 with at most two fractional digits.
func parsePercent(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !percentPattern.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, false
	}
	return d, true
}

// check runs struct validation and renders one message per failing field.
func check(form interface{}, overrides map[string]string) FieldErrors {
	errs := FieldErrors{}
	err := engine().Struct(form)
	if err == nil {
		return errs
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.add("_form", "The form could not be validated")
		return errs
	}
	for _, fe := range verrs {
		field := fe.Field()
		if msg, ok := overrides[field+"."+fe.Tag()]; ok {
			errs.add(field, msg)
			continue
		}
		if msg, ok := overrides[field]; ok {
			errs.add(field, msg)
			continue
		}
		errs.add(field, message(fe))
	}
	return errs
}

func label(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func message(fe validator.FieldError) string {
	name := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "email":
		return "Enter a valid email address"
	case "password":
		return "Password must be at least 8 characters and include an uppercase letter, a lowercase letter and a number"
	case "phone":
		return "Enter a valid phone number"
	case "digits":
		return name + " must contain digits only"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "money":
		return name + " must be a positive amount with at most two decimals"
	case "percent":
		return name + " must be between 0 and 100"
	case "url":
		return name + " must be a valid URL"
	case "uuid":
		return name + " is not a valid identifier"
	case "datetime":
		return name + " must be a date in YYYY-MM-DD format"
	}
	return name + " is invalid"
}
