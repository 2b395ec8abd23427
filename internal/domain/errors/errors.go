package errors

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrReferenceMissing   = errors.New("referenced resource does not exist")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")

	ErrTermsNotAccepted  = errors.New("terms not accepted")
	ErrBelowMinimum      = errors.New("amount below minimum investment")
	ErrAboveMaximum      = errors.New("amount above maximum investment")
	ErrExceedsRemaining  = errors.New("amount exceeds remaining funding")
	ErrFundingExceeded   = errors.New("funding goal exceeded by concurrent investment")
	ErrProjectNotOpen    = errors.New("project is not open for investment")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnsupportedFile   = errors.New("unsupported file")
)

// Error codes
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeValidation          = "VALIDATION_FAILED"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeInvestmentRejected  = "INVESTMENT_REJECTED"
	CodeInvestmentFailed    = "INVESTMENT_FAILED"
	CodeReferenceMissing    = "REFERENCE_MISSING"
	CodeUnprocessableEntity = "UNPROCESSABLE_ENTITY"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int               `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Validation(fields map[string]string) *AppError {
	e := NewAppError(http.StatusUnprocessableEntity, CodeValidation, "Please correct the highlighted fields", ErrInvalidInput)
	e.Fields = fields
	return e
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}

// TranslateStorage maps gorm errors onto the domain taxonomy. Unknown errors
// pass through unchanged.
func TranslateStorage(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReferenceMissing
	}
	return err
}

// Describe renders the fixed user-facing message for a storage error.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The requested record does not exist"
	case errors.Is(err, ErrAlreadyExists):
		return "A record with these details already exists"
	case errors.Is(err, ErrReferenceMissing):
		return "A referenced record does not exist"
	}
	return "An unexpected error occurred"
}

// FromRepository converts a repository error into an AppError with the
// status matching its taxonomy class.
func FromRepository(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	err = TranslateStorage(err)
	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, Describe(err), err)
	case errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, CodeConflict, Describe(err), err)
	case errors.Is(err, ErrReferenceMissing):
		return NewAppError(http.StatusUnprocessableEntity, CodeReferenceMissing, Describe(err), err)
	}
	return NewAppError(http.StatusInternalServerError, CodeInternalError, Describe(err), err)
}
