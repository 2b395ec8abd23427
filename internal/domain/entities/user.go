package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleFarmer   UserRole = "farmer"
	UserRoleInvestor UserRole = "investor"
	UserRoleAdmin    UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleFarmer, UserRoleInvestor, UserRoleAdmin:
		return true
	}
	return false
}

// KYCStatus represents KYC verification status
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

// User represents a user entity
type User struct {
	ID                uuid.UUID   `json:"id"`
	Email             string      `json:"email"`
	Name              string      `json:"name"`
	PasswordHash      string      `json:"-"`
	Role              UserRole    `json:"role"`
	KYCStatus         KYCStatus   `json:"kyc_status"`
	Phone             null.String `json:"phone"`
	Bio               null.String `json:"bio"`
	Location          null.String `json:"location"`
	AvatarURL         null.String `json:"avatar_url"`
	BankName          null.String `json:"bank_name"`
	BankAccountNumber null.String `json:"bank_account_number"`
	BankAccountName   null.String `json:"bank_account_name"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// RowID implements livequery.Row
func (u User) RowID() uuid.UUID { return u.ID }

// ProfileUpdate carries the editable profile attributes. Nil fields are left untouched.
type ProfileUpdate struct {
	Name              *string
	Phone             *string
	Bio               *string
	Location          *string
	AvatarURL         *string
	BankName          *string
	BankAccountNumber *string
	BankAccountName   *string
}

// UserFilter narrows user listings (admin)
type UserFilter struct {
	Role   UserRole
	Search string
	Limit  int
	Offset int
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}
