package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// Principal is the authenticated caller, resolved once at the authentication
// boundary into exactly one of FarmerPrincipal, InvestorPrincipal or AdminPrincipal.
type Principal interface {
	UserID() uuid.UUID
	Role() UserRole
	DisplayName() string
	principal()
}

// FarmerPrincipal is a caller allowed to own projects.
type FarmerPrincipal struct {
	ID    uuid.UUID
	Email string
	Name  string
}

func (p FarmerPrincipal) UserID() uuid.UUID   { return p.ID }
func (FarmerPrincipal) Role() UserRole        { return UserRoleFarmer }
func (p FarmerPrincipal) DisplayName() string { return p.Name }
func (FarmerPrincipal) principal()            {}

// InvestorPrincipal is a caller allowed to place investments.
type InvestorPrincipal struct {
	ID    uuid.UUID
	Email string
	Name  string
}

func (p InvestorPrincipal) UserID() uuid.UUID   { return p.ID }
func (InvestorPrincipal) Role() UserRole        { return UserRoleInvestor }
func (p InvestorPrincipal) DisplayName() string { return p.Name }
func (InvestorPrincipal) principal()            {}

// AdminPrincipal is a caller with oversight permissions.
type AdminPrincipal struct {
	ID    uuid.UUID
	Email string
	Name  string
}

func (p AdminPrincipal) UserID() uuid.UUID   { return p.ID }
func (AdminPrincipal) Role() UserRole        { return UserRoleAdmin }
func (p AdminPrincipal) DisplayName() string { return p.Name }
func (AdminPrincipal) principal()            {}

// NewPrincipal resolves the role-specific principal for an identity.
func NewPrincipal(id uuid.UUID, email, name string, role UserRole) (Principal, error) {
	switch role {
	case UserRoleFarmer:
		return FarmerPrincipal{ID: id, Email: email, Name: name}, nil
	case UserRoleInvestor:
		return InvestorPrincipal{ID: id, Email: email, Name: name}, nil
	case UserRoleAdmin:
		return AdminPrincipal{ID: id, Email: email, Name: name}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// PrincipalFromUser resolves the principal for a stored user.
func PrincipalFromUser(u *User) (Principal, error) {
	return NewPrincipal(u.ID, u.Email, u.Name, u.Role)
}
