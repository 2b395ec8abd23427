package repositories

import (
	"context"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/google/uuid"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, id uuid.UUID, update entities.ProfileUpdate) (*entities.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateKYCStatus(ctx context.Context, id uuid.UUID, status entities.KYCStatus) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, error)
}
