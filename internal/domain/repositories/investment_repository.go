package repositories

import (
	"context"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentRepository defines investment data operations
type InvestmentRepository interface {
	Create(ctx context.Context, investment *entities.Investment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Investment, error)
	List(ctx context.Context, filter entities.InvestmentFilter) ([]*entities.Investment, error)
	Update(ctx context.Context, id uuid.UUID, update entities.InvestmentUpdate) (*entities.Investment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountCommittedByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	// SumCommittedByProject totals pending, active and completed investments per project.
	SumCommittedByProject(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)
}
