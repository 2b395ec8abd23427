package repositories

import (
	"context"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectRepository defines project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *entities.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Project, error)
	List(ctx context.Context, filter entities.ProjectFilter) ([]*entities.Project, error)
	Update(ctx context.Context, id uuid.UUID, update entities.ProjectUpdate) (*entities.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementRaised adds delta to amount_raised if the project is active and
	// the new total stays within the goal, flipping it to funded when the goal
	// is reached. Returns ErrFundingExceeded when no row qualified.
	IncrementRaised(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	// DecrementRaised subtracts delta, reverting funded to active when the
	// total drops below the goal.
	DecrementRaised(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	AppendImage(ctx context.Context, id uuid.UUID, url string) (*entities.Project, error)
}
