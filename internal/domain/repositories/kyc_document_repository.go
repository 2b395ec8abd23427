package repositories

import (
	"context"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/google/uuid"
)

// KYCDocumentRepository defines KYC document data operations
type KYCDocumentRepository interface {
	Create(ctx context.Context, doc *entities.KYCDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.KYCDocument, error)
	List(ctx context.Context, filter entities.KYCDocumentFilter) ([]*entities.KYCDocument, error)
	Review(ctx context.Context, id uuid.UUID, status entities.DocumentStatus, reason string, reviewer uuid.UUID) (*entities.KYCDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
