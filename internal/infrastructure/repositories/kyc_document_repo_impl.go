package repositories

import (
	"context"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// KYCDocumentRepository implements KYC document data operations
type KYCDocumentRepository struct {
	db *gorm.DB
}

// NewKYCDocumentRepository creates a new KYC document repository
func NewKYCDocumentRepository(db *gorm.DB) *KYCDocumentRepository {
	return &KYCDocumentRepository{db: db}
}

// Create inserts a new document record
func (r *KYCDocumentRepository) Create(ctx context.Context, doc *entities.KYCDocument) error {
	m := &models.KYCDocument{
		ID:              doc.ID,
		UserID:          doc.UserID,
		DocumentType:    string(doc.DocumentType),
		FileURL:         doc.FileURL,
		FilePath:        doc.FilePath,
		FileName:        doc.FileName,
		ContentType:     doc.ContentType,
		FileSize:        doc.FileSize,
		Status:          string(doc.Status),
		RejectionReason: doc.RejectionReason.Ptr(),
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
	return domainerrors.TranslateStorage(GetDB(ctx, r.db).Create(m).Error)
}

// GetByID gets a document by ID
func (r *KYCDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.KYCDocument, error) {
	var m models.KYCDocument
	if err := GetDB(ctx, r.db).Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}
	return toKYCDocumentEntity(&m), nil
}

// List returns documents matching filter, newest first
func (r *KYCDocumentRepository) List(ctx context.Context, filter entities.KYCDocumentFilter) ([]*entities.KYCDocument, error) {
	query := GetDB(ctx, r.db).Model(&models.KYCDocument{}).Order("created_at DESC")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.DocumentType != "" {
		query = query.Where("document_type = ?", string(filter.DocumentType))
	}
	query = paginate(query, filter.Limit, filter.Offset)

	var rows []models.KYCDocument
	if err := query.Find(&rows).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}
	docs := make([]*entities.KYCDocument, 0, len(rows))
	for i := range rows {
		docs = append(docs, toKYCDocumentEntity(&rows[i]))
	}
	return docs, nil
}

// Review records an admin decision on a document
func (r *KYCDocumentRepository) Review(ctx context.Context, id uuid.UUID, status entities.DocumentStatus, reason string, reviewer uuid.UUID) (*entities.KYCDocument, error) {
	now := time.Now().UTC()
	var rejection *string
	if reason != "" {
		rejection = &reason
	}
	result := GetDB(ctx, r.db).Model(&models.KYCDocument{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":           string(status),
		"rejection_reason": rejection,
		"reviewed_by":      reviewer,
		"reviewed_at":      now,
		"updated_at":       now,
	})
	if result.Error != nil {
		return nil, domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a document record
func (r *KYCDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.KYCDocument{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toKYCDocumentEntity(m *models.KYCDocument) *entities.KYCDocument {
	doc := &entities.KYCDocument{
		ID:              m.ID,
		UserID:          m.UserID,
		DocumentType:    entities.DocumentType(m.DocumentType),
		FileURL:         m.FileURL,
		FilePath:        m.FilePath,
		FileName:        m.FileName,
		ContentType:     m.ContentType,
		FileSize:        m.FileSize,
		Status:          entities.DocumentStatus(m.Status),
		RejectionReason: null.StringFromPtr(m.RejectionReason),
		ReviewedAt:      null.TimeFromPtr(m.ReviewedAt),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.ReviewedBy != nil {
		doc.ReviewedBy = null.StringFrom(m.ReviewedBy.String())
	}
	return doc
}
