package repositories

import (
	"context"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

var investmentOrderColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"amount":     true,
	"status":     true,
}

var committedInvestmentStatuses = []string{
	string(entities.InvestmentStatusPending),
	string(entities.InvestmentStatusActive),
	string(entities.InvestmentStatusCompleted),
}

// InvestmentRepository implements investment data operations
type InvestmentRepository struct {
	db *gorm.DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// Create inserts a new investment
func (r *InvestmentRepository) Create(ctx context.Context, inv *entities.Investment) error {
	m := &models.Investment{
		ID:               inv.ID,
		InvestorID:       inv.InvestorID,
		ProjectID:        inv.ProjectID,
		Amount:           inv.Amount,
		Status:           string(inv.Status),
		ExpectedReturn:   inv.ExpectedReturn,
		ActualReturn:     inv.ActualReturn,
		PaymentReference: inv.PaymentReference.Ptr(),
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
	return domainerrors.TranslateStorage(GetDB(ctx, r.db).Create(m).Error)
}

func (r *InvestmentRepository) joined(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).
		Table("investments").
		Select("investments.*, projects.title AS project_title, users.name AS investor_name").
		Joins("LEFT JOIN projects ON projects.id = investments.project_id").
		Joins("LEFT JOIN users ON users.id = investments.investor_id")
}

// GetByID returns an investment joined with its project title
func (r *InvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Investment, error) {
	var row models.InvestmentWithRefs
	if err := r.joined(ctx).Where("investments.id = ?", id).Take(&row).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}
	return toInvestmentEntity(&row), nil
}

// List returns investments matching filter
func (r *InvestmentRepository) List(ctx context.Context, filter entities.InvestmentFilter) ([]*entities.Investment, error) {
	query := r.joined(ctx)
	if filter.InvestorID != nil {
		query = query.Where("investments.investor_id = ?", *filter.InvestorID)
	}
	if filter.ProjectID != nil {
		query = query.Where("investments.project_id = ?", *filter.ProjectID)
	}
	if filter.FarmerID != nil {
		query = query.Where("projects.farmer_id = ?", *filter.FarmerID)
	}
	if filter.Status != "" {
		query = query.Where("investments.status = ?", string(filter.Status))
	}
	query = query.Order(orderClause("investments", investmentOrderColumns, filter.Order, "investments.created_at DESC"))
	query = paginate(query, filter.Limit, filter.Offset)

	var rows []models.InvestmentWithRefs
	if err := query.Find(&rows).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}
	items := make([]*entities.Investment, 0, len(rows))
	for i := range rows {
		items = append(items, toInvestmentEntity(&rows[i]))
	}
	return items, nil
}

// Update applies a partial update and returns the stored row
func (r *InvestmentRepository) Update(ctx context.Context, id uuid.UUID, update entities.InvestmentUpdate) (*entities.Investment, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if update.Status != nil {
		updates["status"] = string(*update.Status)
	}
	if update.ActualReturn != nil {
		updates["actual_return"] = *update.ActualReturn
	}
	if update.PaymentReference != nil {
		updates["payment_reference"] = strPtr(update.PaymentReference)
	}

	result := GetDB(ctx, r.db).Model(&models.Investment{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes an investment
func (r *InvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.Investment{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CountCommittedByProject counts investments that still hold funds in a project
func (r *InvestmentRepository) CountCommittedByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Investment{}).
		Where("project_id = ? AND status IN ?", projectID, committedInvestmentStatuses).
		Count(&count).Error
	if err != nil {
		return 0, domainerrors.TranslateStorage(err)
	}
	return count, nil
}

type projectTotal struct {
	ProjectID uuid.UUID
	Total     decimal.Decimal
}

// SumCommittedByProject totals committed investments per project
func (r *InvestmentRepository) SumCommittedByProject(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	var totals []projectTotal
	err := GetDB(ctx, r.db).Model(&models.Investment{}).
		Select("project_id, SUM(amount) AS total").
		Where("status IN ?", committedInvestmentStatuses).
		Group("project_id").
		Scan(&totals).Error
	if err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}

	out := make(map[uuid.UUID]decimal.Decimal, len(totals))
	for _, t := range totals {
		out[t.ProjectID] = t.Total
	}
	return out, nil
}

func toInvestmentEntity(row *models.InvestmentWithRefs) *entities.Investment {
	m := &row.Investment
	return &entities.Investment{
		ID:               m.ID,
		InvestorID:       m.InvestorID,
		InvestorName:     row.InvestorName,
		ProjectID:        m.ProjectID,
		ProjectTitle:     row.ProjectTitle,
		Amount:           m.Amount,
		Status:           entities.InvestmentStatus(m.Status),
		ExpectedReturn:   m.ExpectedReturn,
		ActualReturn:     m.ActualReturn,
		PaymentReference: null.StringFromPtr(m.PaymentReference),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
