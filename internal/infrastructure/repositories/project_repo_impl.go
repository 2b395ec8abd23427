package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var projectOrderColumns = map[string]bool{
	"created_at":         true,
	"updated_at":         true,
	"title":              true,
	"funding_goal":       true,
	"amount_raised":      true,
	"minimum_investment": true,
	"expected_return":    true,
	"duration_months":    true,
	"risk_level":         true,
}

// ProjectRepository implements project data operations
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, p *entities.Project) error {
	images := p.ImageURLs
	if images == nil {
		images = []string{}
	}
	m := &models.Project{
		ID:                p.ID,
		FarmerID:          p.FarmerID,
		Title:             p.Title,
		Description:       p.Description,
		Category:          string(p.Category),
		Location:          p.Location,
		FundingGoal:       p.FundingGoal,
		AmountRaised:      p.AmountRaised,
		MinimumInvestment: p.MinimumInvestment,
		MaximumInvestment: p.MaximumInvestment,
		ExpectedReturn:    p.ExpectedReturn,
		DurationMonths:    p.DurationMonths,
		RiskLevel:         string(p.RiskLevel),
		Status:            string(p.Status),
		ImageURLs:         datatypes.JSONSlice[string](images),
		StartDate:         p.StartDate.Ptr(),
		EndDate:           p.EndDate.Ptr(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	return domainerrors.TranslateStorage(GetDB(ctx, r.db).Create(m).Error)
}

func (r *ProjectRepository) joined(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).
		Table("projects").
		Select("projects.*, users.name AS farmer_name").
		Joins("LEFT JOIN users ON users.id = projects.farmer_id")
}

// GetByID returns a project joined with its farmer's name
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	var row models.ProjectWithFarmer
	if err := r.joined(ctx).Where("projects.id = ?", id).Take(&row).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}
	return toProjectEntity(&row), nil
}

// List returns projects matching filter. An empty result is not an error.
func (r *ProjectRepository) List(ctx context.Context, filter entities.ProjectFilter) ([]*entities.Project, error) {
	query := r.joined(ctx)

	if filter.FarmerID != nil {
		query = query.Where("projects.farmer_id = ?", *filter.FarmerID)
	}
	if filter.Status != "" {
		query = query.Where("projects.status = ?", string(filter.Status))
	}
	if filter.Category != "" {
		query = query.Where("projects.category = ?", string(filter.Category))
	}
	if filter.RiskLevel != "" {
		query = query.Where("projects.risk_level = ?", string(filter.RiskLevel))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		term := likePattern(strings.ToLower(s))
		query = query.Where(`LOWER(projects.title) LIKE ? ESCAPE '\' OR LOWER(projects.description) LIKE ? ESCAPE '\' OR LOWER(projects.location) LIKE ? ESCAPE '\'`, term, term, term)
	}
	query = query.Order(orderClause("projects", projectOrderColumns, filter.Order, "projects.created_at DESC"))
	query = paginate(query, filter.Limit, filter.Offset)

	var rows []models.ProjectWithFarmer
	if err := query.Find(&rows).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}

	projects := make([]*entities.Project, 0, len(rows))
	for i := range rows {
		projects = append(projects, toProjectEntity(&rows[i]))
	}
	return projects, nil
}

// Update applies a partial update, stamps updated_at and returns the stored row
func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, update entities.ProjectUpdate) (*entities.Project, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Category != nil {
		updates["category"] = string(*update.Category)
	}
	if update.Location != nil {
		updates["location"] = *update.Location
	}
	if update.FundingGoal != nil {
		updates["funding_goal"] = *update.FundingGoal
	}
	if update.MinimumInvestment != nil {
		updates["minimum_investment"] = *update.MinimumInvestment
	}
	if update.MaximumInvestment != nil {
		updates["maximum_investment"] = *update.MaximumInvestment
	}
	if update.ExpectedReturn != nil {
		updates["expected_return"] = *update.ExpectedReturn
	}
	if update.DurationMonths != nil {
		updates["duration_months"] = *update.DurationMonths
	}
	if update.RiskLevel != nil {
		updates["risk_level"] = string(*update.RiskLevel)
	}
	if update.Status != nil {
		updates["status"] = string(*update.Status)
	}
	if update.StartDate != nil {
		updates["start_date"] = update.StartDate.Ptr()
	}
	if update.EndDate != nil {
		updates["end_date"] = update.EndDate.Ptr()
	}

	result := GetDB(ctx, r.db).Model(&models.Project{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a project
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// IncrementRaised adds delta in a single conditional statement so concurrent
// investors can never push amount_raised past the goal.
func (r *ProjectRepository) IncrementRaised(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	funded := string(entities.ProjectStatusFunded)
	result := GetDB(ctx, r.db).Model(&models.Project{}).
		Where("id = ? AND status = ? AND amount_raised + ? <= funding_goal", id, string(entities.ProjectStatusActive), delta).
		Updates(map[string]interface{}{
			"amount_raised": gorm.Expr("amount_raised + ?", delta),
			"status":        gorm.Expr("CASE WHEN amount_raised + ? >= funding_goal THEN ? ELSE status END", delta, funded),
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrFundingExceeded
	}
	return nil
}

// DecrementRaised subtracts delta and reopens a funded project that drops
// below its goal.
func (r *ProjectRepository) DecrementRaised(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	result := GetDB(ctx, r.db).Model(&models.Project{}).
		Where("id = ? AND amount_raised - ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"amount_raised": gorm.Expr("amount_raised - ?", delta),
			"status": gorm.Expr("CASE WHEN status = ? AND amount_raised - ? < funding_goal THEN ? ELSE status END",
				string(entities.ProjectStatusFunded), delta, string(entities.ProjectStatusActive)),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// AppendImage adds url to the project's image list
func (r *ProjectRepository) AppendImage(ctx context.Context, id uuid.UUID, url string) (*entities.Project, error) {
	var m models.Project
	db := GetDB(ctx, r.db)
	if err := db.Select("id", "image_urls").Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}

	images := append([]string{}, m.ImageURLs...)
	images = append(images, url)
	if err := db.Model(&models.Project{}).Where("id = ?", id).Updates(map[string]interface{}{
		"image_urls": datatypes.JSONSlice[string](images),
		"updated_at": time.Now().UTC(),
	}).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}
	return r.GetByID(ctx, id)
}

func toProjectEntity(row *models.ProjectWithFarmer) *entities.Project {
	m := &row.Project
	images := []string(m.ImageURLs)
	if images == nil {
		images = []string{}
	}
	return &entities.Project{
		ID:                m.ID,
		FarmerID:          m.FarmerID,
		FarmerName:        row.FarmerName,
		Title:             m.Title,
		Description:       m.Description,
		Category:          entities.ProjectCategory(m.Category),
		Location:          m.Location,
		FundingGoal:       m.FundingGoal,
		AmountRaised:      m.AmountRaised,
		MinimumInvestment: m.MinimumInvestment,
		MaximumInvestment: m.MaximumInvestment,
		ExpectedReturn:    m.ExpectedReturn,
		DurationMonths:    m.DurationMonths,
		RiskLevel:         entities.RiskLevel(m.RiskLevel),
		Status:            entities.ProjectStatus(m.Status),
		ImageURLs:         images,
		StartDate:         null.TimeFromPtr(m.StartDate),
		EndDate:           null.TimeFromPtr(m.EndDate),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
