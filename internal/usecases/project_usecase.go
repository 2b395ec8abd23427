package usecases

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProjectUsecase manages farmers' funding projects
type ProjectUsecase struct {
	projectRepo    repositories.ProjectRepository
	investmentRepo repositories.InvestmentRepository
	storage        repositories.ObjectStorage
	feed           repositories.ChangeFeed
	imageBucket    string
	maxUploadBytes int64
}

// NewProjectUsecase creates a new project usecase
func NewProjectUsecase(
	projectRepo repositories.ProjectRepository,
	investmentRepo repositories.InvestmentRepository,
	storage repositories.ObjectStorage,
	feed repositories.ChangeFeed,
	imageBucket string,
	maxUploadBytes int64,
) *ProjectUsecase {
	return &ProjectUsecase{
		projectRepo:    projectRepo,
		investmentRepo: investmentRepo,
		storage:        storage,
		feed:           feed,
		imageBucket:    imageBucket,
		maxUploadBytes: maxUploadBytes,
	}
}

// Create lists a new project for farmer. It opens for investment immediately
// unless saved as a draft.
func (u *ProjectUsecase) Create(ctx context.Context, farmer entities.FarmerPrincipal, form validation.ProjectForm) (*entities.Project, error) {
	input, fields := validation.ValidateProject(form)
	if !fields.OK() {
		return nil, domainerrors.Validation(fields)
	}

	now := time.Now().UTC()
	project := &entities.Project{
		ID:                utils.GenerateUUIDv7(),
		FarmerID:          farmer.ID,
		FarmerName:        farmer.Name,
		Title:             input.Title,
		Description:       input.Description,
		Category:          input.Category,
		Location:          input.Location,
		FundingGoal:       input.FundingGoal,
		AmountRaised:      decimal.Zero,
		MinimumInvestment: input.MinimumInvestment,
		MaximumInvestment: input.MaximumInvestment,
		ExpectedReturn:    input.ExpectedReturn,
		DurationMonths:    input.DurationMonths,
		RiskLevel:         input.RiskLevel,
		Status:            input.Status,
		ImageURLs:         []string{},
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("farmer_id", farmer.ID.String()),
		zap.String("status", string(project.Status)),
	)
	publish(ctx, u.feed, inserted(entities.TableProjects, project))
	return project, nil
}

// Get returns a project with its farmer's name
func (u *ProjectUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	return u.projectRepo.GetByID(ctx, id)
}

// List returns projects matching filter
func (u *ProjectUsecase) List(ctx context.Context, filter entities.ProjectFilter) ([]*entities.Project, error) {
	return u.projectRepo.List(ctx, filter)
}

// Update applies a partial update to one of farmer's projects
func (u *ProjectUsecase) Update(ctx context.Context, farmer entities.FarmerPrincipal, id uuid.UUID, form validation.ProjectPatchForm) (*entities.Project, error) {
	update, fields := validation.ValidateProjectPatch(form)
	if !fields.OK() {
		return nil, domainerrors.Validation(fields)
	}

	current, err := u.ownedProject(ctx, farmer, id)
	if err != nil {
		return nil, err
	}
	if update.Status != nil && *update.Status != current.Status && !current.Status.CanTransitionTo(*update.Status) {
		return nil, domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict,
			fmt.Sprintf("A %s project cannot become %s", current.Status, *update.Status),
			domainerrors.ErrInvalidTransition)
	}
	if fields := checkFunding(current, update); !fields.OK() {
		return nil, domainerrors.Validation(fields)
	}
	if reachesGoal(current, update) {
		funded := entities.ProjectStatusFunded
		update.Status = &funded
	}

	project, err := u.projectRepo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	publish(ctx, u.feed, updated(entities.TableProjects, project, current))
	return project, nil
}

// checkFunding re-checks the amount rules against the merged project
func checkFunding(current *entities.Project, update entities.ProjectUpdate) validation.FieldErrors {
	errs := validation.FieldErrors{}
	goal := current.FundingGoal
	if update.FundingGoal != nil {
		goal = *update.FundingGoal
	}
	minimum := current.MinimumInvestment
	if update.MinimumInvestment != nil {
		minimum = *update.MinimumInvestment
	}
	maximum := current.MaximumInvestment
	if update.MaximumInvestment != nil {
		maximum = *update.MaximumInvestment
	}

	if update.FundingGoal != nil && goal.LessThan(current.AmountRaised) {
		errs["funding_goal"] = "Funding goal cannot be lower than the amount already raised (" + current.AmountRaised.StringFixed(2) + ")"
	}
	if minimum.GreaterThan(goal) {
		errs["minimum_investment"] = "Minimum investment cannot exceed the funding goal"
	}
	if maximum.Valid && maximum.Decimal.LessThan(minimum) {
		errs["maximum_investment"] = "Maximum investment cannot be lower than the minimum investment"
	}
	return errs
}

// reachesGoal reports whether an active project's merged goal is already met
// by the amount raised.
func reachesGoal(current *entities.Project, update entities.ProjectUpdate) bool {
	status := current.Status
	if update.Status != nil {
		status = *update.Status
	}
	goal := current.FundingGoal
	if update.FundingGoal != nil {
		goal = *update.FundingGoal
	}
	return status == entities.ProjectStatusActive &&
		current.AmountRaised.IsPositive() &&
		current.AmountRaised.GreaterThanOrEqual(goal)
}

// Delete removes a project. Farmers may delete their own projects while no
// committed investment exists; admins may delete any project.
func (u *ProjectUsecase) Delete(ctx context.Context, p entities.Principal, id uuid.UUID) error {
	var project *entities.Project
	var err error
	switch p := p.(type) {
	case entities.FarmerPrincipal:
		if project, err = u.ownedProject(ctx, p, id); err != nil {
			return err
		}
		count, err := u.investmentRepo.CountCommittedByProject(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domainerrors.Conflict("Projects with investments cannot be deleted")
		}
	case entities.AdminPrincipal:
		if project, err = u.projectRepo.GetByID(ctx, id); err != nil {
			return err
		}
	default:
		return domainerrors.ErrForbidden
	}

	if err := u.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, "Project deleted", zap.String("project_id", id.String()), zap.String("by", p.UserID().String()))
	publish(ctx, u.feed, deleted(entities.TableProjects, project))
	return nil
}

// UploadImage stores an image and appends its URL to the project's gallery
func (u *ProjectUsecase) UploadImage(ctx context.Context, farmer entities.FarmerPrincipal, id uuid.UUID, up Upload) (*entities.Project, error) {
	current, err := u.ownedProject(ctx, farmer, id)
	if err != nil {
		return nil, err
	}
	contentType, ext, body, err := sniff(up, imageTypes, u.maxUploadBytes)
	if err != nil {
		return nil, err
	}

	key := id.String() + "/" + utils.GenerateUUIDv7().String() + ext
	obj, err := u.storage.Upload(ctx, u.imageBucket, key, contentType, body)
	if err != nil {
		return nil, err
	}

	project, err := u.projectRepo.AppendImage(ctx, id, obj.URL)
	if err != nil {
		if delErr := u.storage.Delete(ctx, u.imageBucket, key); delErr != nil {
			logger.Warn(ctx, "Failed to remove orphaned project image", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	publish(ctx, u.feed, updated(entities.TableProjects, project, current))
	return project, nil
}

func (u *ProjectUsecase) ownedProject(ctx context.Context, farmer entities.FarmerPrincipal, id uuid.UUID) (*entities.Project, error) {
	project, err := u.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.FarmerID != farmer.ID {
		return nil, domainerrors.Forbidden("You can only manage your own projects")
	}
	return project, nil
}
