package usecases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/reports"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/crypto"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/metrics"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

const investmentFailedMessage = "Investment failed. Please try again."

// InvestmentUsecase places and manages investments
type InvestmentUsecase struct {
	uow              repositories.UnitOfWork
	projectRepo      repositories.ProjectRepository
	investmentRepo   repositories.InvestmentRepository
	notificationRepo repositories.NotificationRepository
	feed             repositories.ChangeFeed
	bounds           validation.Bounds
}

// NewInvestmentUsecase creates a new investment usecase
func NewInvestmentUsecase(
	uow repositories.UnitOfWork,
	projectRepo repositories.ProjectRepository,
	investmentRepo repositories.InvestmentRepository,
	notificationRepo repositories.NotificationRepository,
	feed repositories.ChangeFeed,
	bounds validation.Bounds,
) *InvestmentUsecase {
	return &InvestmentUsecase{
		uow:              uow,
		projectRepo:      projectRepo,
		investmentRepo:   investmentRepo,
		notificationRepo: notificationRepo,
		feed:             feed,
		bounds:           bounds,
	}
}

// Invest records an investment, raises the project's total and notifies the
// farmer and investor in one transaction. Change events are published once
// the transaction has committed.
func (u *InvestmentUsecase) Invest(ctx context.Context, investor entities.InvestorPrincipal, form validation.InvestmentForm) (*entities.Investment, error) {
	input, fields := validation.ValidateInvestment(form, u.bounds)
	if !fields.OK() {
		metrics.InvestmentsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, domainerrors.Validation(fields)
	}

	reference, err := crypto.GeneratePaymentReference()
	if err != nil {
		return nil, u.failed(ctx, err)
	}

	var (
		investment *entities.Investment
		before     *entities.Project
		after      *entities.Project
		notes      []*entities.Notification
	)
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		project, err := u.projectRepo.GetByID(txCtx, input.ProjectID)
		if err != nil {
			return err
		}
		if err := u.checkAmount(project, input.Amount); err != nil {
			return err
		}
		before = project

		now := time.Now().UTC()
		status := entities.InvestmentStatusActive
		if input.DeferredPayment {
			status = entities.InvestmentStatusPending
		}
		investment = &entities.Investment{
			ID:               utils.GenerateUUIDv7(),
			InvestorID:       investor.ID,
			InvestorName:     investor.Name,
			ProjectID:        project.ID,
			ProjectTitle:     project.Title,
			Amount:           input.Amount,
			Status:           status,
			ExpectedReturn:   project.ExpectedReturn,
			PaymentReference: null.StringFrom(reference),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := u.investmentRepo.Create(txCtx, investment); err != nil {
			return err
		}

		if err := u.projectRepo.IncrementRaised(txCtx, project.ID, input.Amount); err != nil {
			return err
		}
		after, err = u.projectRepo.GetByID(txCtx, project.ID)
		if err != nil {
			return err
		}

		notes = investmentNotifications(investor, investment, after, u.bounds.Currency)
		for _, n := range notes {
			if err := u.notificationRepo.Create(txCtx, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, u.rejectOrFail(ctx, err)
	}

	metrics.InvestmentsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logger.Info(ctx, "Investment placed",
		zap.String("investment_id", investment.ID.String()),
		zap.String("project_id", investment.ProjectID.String()),
		zap.String("amount", investment.Amount.StringFixed(2)),
		zap.String("project_status", string(after.Status)),
	)

	changes := []change{
		inserted(entities.TableInvestments, investment),
		updated(entities.TableProjects, after, before),
	}
	publish(ctx, u.feed, append(changes, notificationChanges(notes)...)...)
	return investment, nil
}

// checkAmount applies the project-specific limits against a fresh snapshot
func (u *InvestmentUsecase) checkAmount(p *entities.Project, amount decimal.Decimal) error {
	if p.Status != entities.ProjectStatusActive {
		return rejection(http.StatusConflict, "This project is not accepting investments", domainerrors.ErrProjectNotOpen)
	}
	remaining := p.Remaining()
	if amount.GreaterThan(remaining) {
		return rejection(http.StatusUnprocessableEntity,
			"Amount exceeds the remaining funding of "+validation.FormatMoney(remaining, u.bounds.Currency),
			domainerrors.ErrExceedsRemaining)
	}
	// the investment that closes a project may be smaller than the minimum
	closing := remaining.LessThan(p.MinimumInvestment) && amount.Equal(remaining)
	if amount.LessThan(p.MinimumInvestment) && !closing {
		return rejection(http.StatusUnprocessableEntity,
			"Minimum investment for this project is "+validation.FormatMoney(p.MinimumInvestment, u.bounds.Currency),
			domainerrors.ErrBelowMinimum)
	}
	if p.MaximumInvestment.Valid && amount.GreaterThan(p.MaximumInvestment.Decimal) {
		return rejection(http.StatusUnprocessableEntity,
			"Maximum investment for this project is "+validation.FormatMoney(p.MaximumInvestment.Decimal, u.bounds.Currency),
			domainerrors.ErrAboveMaximum)
	}
	return nil
}

func investmentNotifications(investor entities.InvestorPrincipal, inv *entities.Investment, project *entities.Project, currency string) []*entities.Notification {
	amount := validation.FormatMoney(inv.Amount, currency)
	notes := []*entities.Notification{
		newNotification(project.FarmerID, entities.NotificationInvestment,
			"New Investment Received",
			fmt.Sprintf("%s invested %s in %q", investor.Name, amount, project.Title),
			"/projects/"+project.ID.String()),
		newNotification(investor.ID, entities.NotificationInvestment,
			"Investment Confirmed",
			fmt.Sprintf("Your investment of %s in %q has been recorded", amount, project.Title),
			"/investments/"+inv.ID.String()),
	}
	if project.Status == entities.ProjectStatusFunded {
		notes = append(notes, newNotification(project.FarmerID, entities.NotificationFunding,
			"Project Fully Funded",
			fmt.Sprintf("%q has reached its funding goal of %s", project.Title, validation.FormatMoney(project.FundingGoal, currency)),
			"/projects/"+project.ID.String()))
	}
	return notes
}

func rejection(status int, message string, cause error) *domainerrors.AppError {
	return domainerrors.NewAppError(status, domainerrors.CodeInvestmentRejected, message, cause)
}

func (u *InvestmentUsecase) rejectOrFail(ctx context.Context, err error) error {
	var appErr *domainerrors.AppError
	switch {
	case errors.As(err, &appErr):
		metrics.InvestmentsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return appErr
	case errors.Is(err, domainerrors.ErrNotFound):
		metrics.InvestmentsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return domainerrors.NotFound("Project not found")
	case errors.Is(err, domainerrors.ErrFundingExceeded):
		metrics.InvestmentsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
		return rejection(http.StatusConflict,
			"Another investment changed this project's funding. Review the remaining amount and try again.",
			domainerrors.ErrFundingExceeded)
	}
	return u.failed(ctx, err)
}

func (u *InvestmentUsecase) failed(ctx context.Context, err error) error {
	metrics.InvestmentsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	logger.Error(ctx, "Investment failed", zap.Error(err))
	return domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.CodeInvestmentFailed, investmentFailedMessage, err)
}

// List returns the investments visible to p: investors see their own,
// farmers those in their projects and admins everything.
func (u *InvestmentUsecase) List(ctx context.Context, p entities.Principal, filter entities.InvestmentFilter) ([]*entities.Investment, error) {
	switch p := p.(type) {
	case entities.InvestorPrincipal:
		filter.InvestorID = &p.ID
	case entities.FarmerPrincipal:
		filter.FarmerID = &p.ID
	case entities.AdminPrincipal:
	default:
		return nil, domainerrors.ErrForbidden
	}
	return u.investmentRepo.List(ctx, filter)
}

// Get returns one investment if p may see it
func (u *InvestmentUsecase) Get(ctx context.Context, p entities.Principal, id uuid.UUID) (*entities.Investment, error) {
	inv, err := u.investmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch p := p.(type) {
	case entities.AdminPrincipal:
		return inv, nil
	case entities.InvestorPrincipal:
		if inv.InvestorID == p.ID {
			return inv, nil
		}
	case entities.FarmerPrincipal:
		project, err := u.projectRepo.GetByID(ctx, inv.ProjectID)
		if err != nil {
			return nil, err
		}
		if project.FarmerID == p.ID {
			return inv, nil
		}
	}
	// hide other users' investments entirely
	return nil, domainerrors.ErrNotFound
}

// WriteReceipt renders the PDF receipt of one of the investor's investments
func (u *InvestmentUsecase) WriteReceipt(ctx context.Context, investor entities.InvestorPrincipal, id uuid.UUID, w io.Writer) error {
	inv, err := u.Get(ctx, investor, id)
	if err != nil {
		return err
	}
	if inv.Status == entities.InvestmentStatusCancelled {
		return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict, "Cancelled investments have no receipt", domainerrors.ErrInvalidTransition)
	}
	return reports.WriteInvestmentReceipt(w, inv, u.bounds.Currency, time.Now())
}

// UpdateStatus moves an investment through its lifecycle. Cancelling a
// committed investment gives its amount back to the project.
func (u *InvestmentUsecase) UpdateStatus(ctx context.Context, admin entities.AdminPrincipal, id uuid.UUID, form validation.InvestmentStatusForm) (*entities.Investment, error) {
	update, fields := validation.ValidateInvestmentStatus(form)
	if !fields.OK() {
		return nil, domainerrors.Validation(fields)
	}

	var (
		before, after               *entities.Investment
		projectBefore, projectAfter *entities.Project
		note                        *entities.Notification
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		inv, err := u.investmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !inv.Status.CanTransitionTo(*update.Status) {
			return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict,
				fmt.Sprintf("An investment cannot move from %s to %s", inv.Status, *update.Status),
				domainerrors.ErrInvalidTransition)
		}
		before = inv

		if *update.Status == entities.InvestmentStatusCancelled && inv.Status.Committed() {
			if projectBefore, err = u.projectRepo.GetByID(txCtx, inv.ProjectID); err != nil {
				return err
			}
			if err := u.projectRepo.DecrementRaised(txCtx, inv.ProjectID, inv.Amount); err != nil {
				return err
			}
			if projectAfter, err = u.projectRepo.GetByID(txCtx, inv.ProjectID); err != nil {
				return err
			}
		}

		if after, err = u.investmentRepo.Update(txCtx, id, update); err != nil {
			return err
		}

		note = newNotification(inv.InvestorID, entities.NotificationInvestment,
			"Investment "+statusTitle(after.Status),
			fmt.Sprintf("Your investment of %s in %q is now %s", validation.FormatMoney(after.Amount, u.bounds.Currency), after.ProjectTitle, after.Status),
			"/investments/"+after.ID.String())
		return u.notificationRepo.Create(txCtx, note)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Investment status changed",
		zap.String("investment_id", id.String()),
		zap.String("from", string(before.Status)),
		zap.String("to", string(after.Status)),
		zap.String("admin_id", admin.ID.String()),
	)
	changes := []change{updated(entities.TableInvestments, after, before)}
	if projectAfter != nil {
		changes = append(changes, updated(entities.TableProjects, projectAfter, projectBefore))
	}
	publish(ctx, u.feed, append(changes, inserted(entities.TableNotifications, note))...)
	return after, nil
}

// Delete removes an investment, giving a committed amount back to the project
func (u *InvestmentUsecase) Delete(ctx context.Context, admin entities.AdminPrincipal, id uuid.UUID) error {
	var (
		inv                         *entities.Investment
		projectBefore, projectAfter *entities.Project
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		if inv, err = u.investmentRepo.GetByID(txCtx, id); err != nil {
			return err
		}
		if inv.Status.Committed() {
			if projectBefore, err = u.projectRepo.GetByID(txCtx, inv.ProjectID); err != nil {
				return err
			}
			if err := u.projectRepo.DecrementRaised(txCtx, inv.ProjectID, inv.Amount); err != nil {
				return err
			}
			if projectAfter, err = u.projectRepo.GetByID(txCtx, inv.ProjectID); err != nil {
				return err
			}
		}
		return u.investmentRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "Investment deleted", zap.String("investment_id", id.String()), zap.String("admin_id", admin.ID.String()))
	changes := []change{deleted(entities.TableInvestments, inv)}
	if projectAfter != nil {
		changes = append(changes, updated(entities.TableProjects, projectAfter, projectBefore))
	}
	publish(ctx, u.feed, changes...)
	return nil
}

func statusTitle(s entities.InvestmentStatus) string {
	switch s {
	case entities.InvestmentStatusActive:
		return "Activated"
	case entities.InvestmentStatusCompleted:
		return "Completed"
	case entities.InvestmentStatusCancelled:
		return "Cancelled"
	}
	return "Updated"
}
