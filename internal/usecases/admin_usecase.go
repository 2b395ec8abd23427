package usecases

import (
	"context"
	"io"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/reports"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"go.uber.org/zap"
)

// FundingReconciler compares raised totals with committed investments
type FundingReconciler interface {
	Reconcile(ctx context.Context) ([]entities.FundingMismatch, error)
}

// AdminUsecase holds oversight operations
type AdminUsecase struct {
	userRepo       repositories.UserRepository
	investmentRepo repositories.InvestmentRepository
	reconciler     FundingReconciler
	currency       string
}

func NewAdminUsecase(
	userRepo repositories.UserRepository,
	investmentRepo repositories.InvestmentRepository,
	reconciler FundingReconciler,
	currency string,
) *AdminUsecase {
	return &AdminUsecase{
		userRepo:       userRepo,
		investmentRepo: investmentRepo,
		reconciler:     reconciler,
		currency:       currency,
	}
}

// ListUsers returns users matching filter
func (u *AdminUsecase) ListUsers(ctx context.Context, _ entities.AdminPrincipal, filter entities.UserFilter) ([]*entities.User, error) {
	return u.userRepo.List(ctx, filter)
}

// ExportInvestments writes the investment ledger as an XLSX workbook
func (u *AdminUsecase) ExportInvestments(ctx context.Context, admin entities.AdminPrincipal, filter entities.InvestmentFilter, w io.Writer) error {
	filter.Limit, filter.Offset = 0, 0
	investments, err := u.investmentRepo.List(ctx, filter)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Exporting investment ledger", zap.String("admin_id", admin.ID.String()), zap.Int("rows", len(investments)))
	return reports.WriteInvestmentLedger(w, investments, u.currency)
}

// Reconcile runs a funding reconciliation pass now
func (u *AdminUsecase) Reconcile(ctx context.Context, admin entities.AdminPrincipal) ([]entities.FundingMismatch, error) {
	logger.Info(ctx, "Manual funding reconciliation", zap.String("admin_id", admin.ID.String()))
	return u.reconciler.Reconcile(ctx)
}
