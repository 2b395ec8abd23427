package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/metrics"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// FundingReconcileJob compares each project's amount_raised with the sum of
// its committed investments and reports mismatches to admins.
type FundingReconcileJob struct {
	projects      repositories.ProjectRepository
	investments   repositories.InvestmentRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	feed          repositories.ChangeFeed
}

func NewFundingReconcileJob(
	projects repositories.ProjectRepository,
	investments repositories.InvestmentRepository,
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
	feed repositories.ChangeFeed,
) *FundingReconcileJob {
	return &FundingReconcileJob{
		projects:      projects,
		investments:   investments,
		users:         users,
		notifications: notifications,
		feed:          feed,
	}
}

// Name identifies the job in logs
func (j *FundingReconcileJob) Name() string { return "funding_reconcile" }

// Execute runs one pass, logging instead of returning errors
func (j *FundingReconcileJob) Execute(ctx context.Context) {
	if _, err := j.Reconcile(ctx); err != nil {
		logger.Error(ctx, "Funding reconciliation failed", zap.Error(err))
	}
}

// Reconcile runs one pass and returns the mismatches found
func (j *FundingReconcileJob) Reconcile(ctx context.Context) ([]entities.FundingMismatch, error) {
	projects, err := j.projects.List(ctx, entities.ProjectFilter{})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	committed, err := j.investments.SumCommittedByProject(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum investments: %w", err)
	}

	mismatches := make([]entities.FundingMismatch, 0)
	for _, p := range projects {
		total, ok := committed[p.ID]
		if !ok {
			total = decimal.Zero
		}
		if p.AmountRaised.Equal(total) {
			continue
		}
		mismatches = append(mismatches, entities.FundingMismatch{
			ProjectID:    p.ID,
			ProjectTitle: p.Title,
			AmountRaised: p.AmountRaised,
			Committed:    total,
		})
	}
	metrics.FundingMismatches.Set(float64(len(mismatches)))

	if len(mismatches) == 0 {
		logger.Debug(ctx, "Funding reconciliation clean", zap.Int("projects", len(projects)))
		return mismatches, nil
	}

	for _, m := range mismatches {
		logger.Warn(ctx, "Funding mismatch",
			zap.String("project_id", m.ProjectID.String()),
			zap.String("amount_raised", m.AmountRaised.StringFixed(2)),
			zap.String("committed", m.Committed.StringFixed(2)),
		)
	}
	if err := j.notifyAdmins(ctx, mismatches); err != nil {
		return mismatches, err
	}
	return mismatches, nil
}

func (j *FundingReconcileJob) notifyAdmins(ctx context.Context, mismatches []entities.FundingMismatch) error {
	admins, err := j.users.List(ctx, entities.UserFilter{Role: entities.UserRoleAdmin})
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	message := fmt.Sprintf("%d project(s) have an amount raised that differs from their committed investments", len(mismatches))
	if len(mismatches) == 1 {
		m := mismatches[0]
		message = fmt.Sprintf("%q shows %s raised but %s committed", m.ProjectTitle, m.AmountRaised.StringFixed(2), m.Committed.StringFixed(2))
	}

	for _, admin := range admins {
		n := &entities.Notification{
			ID:        utils.GenerateUUIDv7(),
			UserID:    admin.ID,
			Title:     "Funding Mismatch Detected",
			Message:   message,
			Type:      entities.NotificationSystem,
			ActionURL: null.StringFrom("/admin/reconcile"),
			CreatedAt: time.Now().UTC(),
		}
		if err := j.notifications.Create(ctx, n); err != nil {
			return fmt.Errorf("notify admin %s: %w", admin.ID, err)
		}
		if j.feed == nil {
			continue
		}
		ev, err := entities.NewChangeEvent(entities.TableNotifications, entities.ChangeInsert, n, nil)
		if err == nil {
			err = j.feed.Publish(ctx, ev)
		}
		if err != nil {
			logger.Warn(ctx, "Failed to publish notification change", zap.Error(err))
		}
	}
	return nil
}
