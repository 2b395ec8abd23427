package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/usecases/livequery"
)

// MarketplaceFilter narrows the browse view
type MarketplaceFilter struct {
	Category  entities.ProjectCategory
	RiskLevel entities.RiskLevel
	Search    string
}

// MarketplaceUsecase serves the investor browse view from a live list of
// projects, newest first. The list follows every project change so that a
// project leaving the active state drops out of Browse immediately.
type MarketplaceUsecase struct {
	list *livequery.LiveList[entities.Project]
}

// NewMarketplaceUsecase creates a new marketplace usecase
func NewMarketplaceUsecase(
	projectRepo repositories.ProjectRepository,
	feed repositories.ChangeFeed,
	cache repositories.ResponseCache,
	ttl, retryDelay time.Duration,
) *MarketplaceUsecase {
	opts := livequery.Options{
		Table:      entities.TableProjects,
		Projection: "projects.*,farmer_name",
		Order:      &entities.Order{Column: "created_at", Descending: true},
		TTL:        ttl,
		RetryDelay: retryDelay,
	}
	fetch := func(ctx context.Context) ([]entities.Project, error) {
		// every status is held so a later transition to active has a row to update
		rows, err := projectRepo.List(ctx, entities.ProjectFilter{Order: opts.Order})
		if err != nil {
			return nil, err
		}
		out := make([]entities.Project, 0, len(rows))
		for _, p := range rows {
			out = append(out, *p)
		}
		return out, nil
	}
	return &MarketplaceUsecase{list: livequery.New[entities.Project](opts, fetch, feed, cache)}
}

// Start loads the list and begins following changes
func (u *MarketplaceUsecase) Start(ctx context.Context) error {
	return u.list.Start(ctx)
}

// Browse returns the active projects matching f
func (u *MarketplaceUsecase) Browse(f MarketplaceFilter) []entities.Project {
	items := u.list.Items()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := items[:0]
	for _, p := range items {
		if p.Status != entities.ProjectStatusActive {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.RiskLevel != "" && p.RiskLevel != f.RiskLevel {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Location), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Refresh forces a reload from storage
func (u *MarketplaceUsecase) Refresh(ctx context.Context) error {
	return u.list.Refetch(ctx)
}

// State reports the live list's status
func (u *MarketplaceUsecase) State() livequery.State {
	return u.list.State()
}

// Close stops following changes
func (u *MarketplaceUsecase) Close() {
	u.list.Close()
}
