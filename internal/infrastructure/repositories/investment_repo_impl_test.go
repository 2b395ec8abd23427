package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newInvestment(investorID, projectID uuid.UUID, amount int64, status entities.InvestmentStatus) *entities.Investment {
	now := time.Now().UTC()
	return &entities.Investment{
		ID:             uuid.New(),
		InvestorID:     investorID,
		ProjectID:      projectID,
		Amount:         decimal.NewFromInt(amount),
		Status:         status,
		ExpectedReturn: decimal.NewFromInt(15),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestInvestmentRepository_CRUDAndJoins(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	repo := NewInvestmentRepository(db)
	ctx := context.Background()

	farmer := seedUser(t, db, entities.UserRoleFarmer, "f@farm.ng")
	investor := seedUser(t, db, entities.UserRoleInvestor, "i@invest.ng")
	p := seedProject(t, db, farmer.ID, 100000, 0, entities.ProjectStatusActive)

	inv := newInvestment(investor.ID, p.ID, 5000, entities.InvestmentStatusActive)
	require.NoError(t, repo.Create(ctx, inv))

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, p.Title, got.ProjectTitle)
	require.Equal(t, investor.Name, got.InvestorName)
	require.True(t, got.Amount.Equal(decimal.NewFromInt(5000)))

	byInvestor, err := repo.List(ctx, entities.InvestmentFilter{InvestorID: &investor.ID})
	require.NoError(t, err)
	require.Len(t, byInvestor, 1)

	byFarmer, err := repo.List(ctx, entities.InvestmentFilter{FarmerID: &farmer.ID})
	require.NoError(t, err)
	require.Len(t, byFarmer, 1)

	none, err := repo.List(ctx, entities.InvestmentFilter{Status: entities.InvestmentStatusCancelled})
	require.NoError(t, err)
	require.Empty(t, none)

	status := entities.InvestmentStatusCompleted
	ret := decimal.NewNullDecimal(decimal.NewFromInt(750))
	ref := "PAY-123"
	updated, err := repo.Update(ctx, inv.ID, entities.InvestmentUpdate{Status: &status, ActualReturn: &ret, PaymentReference: &ref})
	require.NoError(t, err)
	require.Equal(t, entities.InvestmentStatusCompleted, updated.Status)
	require.True(t, updated.ActualReturn.Decimal.Equal(decimal.NewFromInt(750)))
	require.Equal(t, "PAY-123", updated.PaymentReference.String)

	require.NoError(t, repo.Delete(ctx, inv.ID))
	_, err = repo.GetByID(ctx, inv.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, inv.ID), domainerrors.ErrNotFound)
}

func TestInvestmentRepository_CommittedAggregates(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	repo := NewInvestmentRepository(db)
	ctx := context.Background()

	farmer := seedUser(t, db, entities.UserRoleFarmer, "f@farm.ng")
	investor := seedUser(t, db, entities.UserRoleInvestor, "i@invest.ng")
	p1 := seedProject(t, db, farmer.ID, 100000, 0, entities.ProjectStatusActive)
	p2 := seedProject(t, db, farmer.ID, 100000, 0, entities.ProjectStatusActive)

	require.NoError(t, repo.Create(ctx, newInvestment(investor.ID, p1.ID, 1000, entities.InvestmentStatusActive)))
	require.NoError(t, repo.Create(ctx, newInvestment(investor.ID, p1.ID, 2000, entities.InvestmentStatusPending)))
	require.NoError(t, repo.Create(ctx, newInvestment(investor.ID, p1.ID, 4000, entities.InvestmentStatusCancelled)))
	require.NoError(t, repo.Create(ctx, newInvestment(investor.ID, p2.ID, 3000, entities.InvestmentStatusCompleted)))

	count, err := repo.CountCommittedByProject(ctx, p1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	sums, err := repo.SumCommittedByProject(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	require.True(t, sums[p1.ID].Equal(decimal.NewFromInt(3000)))
	require.True(t, sums[p2.ID].Equal(decimal.NewFromInt(3000)))
}
