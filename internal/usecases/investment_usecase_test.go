package usecases_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/usecases"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type investEnv struct {
	*fixture
	uc       *usecases.InvestmentUsecase
	farmer   *entities.User
	investor *entities.User
	admin    *entities.User
}

func newInvestEnv(t *testing.T) *investEnv {
	t.Helper()
	f := newFixture(t)
	return &investEnv{
		fixture:  f,
		uc:       usecases.NewInvestmentUsecase(f.uow, f.projects, f.investments, f.notifications, f.hub, testBounds),
		farmer:   f.seedUser(t, entities.UserRoleFarmer, "farmer@agro.test"),
		investor: f.seedUser(t, entities.UserRoleInvestor, "investor@agro.test"),
		admin:    f.seedUser(t, entities.UserRoleAdmin, "admin@agro.test"),
	}
}

func investForm(projectID uuid.UUID, amount string) validation.InvestmentForm {
	return validation.InvestmentForm{
		ProjectID:   projectID.String(),
		Amount:      validation.Raw(amount),
		AcceptTerms: true,
	}
}

func requireRejected(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.CodeInvestmentRejected, appErr.Code)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, message, appErr.Message)
}

func TestInvestmentUsecase_Invest_Success(t *testing.T) {
	env := newInvestEnv(t)
	ctx := context.Background()
	project := env.seedProject(t, env.farmer.ID, 500000, 0, 1000)

	investments := env.hub.Subscribe(entities.TableInvestments, nil)
	projects := env.hub.Subscribe(entities.TableProjects, nil)
	notes := env.hub.Subscribe(entities.TableNotifications, nil)

	inv, err := env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "50000"))
	require.NoError(t, err)
	assert.Equal(t, entities.InvestmentStatusActive, inv.Status)
	assert.True(t, inv.Amount.Equal(decimal.NewFromInt(50000)))
	assert.True(t, inv.ExpectedReturn.Equal(project.ExpectedReturn))
	assert.True(t, inv.PaymentReference.Valid)
	assert.NotEmpty(t, inv.PaymentReference.String)

	after := env.project(t, project.ID)
	assert.True(t, after.AmountRaised.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, entities.ProjectStatusActive, after.Status)

	farmerNotes, err := env.notifications.List(ctx, env.farmer.ID, false, 0)
	require.NoError(t, err)
	require.Len(t, farmerNotes, 1)
	assert.Equal(t, "New Investment Received", farmerNotes[0].Title)
	assert.Contains(t, farmerNotes[0].Message, "USD 50000.00")

	investorNotes, err := env.notifications.List(ctx, env.investor.ID, false, 0)
	require.NoError(t, err)
	require.Len(t, investorNotes, 1)
	assert.Equal(t, "Investment Confirmed", investorNotes[0].Title)

	invEvents := drain(investments)
	require.Len(t, invEvents, 1)
	assert.Equal(t, entities.ChangeInsert, invEvents[0].Type)
	projEvents := drain(projects)
	require.Len(t, projEvents, 1)
	assert.Equal(t, entities.ChangeUpdate, projEvents[0].Type)
	assert.NotEmpty(t, projEvents[0].Old)
	assert.Len(t, drain(notes), 2)
}

func TestInvestmentUsecase_Invest_ExceedsRemainingWritesNothing(t *testing.T) {
	env := newInvestEnv(t)
	ctx := context.Background()
	project := env.seedProject(t, env.farmer.ID, 500000, 450000, 1000)
	sub := env.hub.Subscribe(entities.TableInvestments, nil)

	_, err := env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "60000"))
	requireRejected(t, err, http.StatusUnprocessableEntity, "Amount exceeds the remaining funding of USD 50000.00")
	assert.ErrorIs(t, err, domainerrors.ErrExceedsRemaining)

	assert.Zero(t, env.count(t, "investments"))
	assert.Zero(t, env.count(t, "notifications"))
	assert.True(t, env.project(t, project.ID).AmountRaised.Equal(decimal.NewFromInt(450000)))
	assert.Empty(t, drain(sub))
}

func TestInvestmentUsecase_Invest_ReachingGoalFundsProject(t *testing.T) {
	env := newInvestEnv(t)
	ctx := context.Background()
	project := env.seedProject(t, env.farmer.ID, 500000, 450000, 1000)

	_, err := env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "50000"))
	require.NoError(t, err)

	after := env.project(t, project.ID)
	assert.True(t, after.AmountRaised.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, entities.ProjectStatusFunded, after.Status)

	farmerNotes, err := env.notifications.List(ctx, env.farmer.ID, false, 0)
	require.NoError(t, err)
	titles := make([]string, 0, len(farmerNotes))
	for _, n := range farmerNotes {
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{"New Investment Received", "Project Fully Funded"}, titles)

	// a funded project takes no further investment
	_, err = env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "1000"))
	requireRejected(t, err, http.StatusConflict, "This project is not accepting investments")
}

func TestInvestmentUsecase_Invest_ProjectLimits(t *testing.T) {
	env := newInvestEnv(t)
	ctx := context.Background()
	project := env.seedProject(t, env.farmer.ID, 500000, 0, 1000)

	_, err := env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "500"))
	requireRejected(t, err, http.StatusUnprocessableEntity, "Minimum investment for this project is USD 1000.00")
	assert.ErrorIs(t, err, domainerrors.ErrBelowMinimum)

	maximum := decimal.NewNullDecimal(decimal.NewFromInt(20000))
	_, err = env.projects.Update(ctx, project.ID, entities.ProjectUpdate{MaximumInvestment: &maximum})
	require.NoError(t, err)

	_, err = env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "25000"))
	requireRejected(t, err, http.StatusUnprocessableEntity, "Maximum investment for this project is USD 20000.00")
	assert.ErrorIs(t, err, domainerrors.ErrAboveMaximum)

	_, err = env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "20000"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.count(t, "investments"))
}

func TestInvestmentUsecase_Invest_ClosingInvestmentBelowMinimum(t *testing.T) {
	env := newInvestEnv(t)
	project := env.seedProject(t, env.farmer.ID, 500000, 499500, 1000)

	_, err := env.uc.Invest(context.Background(), investorOf(env.investor), investForm(project.ID, "400"))
	requireRejected(t, err, http.StatusUnprocessableEntity, "Minimum investment for this project is USD 1000.00")

	inv, err := env.uc.Invest(context.Background(), investorOf(env.investor), investForm(project.ID, "500"))
	require.NoError(t, err)
	assert.True(t, inv.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, entities.ProjectStatusFunded, env.project(t, project.ID).Status)
}

func TestInvestmentUsecase_Invest_DeferredPaymentIsPending(t *testing.T) {
	env := newInvestEnv(t)
	project := env.seedProject(t, env.farmer.ID, 100000, 0, 1000)

	form := investForm(project.ID, "5000")
	form.DeferredPayment = true
	inv, err := env.uc.Invest(context.Background(), investorOf(env.investor), form)
	require.NoError(t, err)
	assert.Equal(t, entities.InvestmentStatusPending, inv.Status)
	assert.True(t, env.project(t, project.ID).AmountRaised.Equal(decimal.NewFromInt(5000)))
}

func TestInvestmentUsecase_Invest_ValidationAndLookup(t *testing.T) {
	env := newInvestEnv(t)
	ctx := context.Background()
	project := env.seedProject(t, env.farmer.ID, 100000, 0, 1000)

	form := investForm(project.ID, "abc")
	form.AcceptTerms = false
	_, err := env.uc.Invest(ctx, investorOf(env.investor), form)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.CodeValidation, appErr.Code)
	assert.Equal(t, "You must accept the investment terms", appErr.Fields["accept_terms"])
	assert.Equal(t, "Enter a valid investment amount", appErr.Fields["amount"])

	_, err = env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "50"))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Amount must be at least USD 100.00", appErr.Fields["amount"])

	_, err = env.uc.Invest(ctx, investorOf(env.investor), investForm(uuid.New(), "5000"))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Project not found", appErr.Message)

	draft := entities.ProjectStatusDraft
	_, err = env.projects.Update(ctx, project.ID, entities.ProjectUpdate{Status: &draft})
	require.NoError(t, err)
	_, err = env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "5000"))
	requireRejected(t, err, http.StatusConflict, "This project is not accepting investments")
	assert.ErrorIs(t, err, domainerrors.ErrProjectNotOpen)
}

func TestInvestmentUsecase_Invest_FailureRollsBack(t *testing.T) {
	env := newInvestEnv(t)
	project := env.seedProject(t, env.farmer.ID, 100000, 0, 1000)
	uc := usecases.NewInvestmentUsecase(env.uow, env.projects, env.investments, failingNotifications{env.notifications}, env.hub, testBounds)
	sub := env.hub.Subscribe(entities.TableInvestments, nil)

	_, err := uc.Invest(context.Background(), investorOf(env.investor), investForm(project.ID, "5000"))
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, domainerrors.CodeInvestmentFailed, appErr.Code)
	assert.Equal(t, "Investment failed. Please try again.", appErr.Message)
	assert.ErrorIs(t, err, errStorageDown)

	assert.Zero(t, env.count(t, "investments"))
	assert.True(t, env.project(t, project.ID).AmountRaised.IsZero())
	assert.Empty(t, drain(sub))
}

func TestInvestmentUsecase_Invest_LosesFundingRace(t *testing.T) {
	env := newInvestEnv(t)
	project := env.seedProject(t, env.farmer.ID, 100000, 40000, 1000)
	uc := usecases.NewInvestmentUsecase(env.uow, outbidProjects{env.projects}, env.investments, env.notifications, env.hub, testBounds)
	sub := env.hub.Subscribe(entities.TableProjects, nil)

	_, err := uc.Invest(context.Background(), investorOf(env.investor), investForm(project.ID, "60000"))
	requireRejected(t, err, http.StatusConflict,
		"Another investment changed this project's funding. Review the remaining amount and try again.")
	assert.ErrorIs(t, err, domainerrors.ErrFundingExceeded)

	assert.Zero(t, env.count(t, "investments"))
	assert.Zero(t, env.count(t, "notifications"))
	stored := env.project(t, project.ID)
	assert.True(t, stored.AmountRaised.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, entities.ProjectStatusActive, stored.Status)
	assert.Empty(t, drain(sub))
}

func TestInvestmentUsecase_Invest_PublishFailureIsIgnored(t *testing.T) {
	env := newInvestEnv(t)
	project := env.seedProject(t, env.farmer.ID, 100000, 0, 1000)
	feed := new(MockChangeFeed)
	feed.On("Publish", mock.Anything, mock.Anything).Return(errors.New("relay down"))
	uc := usecases.NewInvestmentUsecase(env.uow, env.projects, env.investments, env.notifications, feed, testBounds)

	inv, err := uc.Invest(context.Background(), investorOf(env.investor), investForm(project.ID, "5000"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, inv.ID)
	feed.AssertNumberOfCalls(t, "Publish", 4)
}

func TestInvestmentUsecase_UpdateStatus(t *testing.T) {
	env := newInvestEnv(t)
	ctx := context.Background()
	project := env.seedProject(t, env.farmer.ID, 100000, 90000, 1000)
	inv, err := env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "10000"))
	require.NoError(t, err)
	require.Equal(t, entities.ProjectStatusFunded, env.project(t, project.ID).Status)

	t.Run("actual return needs completion", func(t *testing.T) {
		_, err := env.uc.UpdateStatus(ctx, adminOf(env.admin), inv.ID, validation.InvestmentStatusForm{Status: "cancelled", ActualReturn: "12"})
		var appErr *domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "actual_return")
	})

	t.Run("cancel gives the amount back", func(t *testing.T) {
		updated, err := env.uc.UpdateStatus(ctx, adminOf(env.admin), inv.ID, validation.InvestmentStatusForm{Status: "cancelled"})
		require.NoError(t, err)
		assert.Equal(t, entities.InvestmentStatusCancelled, updated.Status)

		after := env.project(t, project.ID)
		assert.True(t, after.AmountRaised.Equal(decimal.NewFromInt(90000)))
		assert.Equal(t, entities.ProjectStatusActive, after.Status)

		notes, err := env.notifications.List(ctx, env.investor.ID, false, 0)
		require.NoError(t, err)
		assert.Equal(t, "Investment Cancelled", notes[0].Title)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		_, err := env.uc.UpdateStatus(ctx, adminOf(env.admin), inv.ID, validation.InvestmentStatusForm{Status: "active"})
		var appErr *domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusConflict, appErr.Status)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})

	t.Run("unknown investment", func(t *testing.T) {
		_, err := env.uc.UpdateStatus(ctx, adminOf(env.admin), uuid.New(), validation.InvestmentStatusForm{Status: "active"})
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})
}

func TestInvestmentUsecase_UpdateStatus_CompleteRecordsReturn(t *testing.T) {
	env := newInvestEnv(t)
	ctx := context.Background()
	project := env.seedProject(t, env.farmer.ID, 100000, 0, 1000)
	inv, err := env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "10000"))
	require.NoError(t, err)

	updated, err := env.uc.UpdateStatus(ctx, adminOf(env.admin), inv.ID, validation.InvestmentStatusForm{Status: "completed", ActualReturn: "1800.50"})
	require.NoError(t, err)
	assert.Equal(t, entities.InvestmentStatusCompleted, updated.Status)
	require.True(t, updated.ActualReturn.Valid)
	assert.True(t, updated.ActualReturn.Decimal.Equal(decimal.RequireFromString("1800.50")))
	assert.True(t, env.project(t, project.ID).AmountRaised.Equal(decimal.NewFromInt(10000)))
}

func TestInvestmentUsecase_Delete(t *testing.T) {
	env := newInvestEnv(t)
	ctx := context.Background()
	project := env.seedProject(t, env.farmer.ID, 100000, 0, 1000)
	inv, err := env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "10000"))
	require.NoError(t, err)
	sub := env.hub.Subscribe(entities.TableInvestments, nil)

	require.NoError(t, env.uc.Delete(ctx, adminOf(env.admin), inv.ID))
	assert.True(t, env.project(t, project.ID).AmountRaised.IsZero())
	assert.Zero(t, env.count(t, "investments"))

	events := drain(sub)
	require.Len(t, events, 1)
	assert.Equal(t, entities.ChangeDelete, events[0].Type)

	assert.ErrorIs(t, env.uc.Delete(ctx, adminOf(env.admin), inv.ID), domainerrors.ErrNotFound)
}

func TestInvestmentUsecase_ListAndGetAreScoped(t *testing.T) {
	env := newInvestEnv(t)
	ctx := context.Background()
	other := env.seedUser(t, entities.UserRoleInvestor, "other@agro.test")
	otherFarmer := env.seedUser(t, entities.UserRoleFarmer, "farmer2@agro.test")
	project := env.seedProject(t, env.farmer.ID, 100000, 0, 1000)
	elsewhere := env.seedProject(t, otherFarmer.ID, 100000, 0, 1000)

	mine, err := env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "1000"))
	require.NoError(t, err)
	theirs, err := env.uc.Invest(ctx, investorOf(other), investForm(elsewhere.ID, "2000"))
	require.NoError(t, err)

	list, err := env.uc.List(ctx, investorOf(env.investor), entities.InvestmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	list, err = env.uc.List(ctx, farmerOf(env.farmer), entities.InvestmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, project.ID, list[0].ProjectID)

	list, err = env.uc.List(ctx, adminOf(env.admin), entities.InvestmentFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.uc.Get(ctx, investorOf(env.investor), theirs.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = env.uc.Get(ctx, farmerOf(env.farmer), theirs.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := env.uc.Get(ctx, farmerOf(env.farmer), mine.ID)
	require.NoError(t, err)
	assert.Equal(t, project.Title, got.ProjectTitle)
}

func TestInvestmentUsecase_WriteReceipt(t *testing.T) {
	env := newInvestEnv(t)
	ctx := context.Background()
	project := env.seedProject(t, env.farmer.ID, 100000, 0, 1000)
	inv, err := env.uc.Invest(ctx, investorOf(env.investor), investForm(project.ID, "10000"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, env.uc.WriteReceipt(ctx, investorOf(env.investor), inv.ID, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	_, err = env.uc.UpdateStatus(ctx, adminOf(env.admin), inv.ID, validation.InvestmentStatusForm{Status: "cancelled"})
	require.NoError(t, err)
	buf.Reset()
	err = env.uc.WriteReceipt(ctx, investorOf(env.investor), inv.ID, &buf)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Zero(t, buf.Len())
}

var _ repositories.ChangeFeed = (*MockChangeFeed)(nil)
