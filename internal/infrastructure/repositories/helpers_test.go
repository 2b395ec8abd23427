package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/repositories/testdb"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testdb.Open(t)
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB)         { testdb.Exec(t, db, testdb.Users) }
func createProjectTable(t *testing.T, db *gorm.DB)      { testdb.Exec(t, db, testdb.Projects) }
func createInvestmentTable(t *testing.T, db *gorm.DB)   { testdb.Exec(t, db, testdb.Investments) }
func createKYCDocumentTable(t *testing.T, db *gorm.DB)  { testdb.Exec(t, db, testdb.KYCDocuments) }
func createNotificationTable(t *testing.T, db *gorm.DB) { testdb.Exec(t, db, testdb.Notifications) }

func createAllTables(t *testing.T, db *gorm.DB) {
	createUserTable(t, db)
	createProjectTable(t, db)
	createInvestmentTable(t, db)
	createKYCDocumentTable(t, db)
	createNotificationTable(t, db)
}

func seedUser(t *testing.T, db *gorm.DB, role entities.UserRole, email string) *entities.User {
	t.Helper()
	now := time.Now().UTC()
	u := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "User " + email,
		PasswordHash: "hash",
		Role:         role,
		KYCStatus:    entities.KYCPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedProject(t *testing.T, db *gorm.DB, farmerID uuid.UUID, goal, raised int64, status entities.ProjectStatus) *entities.Project {
	t.Helper()
	now := time.Now().UTC()
	p := &entities.Project{
		ID:                uuid.New(),
		FarmerID:          farmerID,
		Title:             "Cassava expansion",
		Description:       "Expanding cassava acreage with irrigation",
		Category:          entities.CategoryCrops,
		Location:          "Oyo",
		FundingGoal:       decimal.NewFromInt(goal),
		AmountRaised:      decimal.NewFromInt(raised),
		MinimumInvestment: decimal.NewFromInt(1000),
		ExpectedReturn:    decimal.NewFromInt(15),
		DurationMonths:    12,
		RiskLevel:         entities.RiskMedium,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, NewProjectRepository(db).Create(context.Background(), p))
	return p
}
