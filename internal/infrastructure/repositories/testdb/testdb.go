// Package testdb opens in-memory SQLite databases carrying the application
// schema, for repository and usecase tests.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Table DDL, in dependency order
const (
	Users = `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		kyc_status TEXT NOT NULL,
		phone TEXT,
		bio TEXT,
		location TEXT,
		avatar_url TEXT,
		bank_name TEXT,
		bank_account_number TEXT,
		bank_account_name TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`

	Projects = `CREATE TABLE projects (
		id TEXT PRIMARY KEY,
		farmer_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		location TEXT,
		funding_goal NUMERIC NOT NULL,
		amount_raised NUMERIC NOT NULL DEFAULT 0,
		minimum_investment NUMERIC NOT NULL,
		maximum_investment NUMERIC,
		expected_return NUMERIC NOT NULL,
		duration_months INTEGER NOT NULL,
		risk_level TEXT NOT NULL,
		status TEXT NOT NULL,
		image_urls TEXT,
		start_date DATETIME,
		end_date DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`

	Investments = `CREATE TABLE investments (
		id TEXT PRIMARY KEY,
		investor_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		status TEXT NOT NULL,
		expected_return NUMERIC NOT NULL,
		actual_return NUMERIC,
		payment_reference TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`

	KYCDocuments = `CREATE TABLE kyc_documents (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		document_type TEXT NOT NULL,
		file_url TEXT NOT NULL,
		file_path TEXT NOT NULL,
		file_name TEXT NOT NULL,
		content_type TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		status TEXT NOT NULL,
		rejection_reason TEXT,
		reviewed_by TEXT,
		reviewed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`

	Notifications = `CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		action_url TEXT,
		read BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	);`
)

var seq atomic.Int64

// Open returns an empty in-memory database private to the test
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Exec runs statements, failing the test on error
func Exec(t testing.TB, db *gorm.DB, statements ...string) {
	t.Helper()
	for _, q := range statements {
		require.NoError(t, db.Exec(q).Error, "exec failed: query=%s", q)
	}
}

// OpenWithSchema returns a database with every application table
func OpenWithSchema(t testing.TB) *gorm.DB {
	t.Helper()
	db := Open(t)
	Exec(t, db, Users, Projects, Investments, KYCDocuments, Notifications)
	return db
}
