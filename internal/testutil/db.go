// Package testutil provides in-memory database helpers for tests
package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iTakecare/itakecarehub-sub001/internal/database"
	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

// SetupTestDB opens a private in-memory sqlite database and migrates the
// full schema. Each call returns an isolated database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory test database")

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test schema")

	return db
}

// CreateTestLeaser inserts a leaser with the standard two-tier range table
func CreateTestLeaser(t *testing.T, db *gorm.DB) *domain.Leaser {
	t.Helper()

	leaser := &domain.Leaser{
		Name: "Grenke Lease",
		Ranges: []domain.LeaserRange{
			{Min: 0, Max: 2500, Coefficient: 3.0, Position: 0},
			{Min: 2500.01, Max: 10000, Coefficient: 3.5, Position: 1},
		},
	}
	require.NoError(t, db.Create(leaser).Error)
	return leaser
}

// CreateTestClient inserts a client
func CreateTestClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	t.Helper()

	client := &domain.Client{
		Name:    name,
		Email:   "client@example.com",
		Country: "Belgium",
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestCommissionLevel inserts an ambassador commission level
func CreateTestCommissionLevel(t *testing.T, db *gorm.DB, isDefault bool) *domain.CommissionLevel {
	t.Helper()

	level := &domain.CommissionLevel{
		Name:          "Standard",
		PrincipalType: domain.PrincipalAmbassador,
		IsDefault:     isDefault,
		Ranges: []domain.CommissionRange{
			{Min: 0, Max: 5000, Rate: 4, Position: 0},
			{Min: 5000.01, Max: 50000, Rate: 6, Position: 1},
		},
	}
	require.NoError(t, db.Create(level).Error)
	return level
}
