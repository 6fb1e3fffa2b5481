package persistence

import (
	"testing"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated in-memory SQLite database.
// A single connection keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newCredit builds a credit with one 1000.00 installment per due date
func newCredit(t *testing.T, number string, customerID uuid.UUID, dueDates ...time.Time) *credit.Credit {
	t.Helper()

	c, err := credit.NewCredit(number, customerID, dec("1000").Mul(decimal.NewFromInt(int64(len(dueDates)+1))))
	require.NoError(t, err)
	for i, due := range dueDates {
		inst, err := credit.NewInstallment(c.ID, i+1, due, dec("1000"), dec("100"))
		require.NoError(t, err)
		require.NoError(t, c.AddInstallment(*inst))
	}
	return c
}
