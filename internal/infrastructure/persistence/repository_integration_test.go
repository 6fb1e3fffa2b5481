//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a PostgreSQL container and returns a migrated connection
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bury_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestPostgres_CreditQueries(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewGormCreditRepository(db)
	ctx := context.Background()
	customerID := uuid.New()

	overdue := newCredit(t, "CR-PG-1", customerID, day(2024, 5, 1), day(2024, 7, 1))
	overdue.Status = credit.StatusActive
	overdue.RemainingBalance = dec("1234.56")
	current := newCredit(t, "CR-PG-2", customerID, day(2024, 7, 1))
	current.RemainingBalance = dec("765.44")
	require.NoError(t, repo.Save(ctx, overdue))
	require.NoError(t, repo.Save(ctx, current))

	credits, err := repo.FindWithOverdueInstallments(ctx, day(2024, 6, 12), shared.Filter{Page: 1, PageSize: 50})
	require.NoError(t, err)
	require.Len(t, credits, 1)
	assert.Equal(t, "CR-PG-1", credits[0].Number)

	total, err := repo.SumRemainingBalance(ctx, customerID, credit.LiveStatuses())
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("2000")), "got %s", total)
}

func TestPostgres_AlertOptimisticLock(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewGormAlertRepository(db)
	ctx := context.Background()

	alert := newOpenAlert(t, uuid.New())
	require.NoError(t, repo.Save(ctx, alert))

	a, err := repo.FindByID(ctx, alert.ID)
	require.NoError(t, err)
	b, err := repo.FindByID(ctx, alert.ID)
	require.NoError(t, err)

	require.NoError(t, a.RegisterPromise("agent-1", alertNow.AddDate(0, 0, 1), dec("100"), alertNow))
	require.NoError(t, b.RegisterPromise("agent-2", alertNow.AddDate(0, 0, 2), dec("200"), alertNow))

	require.NoError(t, repo.SaveWithLock(ctx, a))
	assert.ErrorIs(t, repo.SaveWithLock(ctx, b), shared.ErrConcurrencyConflict)
}
