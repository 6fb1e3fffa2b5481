package persistence

import (
	"context"
	"testing"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/partner"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomer(t *testing.T, code, document string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(code, "Ana", "Gomez", document)
	require.NoError(t, err)
	return c
}

func TestGormCustomerRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	ana := newCustomer(t, "C-001", "30111222")
	ana.RiskTier = credit.RiskTierLow
	manual := dec("250000")
	ana.ManualLimit = &manual
	gone := newCustomer(t, "C-002", "30999888")
	gone.IsDeleted = true
	require.NoError(t, repo.Save(ctx, ana))
	require.NoError(t, repo.Save(ctx, gone))

	found, err := repo.FindByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gomez, Ana", found.FullName())
	assert.Equal(t, credit.RiskTierLow, found.RiskTier)
	require.NotNil(t, found.ManualLimit)
	assert.True(t, found.ManualLimit.Equal(manual))
	assert.Nil(t, found.CustomCap)

	_, err = repo.FindByID(ctx, gone.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
