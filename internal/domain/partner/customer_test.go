package partner

import (
	"errors"
	"testing"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates customer successfully", func(t *testing.T) {
		customer, err := NewCustomer("cli-001", " Ana ", "Gomez", "30.123.456")

		require.NoError(t, err)
		assert.Equal(t, "CLI-001", customer.Code)
		assert.Equal(t, "Ana", customer.FirstName)
		assert.Equal(t, "Gomez, Ana", customer.FullName())
		assert.Equal(t, credit.RiskTierMedium, customer.RiskTier)
		assert.Equal(t, CustomerStatusActive, customer.Status)
		assert.Nil(t, customer.ManualLimit)
		assert.Nil(t, customer.CustomCap)
		assert.False(t, customer.IsDeleted)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		customer, err := NewCustomer("", "Ana", "Gomez", "30123456")

		assert.Nil(t, customer)
		assert.True(t, errors.Is(err, shared.ErrValidation))
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with invalid code characters", func(t *testing.T) {
		_, err := NewCustomer("CLI@001", "Ana", "Gomez", "30123456")
		assert.Contains(t, err.Error(), "can only contain")
	})

	t.Run("fails with blank last name", func(t *testing.T) {
		_, err := NewCustomer("CLI-001", "Ana", "  ", "30123456")
		assert.Contains(t, err.Error(), "last name cannot be empty")
	})

	t.Run("fails with malformed document", func(t *testing.T) {
		_, err := NewCustomer("CLI-001", "Ana", "Gomez", "12")
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestCustomer_FullName(t *testing.T) {
	assert.Equal(t, "Gomez", (&Customer{LastName: "Gomez"}).FullName())
	assert.Equal(t, "Ana", (&Customer{FirstName: "Ana"}).FullName())
}
