package credit

import (
	"context"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/mora"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/partner"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockRiskTierLimitRepository is a mock implementation of credit.RiskTierLimitRepository
type MockRiskTierLimitRepository struct {
	mock.Mock
}

func (m *MockRiskTierLimitRepository) FindActiveByTier(ctx context.Context, tier credit.RiskTier) (*credit.RiskTierLimit, error) {
	args := m.Called(ctx, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credit.RiskTierLimit), args.Error(1)
}

func (m *MockRiskTierLimitRepository) Save(ctx context.Context, limit *credit.RiskTierLimit) error {
	args := m.Called(ctx, limit)
	return args.Error(0)
}

// MockCreditRepository is a mock implementation of credit.CreditRepository
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*credit.Credit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credit.Credit), args.Error(1)
}

func (m *MockCreditRepository) FindWithOverdueInstallments(ctx context.Context, dueBefore time.Time, filter shared.Filter) ([]credit.Credit, error) {
	args := m.Called(ctx, dueBefore, filter)
	return args.Get(0).([]credit.Credit), args.Error(1)
}

func (m *MockCreditRepository) SumRemainingBalance(ctx context.Context, customerID uuid.UUID, statuses []credit.Status) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID, statuses)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCreditRepository) Save(ctx context.Context, c *credit.Credit) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockConfigurationRepository is a mock implementation of mora.ConfigurationRepository
type MockConfigurationRepository struct {
	mock.Mock
}

func (m *MockConfigurationRepository) FindActive(ctx context.Context) (*mora.Configuration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mora.Configuration), args.Error(1)
}

func (m *MockConfigurationRepository) Save(ctx context.Context, cfg *mora.Configuration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}
