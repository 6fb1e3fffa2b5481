package collection

import (
	"context"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/collection"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/mora"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/partner"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAlertRepository is a mock implementation of collection.AlertRepository
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindOpenByCredit(ctx context.Context, creditID uuid.UUID) (*collection.Alert, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindByState(ctx context.Context, state collection.AlertState, filter shared.Filter) ([]collection.Alert, error) {
	args := m.Called(ctx, state, filter)
	return args.Get(0).([]collection.Alert), args.Error(1)
}

func (m *MockAlertRepository) Save(ctx context.Context, alert *collection.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) SaveWithLock(ctx context.Context, alert *collection.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

// MockContactHistoryRepository is a mock implementation of collection.ContactHistoryRepository
type MockContactHistoryRepository struct {
	mock.Mock
}

func (m *MockContactHistoryRepository) Append(ctx context.Context, entry *collection.ContactEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockContactHistoryRepository) FindByAlert(ctx context.Context, alertID uuid.UUID) ([]collection.ContactEntry, error) {
	args := m.Called(ctx, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]collection.ContactEntry), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockNotifier is a mock implementation of collection.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyPromiseDueSoon(ctx context.Context, reminder collection.PromiseReminder) error {
	args := m.Called(ctx, reminder)
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

// inlineTxManager runs the unit of work directly, counting invocations
type inlineTxManager struct {
	calls int
}

func (m *inlineTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}
