package partner

import (
	"regexp"
	"strings"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusInactive  CustomerStatus = "INACTIVE"
	CustomerStatusSuspended CustomerStatus = "SUSPENDED"
)

// Customer is the credit customer as seen by availability and collections.
// Its credit limit is derived from RiskTier and may be raised by ManualLimit or CustomCap.
type Customer struct {
	shared.BaseAggregateRoot
	Code           string
	FirstName      string
	LastName       string
	DocumentNumber string
	Phone          string
	Email          string
	RiskTier       credit.RiskTier
	ManualLimit    *decimal.Decimal // manual override set by a credit officer
	CustomCap      *decimal.Decimal // custom cap granted by policy exception
	Status         CustomerStatus
	IsDeleted      bool
}

// NewCustomer creates a new active customer in the MEDIUM risk tier
func NewCustomer(code, firstName, lastName, documentNumber string) (*Customer, error) {
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}
	if err := validateName(firstName, "first name"); err != nil {
		return nil, err
	}
	if err := validateName(lastName, "last name"); err != nil {
		return nil, err
	}
	if !documentNumberRegex.MatchString(documentNumber) {
		return nil, shared.NewValidationError("INVALID_DOCUMENT", "Invalid document number format")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		DocumentNumber:    documentNumber,
		RiskTier:          credit.RiskTierMedium,
		Status:            CustomerStatusActive,
	}, nil
}

// FullName returns "LastName, FirstName" as printed on collection reports
func (c *Customer) FullName() string {
	switch {
	case c.LastName == "":
		return c.FirstName
	case c.FirstName == "":
		return c.LastName
	}
	return c.LastName + ", " + c.FirstName
}

var documentNumberRegex = regexp.MustCompile(`^[0-9A-Za-z.\-]{6,20}$`)

func validateCustomerCode(code string) error {
	if code == "" {
		return shared.NewValidationError("INVALID_CODE", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewValidationError("INVALID_CODE", "Customer code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewValidationError("INVALID_CODE", "Customer code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name, field string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Customer "+field+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("INVALID_NAME", "Customer "+field+" cannot exceed 100 characters")
	}
	return nil
}
