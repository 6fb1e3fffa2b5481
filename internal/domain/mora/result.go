package mora

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentFeeDetail is the late-fee breakdown for one installment
type InstallmentFeeDetail struct {
	InstallmentID         uuid.UUID       `json:"installment_id"`
	InstallmentNumber     int             `json:"installment_number"`
	DueDate               time.Time       `json:"due_date"`
	DaysOverdue           int             `json:"days_overdue"`
	EffectiveDaysOverdue  int             `json:"effective_days_overdue"`
	CalculationBaseAmount decimal.Decimal `json:"calculation_base_amount"`
	AppliedDailyRate      decimal.Decimal `json:"applied_daily_rate"`
	GrossFee              decimal.Decimal `json:"gross_fee"`
	FinalFee              decimal.Decimal `json:"final_fee"`
	CapApplied            bool            `json:"cap_applied"`
	MinimumApplied        bool            `json:"minimum_applied"`
	PrincipalAmount       decimal.Decimal `json:"principal_amount"`
	InterestAmount        decimal.Decimal `json:"interest_amount"`
	PaidAmount            decimal.Decimal `json:"paid_amount"`
}

// TotalDue is the amount owed for the installment including its late fee
func (d InstallmentFeeDetail) TotalDue() decimal.Decimal {
	return d.CalculationBaseAmount.Add(d.FinalFee)
}

// HasFee returns true if a positive fee accrued
func (d InstallmentFeeDetail) HasFee() bool {
	return d.FinalFee.IsPositive()
}

// Result aggregates the fee breakdown of a batch of installments.
// Details keep the order of the input installments.
type Result struct {
	CalculationDate time.Time       `json:"calculation_date"`
	TotalFee        decimal.Decimal `json:"total_fee"`
	// TotalOverduePrincipal sums the calculation base of every installment with
	// positive effective overdue days. With a PRINCIPAL_PLUS_INTEREST base it includes interest.
	TotalOverduePrincipal decimal.Decimal        `json:"total_overdue_principal"`
	TotalDebt             decimal.Decimal        `json:"total_debt"`
	ProcessedCount        int                    `json:"processed_count"`
	WithFeeCount          int                    `json:"with_fee_count"`
	Details               []InstallmentFeeDetail `json:"details"`
}

func emptyResult(calculationDate time.Time) Result {
	return Result{
		CalculationDate:       calculationDate,
		TotalFee:              decimal.Zero,
		TotalOverduePrincipal: decimal.Zero,
		TotalDebt:             decimal.Zero,
		Details:               make([]InstallmentFeeDetail, 0),
	}
}

// MaxEffectiveDays returns the largest effective overdue days across details
func (r Result) MaxEffectiveDays() int {
	maxDays := 0
	for _, d := range r.Details {
		if d.EffectiveDaysOverdue > maxDays {
			maxDays = d.EffectiveDaysOverdue
		}
	}
	return maxDays
}
