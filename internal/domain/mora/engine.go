package mora

import (
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// feePlaces is the number of decimal places fees are rounded to.
// Rounding is half away from zero (decimal.Round).
const feePlaces = 2

// Engine computes late fees. It holds no state besides the clock used
// to resolve a missing as-of date, so one value can serve any number of goroutines.
type Engine struct {
	clock shared.Clock
}

// NewEngine creates an engine reading "today" from clock
func NewEngine(clock shared.Clock) *Engine {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Engine{clock: clock}
}

// CalculateForInstallment computes the fee of a single installment
func (e *Engine) CalculateForInstallment(inst credit.Installment, cfg *Configuration, asOf *time.Time) Result {
	return e.CalculateForInstallments([]credit.Installment{inst}, cfg, asOf)
}

// CalculateForCredit computes fees for the credit's pending, unpaid installments
func (e *Engine) CalculateForCredit(c *credit.Credit, cfg *Configuration, asOf *time.Time) Result {
	if c == nil {
		return emptyResult(shared.AsOfOrToday(e.clock, asOf))
	}
	return e.CalculateForInstallments(c.PendingInstallments(), cfg, asOf)
}

// CalculateForInstallments computes fees for a batch of installments.
// An empty batch or an invalid configuration yields a zero result.
func (e *Engine) CalculateForInstallments(installments []credit.Installment, cfg *Configuration, asOf *time.Time) Result {
	date := shared.AsOfOrToday(e.clock, asOf)
	result := emptyResult(date)
	if len(installments) == 0 || !cfg.IsValid() {
		return result
	}

	result.Details = make([]InstallmentFeeDetail, 0, len(installments))
	for _, inst := range installments {
		detail := calculateDetail(inst, cfg, date)
		result.Details = append(result.Details, detail)

		result.TotalFee = result.TotalFee.Add(detail.FinalFee)
		if detail.EffectiveDaysOverdue > 0 {
			result.TotalOverduePrincipal = result.TotalOverduePrincipal.Add(detail.CalculationBaseAmount)
		}
		result.TotalDebt = result.TotalDebt.Add(detail.TotalDue())
		if detail.HasFee() {
			result.WithFeeCount++
		}
	}
	result.ProcessedCount = len(installments)

	return result
}

// IsOverdue reports whether an unpaid installment is past its due date plus grace
func (e *Engine) IsOverdue(inst credit.Installment, gracePeriodDays int, asOf *time.Time) bool {
	if inst.IsPaid() {
		return false
	}
	date := shared.AsOfOrToday(e.clock, asOf)
	return shared.DaysBetween(inst.DueDate, date) > gracePeriodDays
}

// EffectiveOverdueDays returns the days past due beyond the grace period, never negative
func (e *Engine) EffectiveOverdueDays(dueDate time.Time, gracePeriodDays int, asOf *time.Time) int {
	date := shared.AsOfOrToday(e.clock, asOf)
	return effectiveDays(shared.DaysBetween(dueDate, date), gracePeriodDays)
}

func effectiveDays(daysOverdue, gracePeriodDays int) int {
	days := daysOverdue - gracePeriodDays
	if days < 0 {
		return 0
	}
	return days
}

func calculateDetail(inst credit.Installment, cfg *Configuration, asOf time.Time) InstallmentFeeDetail {
	daysOverdue := shared.DaysBetween(inst.DueDate, asOf)
	effective := effectiveDays(daysOverdue, cfg.GracePeriodDays)
	if daysOverdue < 0 {
		daysOverdue = 0
	}

	detail := InstallmentFeeDetail{
		InstallmentID:         inst.ID,
		InstallmentNumber:     inst.Number,
		DueDate:               inst.DueDate,
		DaysOverdue:           daysOverdue,
		EffectiveDaysOverdue:  effective,
		CalculationBaseAmount: decimal.Zero,
		AppliedDailyRate:      decimal.Zero,
		GrossFee:              decimal.Zero,
		FinalFee:              decimal.Zero,
		PrincipalAmount:       inst.PrincipalAmount,
		InterestAmount:        inst.InterestAmount,
		PaidAmount:            inst.PaidAmount,
	}
	if effective <= 0 || inst.IsPaid() {
		return detail
	}

	detail.CalculationBaseAmount = calculationBase(inst, cfg.CalculationBase)

	dailyRate := cfg.DailyRate(cfg.NominalRate(effective))
	detail.AppliedDailyRate = dailyRate
	if dailyRate.IsZero() {
		return detail
	}

	gross := detail.CalculationBaseAmount.Mul(dailyRate).Mul(decimal.NewFromInt(int64(effective)))
	final := gross

	if capAmount := cfg.CapAmount(detail.CalculationBaseAmount); capAmount != nil && final.GreaterThan(*capAmount) {
		final = *capAmount
		detail.CapApplied = true
	}

	if cfg.MinimumFee != nil && cfg.MinimumFee.IsPositive() &&
		final.IsPositive() && final.LessThan(*cfg.MinimumFee) {
		final = *cfg.MinimumFee
		detail.MinimumApplied = true
	}

	detail.GrossFee = gross.Round(feePlaces)
	detail.FinalFee = final.Round(feePlaces)
	return detail
}

// calculationBase returns the amount fees accrue on, floored at zero
func calculationBase(inst credit.Installment, base CalculationBase) decimal.Decimal {
	amount := inst.PrincipalAmount
	if base == CalculationBasePrincipalPlusInterest {
		amount = amount.Add(inst.InterestAmount)
	}
	amount = amount.Sub(inst.PaidAmount)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
