// Package prequalification decides whether a declared income can carry a new installment.
package prequalification

import (
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// IncomeMultiplier is how many times the installment the effective income must cover.
// 3.33 keeps the installment at or below roughly 30% of effective income.
var IncomeMultiplier = decimal.RequireFromString("3.33")

// TrafficLight is the outcome of an evaluation
type TrafficLight string

const (
	TrafficLightIndeterminate TrafficLight = "INDETERMINATE"
	TrafficLightGreen         TrafficLight = "GREEN"
	TrafficLightYellow        TrafficLight = "YELLOW"
	TrafficLightRed           TrafficLight = "RED"
)

// Flags reported when inputs are missing
const (
	FlagMissingIncome    = "missing_income"
	FlagMissingSeniority = "missing_seniority"
)

// Recommendations attached to each outcome
const (
	RecommendationOK                = "OK 30%"
	RecommendationIncreaseDown      = "Increase the down payment or reduce the number of installments"
	RecommendationValidateSeniority = "Validate employment seniority before approving"
	RecommendationRequestIncome     = "Request proof of net income"
)

// Input holds the declared data of an applicant. Nil means not declared.
type Input struct {
	InstallmentAmount         decimal.Decimal
	DeclaredNetIncome         *decimal.Decimal
	DeclaredDebt              *decimal.Decimal
	EmploymentSeniorityMonths *int
}

// Result is the outcome of an evaluation
type Result struct {
	TrafficLight    TrafficLight
	PolicySatisfied bool
	EffectiveIncome *decimal.Decimal
	RequiredIncome  decimal.Decimal
	Flags           []string
	Recommendations []string
}

// HasFlag returns true if the flag was raised
func (r Result) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Evaluate applies the income policy to the input. It fails only on a negative installment.
func Evaluate(in Input) (Result, error) {
	if in.InstallmentAmount.IsNegative() {
		return Result{}, shared.NewValidationError("INVALID_INSTALLMENT", "Installment amount cannot be negative")
	}

	result := Result{
		TrafficLight:    TrafficLightIndeterminate,
		RequiredIncome:  in.InstallmentAmount.Mul(IncomeMultiplier),
		Flags:           make([]string, 0, 2),
		Recommendations: make([]string, 0, 1),
	}

	missingSeniority := in.EmploymentSeniorityMonths == nil
	if in.DeclaredNetIncome == nil {
		result.Flags = append(result.Flags, FlagMissingIncome)
		if missingSeniority {
			result.Flags = append(result.Flags, FlagMissingSeniority)
		}
		result.Recommendations = append(result.Recommendations, RecommendationRequestIncome)
		return result, nil
	}

	effective := *in.DeclaredNetIncome
	if in.DeclaredDebt != nil {
		effective = effective.Sub(*in.DeclaredDebt)
	}
	result.EffectiveIncome = &effective
	result.PolicySatisfied = effective.GreaterThanOrEqual(result.RequiredIncome)

	switch {
	case !result.PolicySatisfied:
		result.TrafficLight = TrafficLightRed
		result.Recommendations = append(result.Recommendations, RecommendationIncreaseDown)
	case missingSeniority:
		result.TrafficLight = TrafficLightYellow
		result.Flags = append(result.Flags, FlagMissingSeniority)
		result.Recommendations = append(result.Recommendations, RecommendationValidateSeniority)
	default:
		result.TrafficLight = TrafficLightGreen
		result.Recommendations = append(result.Recommendations, RecommendationOK)
	}

	return result, nil
}
