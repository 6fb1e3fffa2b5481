package mora

import "github.com/shopspring/decimal"

var (
	hundred      = decimal.NewFromInt(100)
	daysPerMonth = decimal.NewFromInt(30)
)

// FirstPresent returns the first non-nil value, scanning left to right
func FirstPresent(values ...*decimal.Decimal) *decimal.Decimal {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// Rate is a convenience for building optional rates in configuration literals
func Rate(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}
