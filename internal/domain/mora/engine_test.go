package mora

import (
	"testing"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(shared.FixedClock{At: today})
}

func monthlyConfig(rate string, grace int) *Configuration {
	return &Configuration{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Active:            true,
		GracePeriodDays:   grace,
		BaseRate:          Rate(rate),
		RateKind:          RateKindMonthly,
		CalculationBase:   CalculationBasePrincipal,
	}
}

func installmentDue(daysAgo int, principal, interest string) credit.Installment {
	inst, err := credit.NewInstallment(uuid.New(), 1, shared.AddDays(today, -daysAgo),
		decimal.RequireFromString(principal), decimal.RequireFromString(interest))
	if err != nil {
		panic(err)
	}
	return *inst
}

func TestEngine_CalculateForInstallment_MonthlyRate(t *testing.T) {
	engine := newTestEngine()
	inst := installmentDue(40, "1000", "0")

	result := engine.CalculateForInstallment(inst, monthlyConfig("10", 3), nil)

	require.Len(t, result.Details, 1)
	detail := result.Details[0]
	assert.Equal(t, 40, detail.DaysOverdue)
	assert.Equal(t, 37, detail.EffectiveDaysOverdue)
	assert.True(t, detail.CalculationBaseAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, detail.FinalFee.Equal(decimal.RequireFromString("123.33")), "got %s", detail.FinalFee)
	assert.True(t, detail.GrossFee.Equal(detail.FinalFee))
	assert.False(t, detail.CapApplied)
	assert.False(t, detail.MinimumApplied)
	assert.True(t, detail.TotalDue().Equal(decimal.RequireFromString("1123.33")))

	assert.True(t, result.TotalFee.Equal(decimal.RequireFromString("123.33")))
	assert.True(t, result.TotalOverduePrincipal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.TotalDebt.Equal(decimal.RequireFromString("1123.33")))
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, 1, result.WithFeeCount)
	assert.Equal(t, shared.DateOf(today), result.CalculationDate)
}

func TestEngine_DailyRate(t *testing.T) {
	engine := newTestEngine()
	cfg := monthlyConfig("0.1", 0)
	cfg.RateKind = RateKindDaily

	result := engine.CalculateForInstallment(installmentDue(10, "1000", "0"), cfg, nil)

	// 1000 x 0.001 x 10
	assert.True(t, result.TotalFee.Equal(decimal.NewFromInt(10)), "got %s", result.TotalFee)
	assert.True(t, result.Details[0].AppliedDailyRate.Equal(decimal.RequireFromString("0.001")))
}

func TestEngine_WithinGracePeriod(t *testing.T) {
	engine := newTestEngine()

	result := engine.CalculateForInstallment(installmentDue(3, "1000", "0"), monthlyConfig("10", 5), nil)

	require.Len(t, result.Details, 1)
	detail := result.Details[0]
	assert.Equal(t, 3, detail.DaysOverdue)
	assert.Equal(t, 0, detail.EffectiveDaysOverdue)
	assert.True(t, detail.FinalFee.IsZero())
	assert.True(t, detail.CalculationBaseAmount.IsZero())
	assert.True(t, result.TotalOverduePrincipal.IsZero())
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, 0, result.WithFeeCount)
}

func TestEngine_NotYetDue(t *testing.T) {
	engine := newTestEngine()

	result := engine.CalculateForInstallment(installmentDue(-10, "1000", "0"), monthlyConfig("10", 0), nil)

	detail := result.Details[0]
	assert.Equal(t, 0, detail.DaysOverdue)
	assert.Equal(t, 0, detail.EffectiveDaysOverdue)
	assert.True(t, detail.FinalFee.IsZero())
}

func TestEngine_PaidInstallmentNeverAccrues(t *testing.T) {
	engine := newTestEngine()
	cfg := monthlyConfig("10", 0)

	t.Run("payment date set", func(t *testing.T) {
		inst := installmentDue(90, "1000", "0")
		paidAt := shared.AddDays(today, -1)
		inst.PaymentDate = &paidAt

		result := engine.CalculateForInstallment(inst, cfg, nil)
		assert.True(t, result.TotalFee.IsZero())
		assert.False(t, result.Details[0].CapApplied)
		assert.False(t, result.Details[0].MinimumApplied)
	})

	t.Run("status paid", func(t *testing.T) {
		inst := installmentDue(90, "1000", "0")
		inst.Status = credit.InstallmentStatusPaid

		result := engine.CalculateForInstallment(inst, cfg, nil)
		assert.True(t, result.TotalFee.IsZero())
		assert.Equal(t, 90, result.Details[0].EffectiveDaysOverdue)
	})
}

func TestEngine_InvalidConfiguration(t *testing.T) {
	engine := newTestEngine()
	inst := installmentDue(40, "1000", "0")

	tests := []struct {
		name string
		cfg  *Configuration
	}{
		{"nil configuration", nil},
		{"missing rate kind", func() *Configuration {
			c := monthlyConfig("10", 0)
			c.RateKind = ""
			return c
		}()},
		{"zero base rate without tiering", monthlyConfig("0", 0)},
		{"tiering without any rate", &Configuration{RateKind: RateKindMonthly, TieringEnabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.CalculateForInstallment(inst, tt.cfg, nil)
			assert.True(t, result.TotalFee.IsZero())
			assert.True(t, result.TotalOverduePrincipal.IsZero())
			assert.Empty(t, result.Details)
			assert.Equal(t, 0, result.ProcessedCount)
		})
	}
}

func TestEngine_EmptyBatch(t *testing.T) {
	result := newTestEngine().CalculateForInstallments(nil, monthlyConfig("10", 0), nil)

	assert.True(t, result.TotalFee.IsZero())
	assert.True(t, result.TotalDebt.IsZero())
	assert.NotNil(t, result.Details)
	assert.Empty(t, result.Details)
}

func TestEngine_CalculationBase(t *testing.T) {
	engine := newTestEngine()
	inst := installmentDue(30, "1000", "200")
	inst.PaidAmount = decimal.NewFromInt(100)

	t.Run("principal", func(t *testing.T) {
		result := engine.CalculateForInstallment(inst, monthlyConfig("3", 0), nil)
		assert.True(t, result.Details[0].CalculationBaseAmount.Equal(decimal.NewFromInt(900)))
		// 900 x 0.001 x 30
		assert.True(t, result.TotalFee.Equal(decimal.NewFromInt(27)), "got %s", result.TotalFee)
	})

	t.Run("principal plus interest", func(t *testing.T) {
		cfg := monthlyConfig("3", 0)
		cfg.CalculationBase = CalculationBasePrincipalPlusInterest

		result := engine.CalculateForInstallment(inst, cfg, nil)
		assert.True(t, result.Details[0].CalculationBaseAmount.Equal(decimal.NewFromInt(1100)))
		assert.True(t, result.TotalOverduePrincipal.Equal(decimal.NewFromInt(1100)))
		assert.True(t, result.TotalFee.Equal(decimal.NewFromInt(33)), "got %s", result.TotalFee)
	})

	t.Run("overpaid base floors at zero", func(t *testing.T) {
		over := installmentDue(30, "100", "0")
		over.PaidAmount = decimal.NewFromInt(150)

		result := engine.CalculateForInstallment(over, monthlyConfig("3", 0), nil)
		assert.True(t, result.Details[0].CalculationBaseAmount.IsZero())
		assert.True(t, result.TotalFee.IsZero())
	})
}

func TestEngine_Tiering(t *testing.T) {
	engine := newTestEngine()
	cfg := &Configuration{
		RateKind:           RateKindMonthly,
		TieringEnabled:     true,
		BaseRate:           Rate("1"),
		FirstMonthRate:     Rate("3"),
		SecondMonthRate:    Rate("6"),
		ThirdMonthPlusRate: Rate("9"),
		CalculationBase:    CalculationBasePrincipal,
	}

	tests := []struct {
		name     string
		daysAgo  int
		wantRate string
	}{
		{"first month boundary", 30, "0.001"},
		{"second month", 31, "0.002"},
		{"second month boundary", 60, "0.002"},
		{"third month onwards", 61, "0.003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.CalculateForInstallment(installmentDue(tt.daysAgo, "1000", "0"), cfg, nil)
			assert.True(t, result.Details[0].AppliedDailyRate.Equal(decimal.RequireFromString(tt.wantRate)),
				"got %s", result.Details[0].AppliedDailyRate)
		})
	}
}

func TestEngine_TieringFallback(t *testing.T) {
	engine := newTestEngine()
	cfg := &Configuration{
		RateKind:        RateKindMonthly,
		TieringEnabled:  true,
		BaseRate:        Rate("1.5"),
		FirstMonthRate:  Rate("3"),
		CalculationBase: CalculationBasePrincipal,
	}

	t.Run("later tiers fall back to first month", func(t *testing.T) {
		result := engine.CalculateForInstallment(installmentDue(90, "1000", "0"), cfg, nil)
		assert.True(t, result.Details[0].AppliedDailyRate.Equal(decimal.RequireFromString("0.001")))
	})

	t.Run("first tier falls back to base", func(t *testing.T) {
		onlyBase := *cfg
		onlyBase.FirstMonthRate = nil
		result := engine.CalculateForInstallment(installmentDue(10, "1000", "0"), &onlyBase, nil)
		assert.True(t, result.Details[0].AppliedDailyRate.Equal(decimal.RequireFromString("0.0005")))
	})

	t.Run("zero tier rate short-circuits", func(t *testing.T) {
		zero := *cfg
		zero.FirstMonthRate = Rate("0")
		zero.MinimumFee = Rate("50")
		result := engine.CalculateForInstallment(installmentDue(10, "1000", "0"), &zero, nil)
		detail := result.Details[0]
		assert.True(t, detail.FinalFee.IsZero())
		assert.False(t, detail.MinimumApplied)
		assert.True(t, detail.CalculationBaseAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, result.TotalOverduePrincipal.Equal(decimal.NewFromInt(1000)))
	})
}

func TestEngine_Cap(t *testing.T) {
	engine := newTestEngine()

	t.Run("percentage cap", func(t *testing.T) {
		cfg := monthlyConfig("30", 0)
		cfg.CapEnabled = true
		cfg.CapKind = CapKindPercentage
		cfg.CapValue = Rate("20")

		result := engine.CalculateForInstallment(installmentDue(100, "1000", "0"), cfg, nil)
		detail := result.Details[0]
		assert.True(t, detail.GrossFee.Equal(decimal.NewFromInt(1000)), "got %s", detail.GrossFee)
		assert.True(t, detail.FinalFee.Equal(decimal.NewFromInt(200)))
		assert.True(t, detail.CapApplied)
	})

	t.Run("fixed cap", func(t *testing.T) {
		cfg := monthlyConfig("30", 0)
		cfg.CapEnabled = true
		cfg.CapKind = CapKindFixedAmount
		cfg.CapValue = Rate("150")

		result := engine.CalculateForInstallment(installmentDue(100, "1000", "0"), cfg, nil)
		assert.True(t, result.Details[0].FinalFee.Equal(decimal.NewFromInt(150)))
		assert.True(t, result.Details[0].CapApplied)
	})

	t.Run("cap disabled is ignored", func(t *testing.T) {
		cfg := monthlyConfig("30", 0)
		cfg.CapKind = CapKindFixedAmount
		cfg.CapValue = Rate("150")

		result := engine.CalculateForInstallment(installmentDue(100, "1000", "0"), cfg, nil)
		assert.True(t, result.Details[0].FinalFee.Equal(decimal.NewFromInt(1000)))
		assert.False(t, result.Details[0].CapApplied)
	})

	t.Run("cap without value is ignored", func(t *testing.T) {
		cfg := monthlyConfig("30", 0)
		cfg.CapEnabled = true
		cfg.CapKind = CapKindFixedAmount

		result := engine.CalculateForInstallment(installmentDue(100, "1000", "0"), cfg, nil)
		assert.False(t, result.Details[0].CapApplied)
	})
}

func TestEngine_MinimumFee(t *testing.T) {
	engine := newTestEngine()
	cfg := monthlyConfig("3", 0)
	cfg.MinimumFee = Rate("25")

	result := engine.CalculateForInstallment(installmentDue(5, "1000", "0"), cfg, nil)

	detail := result.Details[0]
	assert.True(t, detail.GrossFee.Equal(decimal.NewFromInt(5)))
	assert.True(t, detail.FinalFee.Equal(decimal.NewFromInt(25)))
	assert.True(t, detail.MinimumApplied)
	assert.False(t, detail.CapApplied)

	t.Run("fee above minimum untouched", func(t *testing.T) {
		result := engine.CalculateForInstallment(installmentDue(50, "1000", "0"), cfg, nil)
		assert.True(t, result.Details[0].FinalFee.Equal(decimal.NewFromInt(50)))
		assert.False(t, result.Details[0].MinimumApplied)
	})

	t.Run("minimum applies after cap", func(t *testing.T) {
		capped := *cfg
		capped.CapEnabled = true
		capped.CapKind = CapKindFixedAmount
		capped.CapValue = Rate("10")

		result := engine.CalculateForInstallment(installmentDue(50, "1000", "0"), &capped, nil)
		detail := result.Details[0]
		assert.True(t, detail.CapApplied)
		assert.True(t, detail.MinimumApplied)
		assert.True(t, detail.FinalFee.Equal(decimal.NewFromInt(25)))
	})
}

func TestEngine_RepeatedCalculationIsStable(t *testing.T) {
	capped := monthlyConfig("30", 2)
	capped.CapEnabled = true
	capped.CapKind = CapKindPercentage
	capped.CapValue = Rate("20")
	capped.MinimumFee = Rate("25")

	withInterest := monthlyConfig("7.5", 0)
	withInterest.CalculationBase = CalculationBasePrincipalPlusInterest

	configs := map[string]*Configuration{
		"monthly": monthlyConfig("10", 3),
		"tiered": {
			RateKind:           RateKindMonthly,
			TieringEnabled:     true,
			BaseRate:           Rate("1"),
			FirstMonthRate:     Rate("3"),
			SecondMonthRate:    Rate("6"),
			ThirdMonthPlusRate: Rate("9"),
			CalculationBase:    CalculationBasePrincipal,
		},
		"capped with minimum": capped,
		"principal plus interest": withInterest,
	}

	partial := installmentDue(75, "1000", "180")
	partial.PaidAmount = decimal.RequireFromString("333.33")
	installments := []credit.Installment{
		installmentDue(40, "1000", "0"),
		partial,
		installmentDue(5, "812.45", "41.10"),
		installmentDue(-10, "500", "0"),
	}
	asOf := time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			snapshot := append([]credit.Installment(nil), installments...)

			first := newTestEngine().CalculateForInstallments(installments, cfg, &asOf)
			second := newTestEngine().CalculateForInstallments(installments, cfg, &asOf)
			require.Len(t, first.Details, len(installments))
			assert.Equal(t, first, second)
			assert.Equal(t, snapshot, installments)

			engine := newTestEngine()
			for _, inst := range installments {
				assert.Equal(t, engine.CalculateForInstallment(inst, cfg, &asOf), engine.CalculateForInstallment(inst, cfg, &asOf))
			}
		})
	}
}

func TestEngine_Monotonicity(t *testing.T) {
	engine := newTestEngine()
	cfg := monthlyConfig("5", 2)
	inst := installmentDue(0, "1000", "0")

	prevDays := -1
	prevFee := decimal.NewFromInt(-1)
	for offset := 0; offset <= 120; offset += 7 {
		asOf := shared.AddDays(today, offset)
		result := engine.CalculateForInstallment(inst, cfg, &asOf)
		detail := result.Details[0]

		assert.GreaterOrEqual(t, detail.EffectiveDaysOverdue, prevDays)
		assert.True(t, detail.GrossFee.GreaterThanOrEqual(prevFee), "fee decreased at offset %d", offset)
		prevDays = detail.EffectiveDaysOverdue
		prevFee = detail.GrossFee
	}
}

func TestEngine_CalculateForCredit(t *testing.T) {
	engine := newTestEngine()
	c, err := credit.NewCredit("CR-0001", uuid.New(), decimal.NewFromInt(3000))
	require.NoError(t, err)

	for i, daysAgo := range []int{40, 10, -20} {
		inst, err := credit.NewInstallment(c.ID, i+1, shared.AddDays(today, -daysAgo), decimal.NewFromInt(1000), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, c.AddInstallment(*inst))
	}
	require.NoError(t, c.Installments[1].RegisterPayment(decimal.NewFromInt(1000), today))

	result := engine.CalculateForCredit(c, monthlyConfig("10", 3), nil)

	assert.Equal(t, 2, result.ProcessedCount)
	require.Len(t, result.Details, 2)
	assert.Equal(t, 1, result.Details[0].InstallmentNumber)
	assert.Equal(t, 3, result.Details[1].InstallmentNumber)
	assert.Equal(t, 1, result.WithFeeCount)
	assert.True(t, result.TotalFee.Equal(decimal.RequireFromString("123.33")))
	assert.True(t, result.TotalOverduePrincipal.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 37, result.MaxEffectiveDays())

	empty := engine.CalculateForCredit(nil, monthlyConfig("10", 3), nil)
	assert.True(t, empty.TotalFee.IsZero())
	assert.Empty(t, empty.Details)
}

func TestEngine_IsOverdue(t *testing.T) {
	engine := newTestEngine()

	assert.True(t, engine.IsOverdue(installmentDue(4, "100", "0"), 3, nil))
	assert.False(t, engine.IsOverdue(installmentDue(3, "100", "0"), 3, nil))
	assert.False(t, engine.IsOverdue(installmentDue(-1, "100", "0"), 0, nil))

	paid := installmentDue(365, "100", "0")
	paid.Status = credit.InstallmentStatusPaid
	assert.False(t, engine.IsOverdue(paid, 0, nil))

	asOf := shared.AddDays(today, -10)
	assert.False(t, engine.IsOverdue(installmentDue(4, "100", "0"), 0, &asOf))
}

func TestEngine_EffectiveOverdueDays(t *testing.T) {
	engine := newTestEngine()

	assert.Equal(t, 7, engine.EffectiveOverdueDays(shared.AddDays(today, -10), 3, nil))
	assert.Equal(t, 0, engine.EffectiveOverdueDays(shared.AddDays(today, -2), 3, nil))
	assert.Equal(t, 0, engine.EffectiveOverdueDays(shared.AddDays(today, 5), 0, nil))
}

func TestFirstPresent(t *testing.T) {
	assert.Nil(t, FirstPresent())
	assert.Nil(t, FirstPresent(nil, nil))
	assert.True(t, FirstPresent(nil, Rate("2"), Rate("3")).Equal(decimal.NewFromInt(2)))
}
