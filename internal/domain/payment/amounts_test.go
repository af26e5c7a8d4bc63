package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateAmountsStandardShift(t *testing.T) {
	amounts := CalculateAmounts(dec("50"), dec("8"))

	assert.True(t, dec("400.00").Equal(amounts.NurseGrossAmount), "gross: %s", amounts.NurseGrossAmount)
	assert.True(t, dec("20.00").Equal(amounts.NurseFee), "nurse fee: %s", amounts.NurseFee)
	assert.True(t, dec("380.00").Equal(amounts.NurseNetAmount), "nurse net: %s", amounts.NurseNetAmount)
	assert.True(t, dec("40.00").Equal(amounts.ClientFee), "client fee: %s", amounts.ClientFee)
	assert.True(t, dec("440.00").Equal(amounts.ClientTotalAmount), "client total: %s", amounts.ClientTotalAmount)
	assert.True(t, dec("60.00").Equal(amounts.PlatformTotalFee), "platform fee: %s", amounts.PlatformTotalFee)
	assert.True(t, amounts.RoundingDrift().IsZero(), "drift: %s", amounts.RoundingDrift())
}

func TestCalculateAmountsRoundsEachOutputIndependently(t *testing.T) {
	// 41.77 * 7.37 = 307.8449: every figure rounds from the exact gross, not
	// from the already-rounded gross.
	amounts := CalculateAmounts(dec("41.77"), dec("7.37"))

	assert.True(t, dec("307.84").Equal(amounts.NurseGrossAmount), "gross: %s", amounts.NurseGrossAmount)
	assert.True(t, dec("15.39").Equal(amounts.NurseFee), "nurse fee: %s", amounts.NurseFee)
	assert.True(t, dec("292.45").Equal(amounts.NurseNetAmount), "nurse net: %s", amounts.NurseNetAmount)
	assert.True(t, dec("30.78").Equal(amounts.ClientFee), "client fee: %s", amounts.ClientFee)
	assert.True(t, dec("338.63").Equal(amounts.ClientTotalAmount), "client total: %s", amounts.ClientTotalAmount)
	assert.True(t, dec("46.18").Equal(amounts.PlatformTotalFee), "platform fee: %s", amounts.PlatformTotalFee)
}

func TestRoundingDriftStaysSubCent(t *testing.T) {
	rates := []string{"33.33", "41.77", "50", "87.19", "99.99"}
	hours := []string{"0.25", "1.5", "7.37", "8", "12.75"}
	limit := dec("0.01")

	for _, rate := range rates {
		for _, hrs := range hours {
			amounts := CalculateAmounts(dec(rate), dec(hrs))
			drift := amounts.RoundingDrift().Abs()
			assert.True(t, drift.LessThanOrEqual(limit),
				"rate %s x %sh drift %s exceeds a cent", rate, hrs, drift)
		}
	}
}

func TestCalculateAmountsZeroHours(t *testing.T) {
	amounts := CalculateAmounts(dec("50"), decimal.Zero)
	assert.True(t, amounts.ClientTotalAmount.IsZero())
	assert.True(t, amounts.ClientTotalAmount.LessThan(MinimumChargeAmount))
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(44000), Cents(dec("440.00")))
	assert.Equal(t, int64(49), Cents(dec("0.49")))
	assert.Equal(t, int64(50), Cents(dec("0.50")))
}

func TestAccountStatusFromFlags(t *testing.T) {
	assert.Equal(t, AccountStatusActive, AccountStatusFromFlags(true, true, true, 0))
	assert.Equal(t, AccountStatusActive, AccountStatusFromFlags(true, true, true, 3))
	assert.Equal(t, AccountStatusNotSubmitted, AccountStatusFromFlags(false, false, false, 0))
	assert.Equal(t, AccountStatusRequirementsDue, AccountStatusFromFlags(false, true, true, 2))
	assert.Equal(t, AccountStatusOnboarding, AccountStatusFromFlags(false, true, true, 0))
}

func TestIdempotencyKeyFor(t *testing.T) {
	assert.Equal(t, "timecard:tc-123:payment", IdempotencyKeyFor("tc-123"))
}
