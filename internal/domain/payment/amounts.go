package payment

import "github.com/shopspring/decimal"

// CalculateAmounts derives the charge/transfer split for a shift. Every
// output is rounded from the exact (unrounded) gross, so the fee
// conservation identity can drift by a sub-cent amount after rounding;
// RoundingDrift exposes it for callers that want to reconcile.
func CalculateAmounts(nurseHourlyRate, totalHours decimal.Decimal) Amounts {
	gross := nurseHourlyRate.Mul(totalHours)
	nurseFee := gross.Mul(NurseFeeRate)
	clientFee := gross.Mul(ClientFeeRate)

	return Amounts{
		NurseGrossAmount:  gross.Round(2),
		NurseFee:          nurseFee.Round(2),
		NurseNetAmount:    gross.Sub(nurseFee).Round(2),
		ClientFee:         clientFee.Round(2),
		ClientTotalAmount: gross.Add(clientFee).Round(2),
		PlatformTotalFee:  nurseFee.Add(clientFee).Round(2),
	}
}

// RoundingDrift returns clientTotal - nurseNet - platformTotalFee, the
// post-rounding error on the fee conservation identity. It is zero for
// typical rates and never exceeds a cent in magnitude.
func (a Amounts) RoundingDrift() decimal.Decimal {
	return a.ClientTotalAmount.Sub(a.NurseNetAmount).Sub(a.PlatformTotalFee)
}

// Cents converts a currency amount to integer cents for the processor API.
func Cents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
