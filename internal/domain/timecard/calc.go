package timecard

import "math"

// CalculateFinancials computes the blended-rate pay breakdown shown to nurses
// and clients before a payment is attempted. Pure arithmetic; callers supply
// non-negative inputs.
func CalculateFinancials(hours, hourlyRate, platformFeeRate float64) Financials {
	gross := hours * hourlyRate
	fee := gross * platformFeeRate
	net := gross * (1 - platformFeeRate)
	return Financials{
		TotalHours:  round2(hours),
		GrossPay:    round2(gross),
		NetPay:      round2(net),
		PlatformFee: round2(fee),
		ClientCost:  round2(gross + fee),
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
