package payment

import "github.com/shopspring/decimal"

// Account statuses mirror the processor's reported capability flags. The
// local value is a cache: only a processor query moves an account forward.
const (
	AccountStatusNotStarted      = "not_started"
	AccountStatusNotSubmitted    = "not_submitted"
	AccountStatusOnboarding      = "onboarding"
	AccountStatusRequirementsDue = "requirements_due"
	AccountStatusActive          = "active"
)

const DefaultCurrency = "usd"

var (
	// NurseFeeRate is deducted from the nurse payout; ClientFeeRate is added
	// on top of the client charge. The two sides together make the platform's
	// 15% take.
	NurseFeeRate  = decimal.NewFromFloat(0.05)
	ClientFeeRate = decimal.NewFromFloat(0.10)

	// MinimumChargeAmount is the processor's smallest chargeable amount in
	// the currency unit.
	MinimumChargeAmount = decimal.NewFromFloat(0.50)
)

// AccountStatusFromFlags maps processor capability flags onto the local
// account status enum. The local system never decides "active" on its own.
func AccountStatusFromFlags(chargesEnabled, payoutsEnabled, detailsSubmitted bool, requirementsDue int) string {
	switch {
	case chargesEnabled && payoutsEnabled:
		return AccountStatusActive
	case !detailsSubmitted:
		return AccountStatusNotSubmitted
	case requirementsDue > 0:
		return AccountStatusRequirementsDue
	default:
		return AccountStatusOnboarding
	}
}
