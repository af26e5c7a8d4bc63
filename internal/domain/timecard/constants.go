package timecard

const (
	StatusSubmitted    = "Submitted"
	StatusApproved     = "Approved"
	StatusAutoApproved = "Auto-Approved"
	StatusRejected     = "Rejected"
	StatusPaid         = "Paid"
)

const (
	// DefaultPlatformFeeRate is the blended rate used for display estimates.
	// Actual money movement uses the asymmetric split in the payment package.
	DefaultPlatformFeeRate = 0.15

	MaxShiftHours        = 24.0
	LongShiftWarnHours   = 16.0
	BreakWarnHours       = 6.0
	MaxBreakMinutes      = 480
	MaxSubmissionAgeDays = 30
)

func IsTerminal(status string) bool {
	return status == StatusPaid || status == StatusRejected
}

func IsPayable(status string) bool {
	return status == StatusApproved || status == StatusAutoApproved
}
