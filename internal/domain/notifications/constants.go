package notifications

const (
	TypeTimecardSubmitted  = "timecard_submitted"
	TypeTimecardApproved   = "timecard_approved"
	TypeTimecardRejected   = "timecard_rejected"
	TypePaymentCompleted   = "payment_completed"
	TypePaymentFailed      = "payment_failed"
	TypeOnboardingRequired = "onboarding_required"
)
