package payment

import "github.com/shopspring/decimal"

// Amounts is the asymmetric fee split actually charged and transferred for a
// shift. Each figure is rounded to cents independently.
type Amounts struct {
	NurseGrossAmount  decimal.Decimal `json:"nurseGrossAmount"`
	NurseFee          decimal.Decimal `json:"nurseFee"`
	NurseNetAmount    decimal.Decimal `json:"nurseNetAmount"`
	ClientFee         decimal.Decimal `json:"clientFee"`
	ClientTotalAmount decimal.Decimal `json:"clientTotalAmount"`
	PlatformTotalFee  decimal.Decimal `json:"platformTotalFee"`
}

// Account is the processor's view of a nurse's express account.
type Account struct {
	ID               string
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
	RequirementsDue  int
}

type PaymentMethod struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Last4 string `json:"last4"`
}

type PaymentIntent struct {
	ID     string
	Status string
}

// ChargeRequest describes one destination charge: the client's card is
// charged ClientTotal, the platform keeps the application fee, the rest is
// transferred to the nurse's account.
type ChargeRequest struct {
	CustomerID           string
	PaymentMethodID      string
	DestinationAccountID string
	AmountCents          int64
	ApplicationFeeCents  int64
	Currency             string
	IdempotencyKey       string
	Description          string
}

// PayableTimecard is the slice of timecard/contract/profile data the payment
// path needs.
type PayableTimecard struct {
	ID               string
	Status           string
	JobCode          string
	TotalHours       decimal.Decimal
	HourlyRate       decimal.Decimal
	NurseID          string
	ClientID         string
	NurseAccountID   string
	ClientCustomerID string
}

// Receipt is what a successful payment attempt returns to the caller.
type Receipt struct {
	TimecardID      string  `json:"timecardId"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amounts         Amounts `json:"amounts"`
}
