package contract

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

// Contract binds a nurse to a client engagement. The hourly rate recorded
// here is the one every timecard and payment derives from.
type Contract struct {
	ID         string          `json:"id"`
	NurseID    string          `json:"nurseId"`
	ClientID   string          `json:"clientId"`
	JobCode    string          `json:"jobCode"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type Nurse struct {
	ID                  string `json:"id"`
	UserID              string `json:"userId"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	StripeAccountID     string `json:"stripeAccountId,omitempty"`
	StripeAccountStatus string `json:"stripeAccountStatus"`
	StripeOnboardingURL string `json:"stripeOnboardingUrl,omitempty"`
}

type Client struct {
	ID               string `json:"id"`
	UserID           string `json:"userId"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	StripeCustomerID string `json:"stripeCustomerId,omitempty"`
}
