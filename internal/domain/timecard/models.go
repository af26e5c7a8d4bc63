package timecard

import (
	"time"

	"github.com/shopspring/decimal"
)

type Timecard struct {
	ID                    string          `json:"id"`
	ContractID            string          `json:"contractId"`
	JobCode               string          `json:"jobCode"`
	ShiftDate             time.Time       `json:"shiftDate"`
	StartTime             string          `json:"startTime"`
	EndTime               string          `json:"endTime"`
	IsOvernight           bool            `json:"isOvernight"`
	BreakMinutes          int             `json:"breakMinutes"`
	TotalHours            float64         `json:"totalHours"`
	HourlyRate            decimal.Decimal `json:"hourlyRate"`
	Status                string          `json:"status"`
	NurseNetAmount        decimal.Decimal `json:"nurseNetAmount"`
	ClientTotalAmount     decimal.Decimal `json:"clientTotalAmount"`
	PlatformFeeAmount     decimal.Decimal `json:"platformFeeAmount"`
	StripePaymentIntentID string          `json:"stripePaymentIntentId,omitempty"`
	PaymentError          string          `json:"paymentError,omitempty"`
	RejectionReason       string          `json:"rejectionReason,omitempty"`
	ApprovedBy            string          `json:"approvedBy,omitempty"`
	TimestampPaid         *time.Time      `json:"timestampPaid,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// Submission is the raw shift data a nurse submits, before any rule checks.
type Submission struct {
	ContractID   string  `json:"contractId"`
	JobCode      string  `json:"jobCode"`
	ShiftDate    string  `json:"shiftDate"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	IsOvernight  bool    `json:"isOvernight"`
	BreakMinutes int     `json:"breakMinutes"`
	TotalHours   float64 `json:"totalHours"`
}

// Financials is the blended-rate display estimate for one shift.
type Financials struct {
	TotalHours  float64 `json:"totalHours"`
	GrossPay    float64 `json:"grossPay"`
	NetPay      float64 `json:"netPay"`
	PlatformFee float64 `json:"platformFee"`
	ClientCost  float64 `json:"clientCost"`
}

type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type ListFilter struct {
	ContractID string
	NurseID    string
	ClientID   string
	Status     string
}
