package payment

import "errors"

var (
	ErrAmountBelowMinimum = errors.New("client total is below the processor minimum chargeable amount")
	ErrAccountNotReady    = errors.New("destination account does not have charges and payouts enabled")
	ErrNoPaymentAccount   = errors.New("nurse has no payment account")
	ErrNoCustomer         = errors.New("client has no processor customer")
	ErrNoPaymentMethod    = errors.New("client has no saved payment method")
	ErrTimecardNotPayable = errors.New("timecard is not in a payable status")
	ErrTimecardNotFound   = errors.New("timecard not found")
)
