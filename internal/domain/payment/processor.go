package payment

import "context"

// Processor is the external payment processor surface the service depends
// on. The Stripe implementation lives in platform/stripeclient; tests supply
// a mock.
type Processor interface {
	CreateExpressAccount(ctx context.Context, email string) (string, error)
	CreateOnboardingLink(ctx context.Context, accountID string) (string, error)
	GetAccount(ctx context.Context, accountID string) (Account, error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error)
	CreateDestinationCharge(ctx context.Context, req ChargeRequest) (PaymentIntent, error)
}
