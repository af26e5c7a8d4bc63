package stripeclient

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"nursenest/internal/domain/payment"
	"nursenest/internal/platform/config"
)

// Client adapts the Stripe SDK to the payment.Processor interface. Nurses
// get express accounts and are paid through destination charges with an
// application fee.
type Client struct {
	api        *client.API
	refreshURL string
	returnURL  string
}

func New(cfg config.Config) *Client {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)
	return &Client{
		api:        api,
		refreshURL: cfg.StripeRefreshURL,
		returnURL:  cfg.StripeReturnURL,
	}
}

func (c *Client) CreateExpressAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Params: stripe.Params{Context: ctx},
		Type:   stripe.String(string(stripe.AccountTypeExpress)),
		Email:  stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
	}
	acct, err := c.api.Accounts.New(params)
	if err != nil {
		return "", err
	}
	return acct.ID, nil
}

func (c *Client) CreateOnboardingLink(ctx context.Context, accountID string) (string, error) {
	params := &stripe.AccountLinkParams{
		Params:     stripe.Params{Context: ctx},
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(c.refreshURL),
		ReturnURL:  stripe.String(c.returnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	link, err := c.api.AccountLinks.New(params)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

func (c *Client) GetAccount(ctx context.Context, accountID string) (payment.Account, error) {
	acct, err := c.api.Accounts.GetByID(accountID, &stripe.AccountParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return payment.Account{}, err
	}
	requirementsDue := 0
	if acct.Requirements != nil {
		requirementsDue = len(acct.Requirements.CurrentlyDue)
	}
	return payment.Account{
		ID:               acct.ID,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
		RequirementsDue:  requirementsDue,
	}, nil
}

func (c *Client) ListPaymentMethods(ctx context.Context, customerID string) ([]payment.PaymentMethod, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	var methods []payment.PaymentMethod
	iter := c.api.PaymentMethods.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		method := payment.PaymentMethod{ID: pm.ID}
		if pm.Card != nil {
			method.Brand = string(pm.Card.Brand)
			method.Last4 = pm.Card.Last4
		}
		methods = append(methods, method)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return methods, nil
}

func (c *Client) CreateDestinationCharge(ctx context.Context, req payment.ChargeRequest) (payment.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:               stripe.Params{Context: ctx},
		Amount:               stripe.Int64(req.AmountCents),
		Currency:             stripe.String(req.Currency),
		Customer:             stripe.String(req.CustomerID),
		PaymentMethod:        stripe.String(req.PaymentMethodID),
		Confirm:              stripe.Bool(true),
		OffSession:           stripe.Bool(true),
		ApplicationFeeAmount: stripe.Int64(req.ApplicationFeeCents),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(req.DestinationAccountID),
		},
		Description: stripe.String(req.Description),
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return payment.PaymentIntent{}, err
	}
	return payment.PaymentIntent{ID: intent.ID, Status: string(intent.Status)}, nil
}
