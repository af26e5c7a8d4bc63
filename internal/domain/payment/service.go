package payment

import (
	"context"
	"fmt"

	"nursenest/internal/domain/timecard"
)

type Service struct {
	store     StoreAPI
	accounts  AccountStore
	processor Processor
}

func NewService(store StoreAPI, accounts AccountStore, processor Processor) *Service {
	return &Service{store: store, accounts: accounts, processor: processor}
}

// OnboardingResult is returned from StartOnboarding so the caller can
// redirect the nurse to the processor-hosted onboarding flow.
type OnboardingResult struct {
	AccountID     string `json:"accountId"`
	AccountStatus string `json:"accountStatus"`
	OnboardingURL string `json:"onboardingUrl"`
}

// StartOnboarding creates the nurse's express account on first call and
// hands back a fresh onboarding link on every call. The stored status is a
// mirror of what the processor reports, never a local decision.
func (s *Service) StartOnboarding(ctx context.Context, nurseID, email string) (OnboardingResult, error) {
	nurse, err := s.accounts.GetNurse(ctx, nurseID)
	if err != nil {
		return OnboardingResult{}, err
	}

	accountID := nurse.StripeAccountID
	if accountID == "" {
		accountID, err = s.processor.CreateExpressAccount(ctx, email)
		if err != nil {
			return OnboardingResult{}, fmt.Errorf("create express account: %w", err)
		}
	}

	link, err := s.processor.CreateOnboardingLink(ctx, accountID)
	if err != nil {
		return OnboardingResult{}, fmt.Errorf("create onboarding link: %w", err)
	}

	acct, err := s.processor.GetAccount(ctx, accountID)
	if err != nil {
		return OnboardingResult{}, fmt.Errorf("fetch account: %w", err)
	}
	status := AccountStatusFromFlags(acct.ChargesEnabled, acct.PayoutsEnabled, acct.DetailsSubmitted, acct.RequirementsDue)

	if err := s.accounts.UpdateNurseAccount(ctx, nurseID, accountID, status, link); err != nil {
		return OnboardingResult{}, fmt.Errorf("persist account: %w", err)
	}

	return OnboardingResult{AccountID: accountID, AccountStatus: status, OnboardingURL: link}, nil
}

// RefreshAccountStatus re-queries the processor for the nurse's account and
// mirrors the reported flags locally. Pull-based only: there is no webhook
// path, so staleness between refreshes is expected and tolerated.
func (s *Service) RefreshAccountStatus(ctx context.Context, nurseID string) (string, error) {
	nurse, err := s.accounts.GetNurse(ctx, nurseID)
	if err != nil {
		return "", err
	}
	if nurse.StripeAccountID == "" {
		return AccountStatusNotStarted, nil
	}

	acct, err := s.processor.GetAccount(ctx, nurse.StripeAccountID)
	if err != nil {
		return "", fmt.Errorf("fetch account: %w", err)
	}
	status := AccountStatusFromFlags(acct.ChargesEnabled, acct.PayoutsEnabled, acct.DetailsSubmitted, acct.RequirementsDue)

	if err := s.accounts.UpdateNurseAccount(ctx, nurseID, nurse.StripeAccountID, status, nurse.StripeOnboardingURL); err != nil {
		return "", fmt.Errorf("persist account: %w", err)
	}
	return status, nil
}

// ProcessTimecardPayment attempts the single charge-with-transfer for an
// approved timecard. Precondition failures surface before any processor
// call; execution failures are persisted on the timecard and leave its
// status unchanged so it can be retried.
func (s *Service) ProcessTimecardPayment(ctx context.Context, timecardID, paymentMethodID string) (Receipt, error) {
	ptc, err := s.store.PayableTimecard(ctx, timecardID)
	if err != nil {
		return Receipt{}, err
	}
	if !timecard.IsPayable(ptc.Status) {
		return Receipt{}, ErrTimecardNotPayable
	}

	amounts := CalculateAmounts(ptc.HourlyRate, ptc.TotalHours)
	if amounts.ClientTotalAmount.LessThan(MinimumChargeAmount) {
		return Receipt{}, ErrAmountBelowMinimum
	}
	if ptc.NurseAccountID == "" {
		return Receipt{}, ErrNoPaymentAccount
	}
	if ptc.ClientCustomerID == "" {
		return Receipt{}, ErrNoCustomer
	}

	acct, err := s.processor.GetAccount(ctx, ptc.NurseAccountID)
	if err != nil {
		return Receipt{}, fmt.Errorf("fetch destination account: %w", err)
	}
	if !acct.ChargesEnabled || !acct.PayoutsEnabled {
		return Receipt{}, ErrAccountNotReady
	}

	if paymentMethodID == "" {
		methods, err := s.processor.ListPaymentMethods(ctx, ptc.ClientCustomerID)
		if err != nil {
			return Receipt{}, fmt.Errorf("list payment methods: %w", err)
		}
		if len(methods) == 0 {
			return Receipt{}, ErrNoPaymentMethod
		}
		paymentMethodID = methods[0].ID
	}

	intent, err := s.processor.CreateDestinationCharge(ctx, ChargeRequest{
		CustomerID:           ptc.ClientCustomerID,
		PaymentMethodID:      paymentMethodID,
		DestinationAccountID: ptc.NurseAccountID,
		AmountCents:          Cents(amounts.ClientTotalAmount),
		ApplicationFeeCents:  Cents(amounts.PlatformTotalFee),
		Currency:             DefaultCurrency,
		IdempotencyKey:       IdempotencyKeyFor(timecardID),
		Description:          fmt.Sprintf("Nurse Nest shift %s", ptc.JobCode),
	})
	if err != nil {
		if recordErr := s.store.RecordFailure(ctx, timecardID, err.Error()); recordErr != nil {
			return Receipt{}, fmt.Errorf("record payment failure: %w (charge error: %v)", recordErr, err)
		}
		return Receipt{}, fmt.Errorf("charge failed: %w", err)
	}

	if err := s.store.MarkPaid(ctx, timecardID, intent.ID, amounts); err != nil {
		return Receipt{}, fmt.Errorf("mark paid: %w", err)
	}

	return Receipt{TimecardID: timecardID, PaymentIntentID: intent.ID, Amounts: amounts}, nil
}

// RetryTimecardPayment re-derives amounts from the stored hours and rate and
// retries with the client's first available saved payment method. Retries
// are on demand, never scheduled.
func (s *Service) RetryTimecardPayment(ctx context.Context, timecardID string) (Receipt, error) {
	return s.ProcessTimecardPayment(ctx, timecardID, "")
}

// IdempotencyKeyFor derives the processor idempotency key from the timecard
// id, so duplicate invocations for the same timecard cannot double-charge.
func IdempotencyKeyFor(timecardID string) string {
	return "timecard:" + timecardID + ":payment"
}
