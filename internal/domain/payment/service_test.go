package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nursenest/internal/domain/contract"
	"nursenest/internal/domain/timecard"
)

type fakeStore struct {
	payable       PayableTimecard
	payableErr    error
	markPaidCalls []string
	markPaidAmts  Amounts
	failures      map[string]string
}

func (s *fakeStore) PayableTimecard(ctx context.Context, timecardID string) (PayableTimecard, error) {
	if s.payableErr != nil {
		return PayableTimecard{}, s.payableErr
	}
	return s.payable, nil
}

func (s *fakeStore) MarkPaid(ctx context.Context, timecardID, paymentIntentID string, amounts Amounts) error {
	s.markPaidCalls = append(s.markPaidCalls, timecardID+"/"+paymentIntentID)
	s.markPaidAmts = amounts
	return nil
}

func (s *fakeStore) RecordFailure(ctx context.Context, timecardID, reason string) error {
	if s.failures == nil {
		s.failures = map[string]string{}
	}
	s.failures[timecardID] = reason
	return nil
}

type fakeAccounts struct {
	nurse   contract.Nurse
	updated []string
}

func (a *fakeAccounts) GetNurse(ctx context.Context, nurseID string) (contract.Nurse, error) {
	return a.nurse, nil
}

func (a *fakeAccounts) UpdateNurseAccount(ctx context.Context, nurseID, accountID, status, onboardingURL string) error {
	a.updated = append(a.updated, nurseID+"/"+accountID+"/"+status)
	return nil
}

type fakeProcessor struct {
	account       Account
	accountErr    error
	methods       []PaymentMethod
	chargeErr     error
	chargeCalls   []ChargeRequest
	createdID     string
	onboardingURL string
}

func (p *fakeProcessor) CreateExpressAccount(ctx context.Context, email string) (string, error) {
	if p.createdID == "" {
		p.createdID = "acct_new"
	}
	return p.createdID, nil
}

func (p *fakeProcessor) CreateOnboardingLink(ctx context.Context, accountID string) (string, error) {
	if p.onboardingURL == "" {
		p.onboardingURL = "https://connect.example/onboard"
	}
	return p.onboardingURL, nil
}

func (p *fakeProcessor) GetAccount(ctx context.Context, accountID string) (Account, error) {
	if p.accountErr != nil {
		return Account{}, p.accountErr
	}
	return p.account, nil
}

func (p *fakeProcessor) ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error) {
	return p.methods, nil
}

func (p *fakeProcessor) CreateDestinationCharge(ctx context.Context, req ChargeRequest) (PaymentIntent, error) {
	p.chargeCalls = append(p.chargeCalls, req)
	if p.chargeErr != nil {
		return PaymentIntent{}, p.chargeErr
	}
	return PaymentIntent{ID: "pi_1", Status: "succeeded"}, nil
}

func payableFixture() PayableTimecard {
	return PayableTimecard{
		ID:               "tc-1",
		Status:           timecard.StatusApproved,
		JobCode:          "ICU-221",
		TotalHours:       decimal.NewFromInt(8),
		HourlyRate:       decimal.NewFromInt(50),
		NurseID:          "nurse-1",
		ClientID:         "client-1",
		NurseAccountID:   "acct_1",
		ClientCustomerID: "cus_1",
	}
}

func readyProcessor() *fakeProcessor {
	return &fakeProcessor{
		account: Account{ID: "acct_1", ChargesEnabled: true, PayoutsEnabled: true, DetailsSubmitted: true},
		methods: []PaymentMethod{{ID: "pm_1", Brand: "visa", Last4: "4242"}},
	}
}

func TestProcessTimecardPaymentSuccess(t *testing.T) {
	store := &fakeStore{payable: payableFixture()}
	proc := readyProcessor()
	svc := NewService(store, &fakeAccounts{}, proc)

	receipt, err := svc.ProcessTimecardPayment(context.Background(), "tc-1", "")
	require.NoError(t, err)

	assert.Equal(t, "pi_1", receipt.PaymentIntentID)
	assert.True(t, decimal.NewFromInt(440).Equal(receipt.Amounts.ClientTotalAmount))
	assert.Equal(t, []string{"tc-1/pi_1"}, store.markPaidCalls)

	require.Len(t, proc.chargeCalls, 1)
	charge := proc.chargeCalls[0]
	assert.Equal(t, int64(44000), charge.AmountCents)
	assert.Equal(t, int64(6000), charge.ApplicationFeeCents)
	assert.Equal(t, "cus_1", charge.CustomerID)
	assert.Equal(t, "pm_1", charge.PaymentMethodID)
	assert.Equal(t, "acct_1", charge.DestinationAccountID)
	assert.Equal(t, "timecard:tc-1:payment", charge.IdempotencyKey)
}

func TestProcessTimecardPaymentBelowMinimumNeverCallsProcessor(t *testing.T) {
	payable := payableFixture()
	payable.HourlyRate = decimal.NewFromFloat(0.40)
	payable.TotalHours = decimal.NewFromInt(1)
	store := &fakeStore{payable: payable}
	proc := readyProcessor()
	svc := NewService(store, &fakeAccounts{}, proc)

	_, err := svc.ProcessTimecardPayment(context.Background(), "tc-1", "")
	require.ErrorIs(t, err, ErrAmountBelowMinimum)
	assert.Empty(t, proc.chargeCalls)
	assert.Empty(t, store.markPaidCalls)
	assert.Empty(t, store.failures)
}

func TestProcessTimecardPaymentNotPayableStatus(t *testing.T) {
	for _, status := range []string{timecard.StatusSubmitted, timecard.StatusRejected, timecard.StatusPaid} {
		payable := payableFixture()
		payable.Status = status
		proc := readyProcessor()
		svc := NewService(&fakeStore{payable: payable}, &fakeAccounts{}, proc)

		_, err := svc.ProcessTimecardPayment(context.Background(), "tc-1", "")
		require.ErrorIs(t, err, ErrTimecardNotPayable, "status %s", status)
		assert.Empty(t, proc.chargeCalls)
	}
}

func TestProcessTimecardPaymentAutoApprovedIsPayable(t *testing.T) {
	payable := payableFixture()
	payable.Status = timecard.StatusAutoApproved
	store := &fakeStore{payable: payable}
	svc := NewService(store, &fakeAccounts{}, readyProcessor())

	_, err := svc.ProcessTimecardPayment(context.Background(), "tc-1", "")
	require.NoError(t, err)
	assert.Len(t, store.markPaidCalls, 1)
}

func TestProcessTimecardPaymentAccountNotReady(t *testing.T) {
	store := &fakeStore{payable: payableFixture()}
	proc := readyProcessor()
	proc.account.PayoutsEnabled = false
	svc := NewService(store, &fakeAccounts{}, proc)

	_, err := svc.ProcessTimecardPayment(context.Background(), "tc-1", "")
	require.ErrorIs(t, err, ErrAccountNotReady)
	assert.Empty(t, proc.chargeCalls)
}

func TestProcessTimecardPaymentMissingPrerequisites(t *testing.T) {
	noAccount := payableFixture()
	noAccount.NurseAccountID = ""
	svc := NewService(&fakeStore{payable: noAccount}, &fakeAccounts{}, readyProcessor())
	_, err := svc.ProcessTimecardPayment(context.Background(), "tc-1", "")
	require.ErrorIs(t, err, ErrNoPaymentAccount)

	noCustomer := payableFixture()
	noCustomer.ClientCustomerID = ""
	svc = NewService(&fakeStore{payable: noCustomer}, &fakeAccounts{}, readyProcessor())
	_, err = svc.ProcessTimecardPayment(context.Background(), "tc-1", "")
	require.ErrorIs(t, err, ErrNoCustomer)

	proc := readyProcessor()
	proc.methods = nil
	svc = NewService(&fakeStore{payable: payableFixture()}, &fakeAccounts{}, proc)
	_, err = svc.ProcessTimecardPayment(context.Background(), "tc-1", "")
	require.ErrorIs(t, err, ErrNoPaymentMethod)
}

func TestProcessTimecardPaymentChargeFailureIsRecorded(t *testing.T) {
	store := &fakeStore{payable: payableFixture()}
	proc := readyProcessor()
	proc.chargeErr = errors.New("card_declined")
	svc := NewService(store, &fakeAccounts{}, proc)

	_, err := svc.ProcessTimecardPayment(context.Background(), "tc-1", "")
	require.Error(t, err)
	assert.Contains(t, store.failures["tc-1"], "card_declined")
	assert.Empty(t, store.markPaidCalls, "status must not change on execution failure")
}

func TestRetryTimecardPaymentUsesFirstSavedMethod(t *testing.T) {
	store := &fakeStore{payable: payableFixture()}
	proc := readyProcessor()
	proc.methods = []PaymentMethod{{ID: "pm_7"}, {ID: "pm_8"}}
	svc := NewService(store, &fakeAccounts{}, proc)

	_, err := svc.RetryTimecardPayment(context.Background(), "tc-1")
	require.NoError(t, err)
	require.Len(t, proc.chargeCalls, 1)
	assert.Equal(t, "pm_7", proc.chargeCalls[0].PaymentMethodID)
}

func TestStartOnboardingCreatesAccountOnce(t *testing.T) {
	accounts := &fakeAccounts{nurse: contract.Nurse{ID: "nurse-1"}}
	proc := &fakeProcessor{account: Account{DetailsSubmitted: false}}
	svc := NewService(&fakeStore{}, accounts, proc)

	result, err := svc.StartOnboarding(context.Background(), "nurse-1", "nurse@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acct_new", result.AccountID)
	assert.Equal(t, AccountStatusNotSubmitted, result.AccountStatus)
	assert.NotEmpty(t, result.OnboardingURL)
	require.Len(t, accounts.updated, 1)
	assert.Equal(t, "nurse-1/acct_new/not_submitted", accounts.updated[0])
}

func TestStartOnboardingReusesExistingAccount(t *testing.T) {
	accounts := &fakeAccounts{nurse: contract.Nurse{ID: "nurse-1", StripeAccountID: "acct_existing"}}
	proc := &fakeProcessor{account: Account{ChargesEnabled: true, PayoutsEnabled: true, DetailsSubmitted: true}}
	svc := NewService(&fakeStore{}, accounts, proc)

	result, err := svc.StartOnboarding(context.Background(), "nurse-1", "nurse@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acct_existing", result.AccountID)
	assert.Equal(t, AccountStatusActive, result.AccountStatus)
}

func TestRefreshAccountStatusWithoutAccount(t *testing.T) {
	accounts := &fakeAccounts{nurse: contract.Nurse{ID: "nurse-1"}}
	svc := NewService(&fakeStore{}, accounts, &fakeProcessor{})

	status, err := svc.RefreshAccountStatus(context.Background(), "nurse-1")
	require.NoError(t, err)
	assert.Equal(t, AccountStatusNotStarted, status)
	assert.Empty(t, accounts.updated, "no processor account means nothing to mirror")
}

func TestRefreshAccountStatusMirrorsProcessor(t *testing.T) {
	accounts := &fakeAccounts{nurse: contract.Nurse{ID: "nurse-1", StripeAccountID: "acct_1"}}
	proc := &fakeProcessor{account: Account{DetailsSubmitted: true, RequirementsDue: 2}}
	svc := NewService(&fakeStore{}, accounts, proc)

	status, err := svc.RefreshAccountStatus(context.Background(), "nurse-1")
	require.NoError(t, err)
	assert.Equal(t, AccountStatusRequirementsDue, status)
	require.Len(t, accounts.updated, 1)
}
