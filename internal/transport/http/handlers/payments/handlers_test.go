package paymentshandler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nursenest/internal/domain/contract"
	"nursenest/internal/domain/notifications"
	"nursenest/internal/domain/payment"
)

func testParties() (contract.Nurse, contract.Client) {
	return contract.Nurse{ID: "nurse-1", UserID: "user-nurse"},
		contract.Client{ID: "client-1", UserID: "user-client"}
}

func TestSuccessNoticesTargetBothParties(t *testing.T) {
	nurse, client := testParties()
	receipt := payment.Receipt{
		PaymentIntentID: "pi_1",
		Amounts: payment.Amounts{
			NurseNetAmount:    decimal.NewFromInt(380),
			ClientTotalAmount: decimal.NewFromInt(440),
		},
	}

	notices := successNotices(nurse, client, receipt)
	require.Len(t, notices, 2)

	assert.Equal(t, "user-nurse", notices[0].UserID)
	assert.Equal(t, notifications.TypePaymentCompleted, notices[0].Type)
	assert.Contains(t, notices[0].Body, "$380.00")

	assert.Equal(t, "user-client", notices[1].UserID)
	assert.Equal(t, notifications.TypePaymentCompleted, notices[1].Type)
	assert.Contains(t, notices[1].Body, "$440.00")
}

func TestFailureNoticesUseFailureType(t *testing.T) {
	nurse, client := testParties()

	notices := failureNotices(nurse, client)
	require.Len(t, notices, 2)
	for _, n := range notices {
		assert.Equal(t, notifications.TypePaymentFailed, n.Type)
	}
	assert.Equal(t, "user-nurse", notices[0].UserID)
	assert.Equal(t, "user-client", notices[1].UserID)
}

func TestOnboardingNoticeOnlyForRequirementsDue(t *testing.T) {
	nurse, _ := testParties()

	for _, status := range []string{
		payment.AccountStatusNotStarted,
		payment.AccountStatusNotSubmitted,
		payment.AccountStatusOnboarding,
		payment.AccountStatusActive,
	} {
		_, ok := onboardingNotice(nurse, status)
		assert.False(t, ok, "status %s must not notify", status)
	}

	n, ok := onboardingNotice(nurse, payment.AccountStatusRequirementsDue)
	require.True(t, ok)
	assert.Equal(t, "user-nurse", n.UserID)
	assert.Equal(t, notifications.TypeOnboardingRequired, n.Type)
}
