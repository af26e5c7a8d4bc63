package payment

import (
	"context"

	"nursenest/internal/domain/contract"
)

type StoreAPI interface {
	PayableTimecard(ctx context.Context, timecardID string) (PayableTimecard, error)
	MarkPaid(ctx context.Context, timecardID, paymentIntentID string, amounts Amounts) error
	RecordFailure(ctx context.Context, timecardID, reason string) error
}

type AccountStore interface {
	GetNurse(ctx context.Context, nurseID string) (contract.Nurse, error)
	UpdateNurseAccount(ctx context.Context, nurseID, accountID, status, onboardingURL string) error
}
