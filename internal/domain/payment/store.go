package payment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nursenest/internal/domain/timecard"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) PayableTimecard(ctx context.Context, timecardID string) (PayableTimecard, error) {
	var ptc PayableTimecard
	err := s.DB.QueryRow(ctx, `
    SELECT t.id, t.status, t.job_code, t.total_hours, t.hourly_rate,
           c.nurse_id, c.client_id,
           COALESCE(n.stripe_account_id, ''), COALESCE(cl.stripe_customer_id, '')
    FROM timecards t
    JOIN contracts c ON t.contract_id = c.id
    JOIN nurses n ON c.nurse_id = n.id
    JOIN clients cl ON c.client_id = cl.id
    WHERE t.id = $1
  `, timecardID).Scan(
		&ptc.ID, &ptc.Status, &ptc.JobCode, &ptc.TotalHours, &ptc.HourlyRate,
		&ptc.NurseID, &ptc.ClientID,
		&ptc.NurseAccountID, &ptc.ClientCustomerID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return PayableTimecard{}, ErrTimecardNotFound
	}
	if err != nil {
		return PayableTimecard{}, err
	}
	return ptc, nil
}

func (s *Store) MarkPaid(ctx context.Context, timecardID, paymentIntentID string, amounts Amounts) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE timecards
    SET status = $2,
        stripe_payment_intent_id = $3,
        nurse_net_amount = $4,
        client_total_amount = $5,
        platform_fee_amount = $6,
        payment_error = NULL,
        timestamp_paid = now(),
        updated_at = now()
    WHERE id = $1
  `, timecardID, timecard.StatusPaid, paymentIntentID,
		amounts.NurseNetAmount, amounts.ClientTotalAmount, amounts.PlatformTotalFee)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTimecardNotFound
	}
	return nil
}

// RecordFailure persists the failure reason without touching the status, so
// the timecard stays eligible for retry.
func (s *Store) RecordFailure(ctx context.Context, timecardID, reason string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE timecards
    SET payment_error = $2, updated_at = now()
    WHERE id = $1
  `, timecardID, reason)
	return err
}
