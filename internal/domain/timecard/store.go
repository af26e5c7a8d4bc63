package timecard

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const timecardColumns = `
  t.id, t.contract_id, t.job_code, t.shift_date, t.start_time, t.end_time,
  t.is_overnight, t.break_minutes, t.total_hours, t.hourly_rate, t.status,
  COALESCE(t.nurse_net_amount, 0), COALESCE(t.client_total_amount, 0), COALESCE(t.platform_fee_amount, 0),
  COALESCE(t.stripe_payment_intent_id, ''), COALESCE(t.payment_error, ''),
  COALESCE(t.rejection_reason, ''), COALESCE(t.approved_by::text, ''),
  t.timestamp_paid, t.created_at, t.updated_at`

func scanTimecard(row pgx.Row) (Timecard, error) {
	var tc Timecard
	err := row.Scan(
		&tc.ID, &tc.ContractID, &tc.JobCode, &tc.ShiftDate, &tc.StartTime, &tc.EndTime,
		&tc.IsOvernight, &tc.BreakMinutes, &tc.TotalHours, &tc.HourlyRate, &tc.Status,
		&tc.NurseNetAmount, &tc.ClientTotalAmount, &tc.PlatformFeeAmount,
		&tc.StripePaymentIntentID, &tc.PaymentError,
		&tc.RejectionReason, &tc.ApprovedBy,
		&tc.TimestampPaid, &tc.CreatedAt, &tc.UpdatedAt,
	)
	return tc, err
}

func (s *Store) Create(ctx context.Context, tc Timecard) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO timecards
      (contract_id, job_code, shift_date, start_time, end_time, is_overnight,
       break_minutes, total_hours, hourly_rate, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, tc.ContractID, tc.JobCode, tc.ShiftDate, tc.StartTime, tc.EndTime, tc.IsOvernight,
		tc.BreakMinutes, tc.TotalHours, tc.HourlyRate, tc.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Timecard, error) {
	tc, err := scanTimecard(s.DB.QueryRow(ctx, `
    SELECT `+timecardColumns+`
    FROM timecards t
    WHERE t.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Timecard{}, ErrNotFound
	}
	if err != nil {
		return Timecard{}, err
	}
	return tc, nil
}

func buildListQuery(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if filter.ContractID != "" {
		args = append(args, filter.ContractID)
		where += " AND t.contract_id = $" + strconv.Itoa(len(args))
	}
	if filter.NurseID != "" {
		args = append(args, filter.NurseID)
		where += " AND c.nurse_id = $" + strconv.Itoa(len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		where += " AND c.client_id = $" + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += " AND t.status = $" + strconv.Itoa(len(args))
	}
	return where, args
}

func (s *Store) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Timecard, error) {
	where, args := buildListQuery(filter)
	query := `
    SELECT ` + timecardColumns + `
    FROM timecards t
    JOIN contracts c ON t.contract_id = c.id` + where + `
    ORDER BY t.shift_date DESC, t.created_at DESC
    LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timecards []Timecard
	for rows.Next() {
		tc, err := scanTimecard(rows)
		if err != nil {
			return nil, err
		}
		timecards = append(timecards, tc)
	}
	return timecards, nil
}

func (s *Store) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := buildListQuery(filter)
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM timecards t
    JOIN contracts c ON t.contract_id = c.id`+where, args...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) SetStatus(ctx context.Context, id, status, approvedBy string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE timecards
    SET status = $2, approved_by = NULLIF($3, ''), updated_at = now()
    WHERE id = $1
  `, id, status, approvedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Reject(ctx context.Context, id, reason string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE timecards
    SET status = $2, rejection_reason = $3, updated_at = now()
    WHERE id = $1
  `, id, StatusRejected, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AutoApproveOlderThan promotes every Submitted timecard created before the
// cutoff in a single statement, so concurrent sweeps cannot double-approve.
func (s *Store) AutoApproveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE timecards
    SET status = $1, updated_at = now()
    WHERE status = $2 AND created_at < $3
  `, StatusAutoApproved, StatusSubmitted, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
