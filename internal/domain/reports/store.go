package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"nursenest/internal/domain/timecard"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) TimecardExportRows(ctx context.Context, status string) ([]ExportRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.job_code, t.shift_date, t.start_time, t.end_time, t.total_hours, t.status,
           n.first_name || ' ' || n.last_name,
           cl.first_name || ' ' || cl.last_name
    FROM timecards t
    JOIN contracts c ON t.contract_id = c.id
    JOIN nurses n ON c.nurse_id = n.id
    JOIN clients cl ON c.client_id = cl.id
    WHERE ($1 = '' OR t.status = $1)
    ORDER BY t.shift_date DESC, t.created_at DESC
  `, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportRow
	for rows.Next() {
		var row ExportRow
		var shiftDate time.Time
		if err := rows.Scan(&row.JobCode, &shiftDate, &row.StartTime, &row.EndTime, &row.TotalHours, &row.Status, &row.NurseName, &row.ClientName); err != nil {
			return nil, err
		}
		row.ShiftDate = shiftDate.Format("2006-01-02")
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) NurseEarnings(ctx context.Context, nurseID string) (decimal.Decimal, int, error) {
	var total decimal.Decimal
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(t.nurse_net_amount), 0), COUNT(1) FILTER (WHERE t.status = $2)
    FROM timecards t
    JOIN contracts c ON t.contract_id = c.id
    WHERE c.nurse_id = $1 AND t.status = $2
  `, nurseID, timecard.StatusPaid).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return total, count, nil
}

func (s *Store) NursePendingCount(ctx context.Context, nurseID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM timecards t
    JOIN contracts c ON t.contract_id = c.id
    WHERE c.nurse_id = $1 AND t.status = $2
  `, nurseID, timecard.StatusSubmitted).Scan(&count)
	return count, err
}

func (s *Store) ClientPendingApprovals(ctx context.Context, clientID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM timecards t
    JOIN contracts c ON t.contract_id = c.id
    WHERE c.client_id = $1 AND t.status = $2
  `, clientID, timecard.StatusSubmitted).Scan(&count)
	return count, err
}

func (s *Store) ClientSpend(ctx context.Context, clientID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(t.client_total_amount), 0)
    FROM timecards t
    JOIN contracts c ON t.contract_id = c.id
    WHERE c.client_id = $1 AND t.status = $2
  `, clientID, timecard.StatusPaid).Scan(&total)
	return total, err
}

func (s *Store) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, "SELECT status, COUNT(1) FROM timecards GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, nil
}

func (s *Store) PlatformFeesCollected(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(platform_fee_amount), 0)
    FROM timecards
    WHERE status = $1
  `, timecard.StatusPaid).Scan(&total)
	return total, err
}

type EarningsLine struct {
	JobCode   string
	ShiftDate time.Time
	Hours     float64
	NetAmount decimal.Decimal
	PaidAt    *time.Time
}

func (s *Store) NurseEarningsLines(ctx context.Context, nurseID string) ([]EarningsLine, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.job_code, t.shift_date, t.total_hours, COALESCE(t.nurse_net_amount, 0), t.timestamp_paid
    FROM timecards t
    JOIN contracts c ON t.contract_id = c.id
    WHERE c.nurse_id = $1 AND t.status = $2
    ORDER BY t.shift_date
  `, nurseID, timecard.StatusPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []EarningsLine
	for rows.Next() {
		var line EarningsLine
		if err := rows.Scan(&line.JobCode, &line.ShiftDate, &line.Hours, &line.NetAmount, &line.PaidAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Store) NurseName(ctx context.Context, nurseID string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, "SELECT first_name || ' ' || last_name FROM nurses WHERE id = $1", nurseID).Scan(&name)
	return name, err
}
