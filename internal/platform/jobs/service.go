package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nursenest/internal/domain/payment"
	"nursenest/internal/domain/timecard"
	"nursenest/internal/platform/config"
)

const (
	JobAutoApproval   = "timecard_auto_approval"
	JobAccountRefresh = "payment_account_refresh"
)

type Service struct {
	DB        *pgxpool.Pool
	Cfg       config.Config
	Timecards *timecard.Service
	Payments  *payment.Service
	queue     chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, timecards *timecard.Service, payments *payment.Service) *Service {
	return &Service{
		DB:        db,
		Cfg:       cfg,
		Timecards: timecards,
		Payments:  payments,
		queue:     make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.AutoApprovalInterval > 0 {
		go s.scheduleAutoApproval(ctx, s.Cfg.AutoApprovalInterval)
	}
	if s.Cfg.AccountRefreshInterval > 0 {
		go s.scheduleAccountRefresh(ctx, s.Cfg.AccountRefreshInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleAutoApproval(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobAutoApproval, func(ctx context.Context) (any, error) {
				approved, err := s.Timecards.AutoApprove(ctx, s.Cfg.AutoApprovalAfter)
				return map[string]any{"approved": approved}, err
			})
		}
	}
}

func (s *Service) scheduleAccountRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			nurseIDs, err := s.listNursesNeedingRefresh(ctx)
			if err != nil {
				slog.Warn("account refresh nurse lookup failed", "err", err)
				continue
			}
			for _, nurseID := range nurseIDs {
				id := nurseID
				s.Enqueue(JobAccountRefresh, func(ctx context.Context) (any, error) {
					status, err := s.Payments.RefreshAccountStatus(ctx, id)
					return map[string]any{"nurseId": id, "status": status}, err
				})
			}
		}
	}
}

// Only accounts that exist but are not yet active need a pull-based refresh;
// active accounts are re-checked inline at payment time.
func (s *Service) listNursesNeedingRefresh(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id FROM nurses
    WHERE stripe_account_id IS NOT NULL AND stripe_account_status <> $1
  `, payment.AccountStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
