package reports

import (
	"context"
	"io"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) ExportTimecards(ctx context.Context, w io.Writer, status string) error {
	rows, err := s.Store.TimecardExportRows(ctx, status)
	if err != nil {
		return err
	}
	return WriteTimecardCSV(w, rows)
}

func (s *Service) NurseDashboard(ctx context.Context, nurseID string) (map[string]any, error) {
	earned, paidCount, err := s.Store.NurseEarnings(ctx, nurseID)
	if err != nil {
		return nil, err
	}
	pending, err := s.Store.NursePendingCount(ctx, nurseID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"totalEarned":      earned,
		"paidTimecards":    paidCount,
		"pendingTimecards": pending,
	}, nil
}

func (s *Service) ClientDashboard(ctx context.Context, clientID string) (map[string]any, error) {
	pending, err := s.Store.ClientPendingApprovals(ctx, clientID)
	if err != nil {
		return nil, err
	}
	spend, err := s.Store.ClientSpend(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"pendingApprovals": pending,
		"totalSpend":       spend,
	}, nil
}

func (s *Service) AdminDashboard(ctx context.Context) (map[string]any, error) {
	counts, err := s.Store.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	fees, err := s.Store.PlatformFeesCollected(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"timecardsByStatus":     counts,
		"platformFeesCollected": fees,
	}, nil
}
