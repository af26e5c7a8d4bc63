package timecard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nursenest/internal/domain/contract"
)

var ErrNotContractNurse = errors.New("contract does not belong to the submitting nurse")

type Service struct {
	store     StoreAPI
	contracts ContractAPI
	now       func() time.Time
}

func NewService(store StoreAPI, contracts ContractAPI) *Service {
	return &Service{store: store, contracts: contracts, now: time.Now}
}

// Submit validates a nurse's shift submission and, when the rules pass,
// persists a Submitted timecard carrying the contract's hourly rate. Rule
// failures are returned in the ValidationResult, not as an error.
func (s *Service) Submit(ctx context.Context, nurseID string, sub Submission) (Timecard, ValidationResult, error) {
	result := ValidateSubmission(sub, s.now())
	if !result.IsValid {
		return Timecard{}, result, nil
	}

	c, err := s.contracts.GetContract(ctx, sub.ContractID)
	if err != nil {
		return Timecard{}, result, err
	}
	if c.NurseID != nurseID {
		return Timecard{}, result, ErrNotContractNurse
	}
	if c.Status != contract.StatusActive {
		return Timecard{}, result, ErrContractInactive
	}

	shiftDate, err := time.Parse("2006-01-02", strings.TrimSpace(sub.ShiftDate))
	if err != nil {
		return Timecard{}, result, fmt.Errorf("parse shift date: %w", err)
	}

	tc := Timecard{
		ContractID:   c.ID,
		JobCode:      sub.JobCode,
		ShiftDate:    shiftDate,
		StartTime:    sub.StartTime,
		EndTime:      sub.EndTime,
		IsOvernight:  sub.IsOvernight,
		BreakMinutes: sub.BreakMinutes,
		TotalHours:   sub.TotalHours,
		HourlyRate:   c.HourlyRate,
		Status:       StatusSubmitted,
	}

	id, err := s.store.Create(ctx, tc)
	if err != nil {
		return Timecard{}, result, fmt.Errorf("create timecard: %w", err)
	}
	tc.ID = id
	return tc, result, nil
}

// Approve moves a Submitted timecard to Approved. Any other starting status
// is an invalid transition; Paid and Rejected are terminal.
func (s *Service) Approve(ctx context.Context, id, approverUserID string) (Timecard, error) {
	tc, err := s.store.Get(ctx, id)
	if err != nil {
		return Timecard{}, err
	}
	if tc.Status != StatusSubmitted {
		return Timecard{}, ErrInvalidTransition
	}
	if err := s.store.SetStatus(ctx, id, StatusApproved, approverUserID); err != nil {
		return Timecard{}, err
	}
	tc.Status = StatusApproved
	tc.ApprovedBy = approverUserID
	return tc, nil
}

// Reject moves a Submitted timecard to the terminal Rejected state. The
// nurse may resubmit the shift as a new timecard.
func (s *Service) Reject(ctx context.Context, id, reason string) (Timecard, error) {
	if strings.TrimSpace(reason) == "" {
		return Timecard{}, ErrRejectionReasonMissing
	}
	tc, err := s.store.Get(ctx, id)
	if err != nil {
		return Timecard{}, err
	}
	if tc.Status != StatusSubmitted {
		return Timecard{}, ErrInvalidTransition
	}
	if err := s.store.Reject(ctx, id, reason); err != nil {
		return Timecard{}, err
	}
	tc.Status = StatusRejected
	tc.RejectionReason = reason
	return tc, nil
}

// AutoApprove promotes Submitted timecards that have waited longer than the
// configured approval window.
func (s *Service) AutoApprove(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	return s.store.AutoApproveOlderThan(ctx, cutoff)
}

func (s *Service) Get(ctx context.Context, id string) (Timecard, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Timecard, int, error) {
	items, err := s.store.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Estimate returns the blended-rate display breakdown for a contract's rate
// and a number of hours.
func (s *Service) Estimate(ctx context.Context, contractID string, hours float64) (Financials, error) {
	c, err := s.contracts.GetContract(ctx, contractID)
	if err != nil {
		return Financials{}, err
	}
	rate, _ := c.HourlyRate.Float64()
	return CalculateFinancials(hours, rate, DefaultPlatformFeeRate), nil
}
