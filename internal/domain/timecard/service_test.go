package timecard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nursenest/internal/domain/contract"
)

type fakeStore struct {
	timecards   map[string]Timecard
	created     []Timecard
	statuses    []string
	rejections  []string
	autoCutoffs []time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{timecards: map[string]Timecard{}}
}

func (s *fakeStore) Create(ctx context.Context, tc Timecard) (string, error) {
	id := "tc-" + time.Now().Format("150405.000000000")
	tc.ID = id
	s.created = append(s.created, tc)
	s.timecards[id] = tc
	return id, nil
}

func (s *fakeStore) Get(ctx context.Context, id string) (Timecard, error) {
	tc, ok := s.timecards[id]
	if !ok {
		return Timecard{}, ErrNotFound
	}
	return tc, nil
}

func (s *fakeStore) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Timecard, error) {
	var out []Timecard
	for _, tc := range s.timecards {
		out = append(out, tc)
	}
	return out, nil
}

func (s *fakeStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	return len(s.timecards), nil
}

func (s *fakeStore) SetStatus(ctx context.Context, id, status, approvedBy string) error {
	tc, ok := s.timecards[id]
	if !ok {
		return ErrNotFound
	}
	tc.Status = status
	tc.ApprovedBy = approvedBy
	s.timecards[id] = tc
	s.statuses = append(s.statuses, id+"/"+status)
	return nil
}

func (s *fakeStore) Reject(ctx context.Context, id, reason string) error {
	tc, ok := s.timecards[id]
	if !ok {
		return ErrNotFound
	}
	tc.Status = StatusRejected
	tc.RejectionReason = reason
	s.timecards[id] = tc
	s.rejections = append(s.rejections, id+"/"+reason)
	return nil
}

func (s *fakeStore) AutoApproveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.autoCutoffs = append(s.autoCutoffs, cutoff)
	var n int64
	for id, tc := range s.timecards {
		if tc.Status == StatusSubmitted && tc.CreatedAt.Before(cutoff) {
			tc.Status = StatusAutoApproved
			s.timecards[id] = tc
			n++
		}
	}
	return n, nil
}

type fakeContracts struct {
	contracts map[string]contract.Contract
}

func (c *fakeContracts) GetContract(ctx context.Context, id string) (contract.Contract, error) {
	ct, ok := c.contracts[id]
	if !ok {
		return contract.Contract{}, contract.ErrContractNotFound
	}
	return ct, nil
}

func newTestService(store *fakeStore) (*Service, *fakeContracts) {
	contracts := &fakeContracts{contracts: map[string]contract.Contract{
		"contract-1": {
			ID:         "contract-1",
			NurseID:    "nurse-1",
			ClientID:   "client-1",
			JobCode:    "ICU-221",
			HourlyRate: decimal.NewFromInt(50),
			Status:     contract.StatusActive,
		},
	}}
	svc := NewService(store, contracts)
	svc.now = func() time.Time { return testNow }
	return svc, contracts
}

func TestSubmitPersistsSubmittedTimecard(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	tc, result, err := svc.Submit(context.Background(), "nurse-1", validSubmission())
	require.NoError(t, err)
	require.True(t, result.IsValid)

	assert.Equal(t, StatusSubmitted, tc.Status)
	assert.Equal(t, "contract-1", tc.ContractID)
	assert.True(t, decimal.NewFromInt(50).Equal(tc.HourlyRate), "rate comes from the contract")
	assert.NotEmpty(t, tc.ID)
	require.Len(t, store.created, 1)
}

func TestSubmitReturnsRuleFailuresWithoutError(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	sub := validSubmission()
	sub.TotalHours = 0
	_, result, err := svc.Submit(context.Background(), "nurse-1", sub)
	require.NoError(t, err, "rule failures are not Go errors")
	assert.False(t, result.IsValid)
	assert.Empty(t, store.created, "invalid submissions are not persisted")
}

func TestSubmitRejectsWrongNurse(t *testing.T) {
	svc, _ := newTestService(newFakeStore())

	_, _, err := svc.Submit(context.Background(), "nurse-2", validSubmission())
	require.ErrorIs(t, err, ErrNotContractNurse)
}

func TestSubmitRejectsInactiveContract(t *testing.T) {
	store := newFakeStore()
	svc, contracts := newTestService(store)
	ct := contracts.contracts["contract-1"]
	ct.Status = contract.StatusEnded
	contracts.contracts["contract-1"] = ct

	_, _, err := svc.Submit(context.Background(), "nurse-1", validSubmission())
	require.ErrorIs(t, err, ErrContractInactive)
}

func TestApproveOnlyFromSubmitted(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	store.timecards["tc-1"] = Timecard{ID: "tc-1", Status: StatusSubmitted}

	tc, err := svc.Approve(context.Background(), "tc-1", "user-9")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, tc.Status)
	assert.Equal(t, "user-9", tc.ApprovedBy)

	for _, status := range []string{StatusApproved, StatusAutoApproved, StatusRejected, StatusPaid} {
		store.timecards["tc-2"] = Timecard{ID: "tc-2", Status: status}
		_, err := svc.Approve(context.Background(), "tc-2", "user-9")
		require.ErrorIs(t, err, ErrInvalidTransition, "from %s", status)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	store.timecards["tc-1"] = Timecard{ID: "tc-1", Status: StatusSubmitted}

	_, err := svc.Reject(context.Background(), "tc-1", "   ")
	require.ErrorIs(t, err, ErrRejectionReasonMissing)

	tc, err := svc.Reject(context.Background(), "tc-1", "hours do not match the schedule")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, tc.Status)
	assert.Equal(t, "hours do not match the schedule", tc.RejectionReason)
}

func TestRejectIsTerminal(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	store.timecards["tc-1"] = Timecard{ID: "tc-1", Status: StatusRejected}

	_, err := svc.Approve(context.Background(), "tc-1", "user-9")
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Reject(context.Background(), "tc-1", "again")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAutoApprovePromotesOldSubmissions(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	store.timecards["old"] = Timecard{ID: "old", Status: StatusSubmitted, CreatedAt: testNow.Add(-25 * time.Hour)}
	store.timecards["fresh"] = Timecard{ID: "fresh", Status: StatusSubmitted, CreatedAt: testNow.Add(-1 * time.Hour)}
	store.timecards["paid"] = Timecard{ID: "paid", Status: StatusPaid, CreatedAt: testNow.Add(-48 * time.Hour)}

	n, err := svc.AutoApprove(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, StatusAutoApproved, store.timecards["old"].Status)
	assert.Equal(t, StatusSubmitted, store.timecards["fresh"].Status)
	assert.Equal(t, StatusPaid, store.timecards["paid"].Status)

	require.Len(t, store.autoCutoffs, 1)
	assert.Equal(t, testNow.Add(-24*time.Hour), store.autoCutoffs[0])
}

func TestEstimateUsesContractRate(t *testing.T) {
	svc, _ := newTestService(newFakeStore())

	fin, err := svc.Estimate(context.Background(), "contract-1", 8)
	require.NoError(t, err)
	assert.Equal(t, 400.0, fin.GrossPay)
	assert.Equal(t, 340.0, fin.NetPay)
	assert.Equal(t, 60.0, fin.PlatformFee)
	assert.Equal(t, 460.0, fin.ClientCost)
}
