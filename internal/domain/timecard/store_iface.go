package timecard

import (
	"context"
	"time"

	"nursenest/internal/domain/contract"
)

type StoreAPI interface {
	Create(ctx context.Context, tc Timecard) (string, error)
	Get(ctx context.Context, id string) (Timecard, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Timecard, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	SetStatus(ctx context.Context, id, status, approvedBy string) error
	Reject(ctx context.Context, id, reason string) error
	AutoApproveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type ContractAPI interface {
	GetContract(ctx context.Context, id string) (contract.Contract, error)
}
