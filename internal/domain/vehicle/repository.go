package vehicle

import (
	"context"
)

// Repository defines the interface for ledger persistence.
type Repository interface {
	// ExistingChassis returns which of the given chassis numbers are already stored.
	ExistingChassis(ctx context.Context, chassis []string) ([]string, error)
	Insert(ctx context.Context, vs []*Vehicle) error
	Update(ctx context.Context, v *Vehicle) error

	Get(ctx context.Context, chassisNo string) (*Vehicle, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, chassisNo string) (*Vehicle, error)
	// LockLoad locks every vehicle of a load at a branch in the given status.
	LockLoad(ctx context.Context, branchID, loadRef string, status Status) ([]*Vehicle, error)

	PendingLoads(ctx context.Context, branchID string) ([]string, error)
	ListByLoad(ctx context.Context, branchID, loadRef string) ([]Vehicle, error)
	Search(ctx context.Context, f SearchFilter) ([]Vehicle, error)
	LoadExists(ctx context.Context, loadRef string) (bool, error)
}

// BranchDirectory answers whether a branch exists.
type BranchDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}
