package sales

import (
	"context"
	"time"
)

// Repository defines the interface for SalesRecord persistence.
type Repository interface {
	// Create inserts the record and sets its ID.
	Create(ctx context.Context, r *SalesRecord) error
	Update(ctx context.Context, r *SalesRecord) error

	Get(ctx context.Context, id int64) (*SalesRecord, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*SalesRecord, error)
	ExistsDC(ctx context.Context, branchID, dcNumber string) (bool, error)

	ByStatuses(ctx context.Context, statuses []FulfillmentStatus, branchID string) ([]SalesRecord, error)
	ForMechanic(ctx context.Context, mechanic string, statuses []FulfillmentStatus, branchID string) ([]SalesRecord, error)
	CompletedSince(ctx context.Context, since time.Time, branchID string) ([]SalesRecord, error)
}
