package movement

import (
	"context"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/id"
)

// MovementQuery selects rows for the correction guard.
type MovementQuery struct {
	BranchID string
	Model    string
	Variant  string
	Since    time.Time
	Types    []Type
}

// Repository is the append-only log store. Rows are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, txs ...*Transaction) error

	// FirstSince returns the earliest row matching q, ok=false when none.
	FirstSince(ctx context.Context, q MovementQuery) (tx *Transaction, ok bool, err error)

	// ByEvent returns all rows written by one event.
	ByEvent(ctx context.Context, eventID id.ID) ([]Transaction, error)
}
