package reports

import (
	"context"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
)

// Repository defines report data access. Each method is a single query.
type Repository interface {
	// StockCounts groups In Stock vehicles. An empty list means every branch.
	StockCounts(ctx context.Context, branchIDs []string) ([]StockLine, error)
	InStock(ctx context.Context, branchID string) ([]AgingVehicle, error)

	Transfers(ctx context.Context, fromBranchID string, start, end time.Time) ([]TransferLine, error)
	DailyTransfers(ctx context.Context, limit int) ([]DailyTransferLine, error)
	OEMInward(ctx context.Context, branchID string, start, end time.Time) ([]InwardLine, error)
	Sales(ctx context.Context, start, end time.Time) ([]SalesLine, error)
	DailyCounts(ctx context.Context, date time.Time, types []movement.Type) ([]DailyCount, error)
	Recent(ctx context.Context, branchID string, limit int) ([]movement.Transaction, error)
}

// Territories expands a head branch into its territory.
type Territories interface {
	TerritoryIDs(ctx context.Context, headID string) ([]string, error)
}
