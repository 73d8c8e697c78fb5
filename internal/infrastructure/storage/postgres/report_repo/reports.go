// Package report_repo provides the PostgreSQL queries behind the reports.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/reports"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository. Every method is one statement,
// so each report reads a single snapshot.
type ReportRepo struct {
	txm *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

func (r *ReportRepo) StockCounts(ctx context.Context, branchIDs []string) ([]reports.StockLine, error) {
	q := postgres.Builder().
		Select("v.current_branch_id AS branch_id", "b.branch_name", "v.model", "v.variant", "v.color", "COUNT(*) AS count").
		From("vehicle_master v").
		Join("branches b ON b.branch_id = v.current_branch_id").
		Where(squirrel.Eq{"v.status": string(vehicle.StatusInStock)}).
		GroupBy("v.current_branch_id", "b.branch_name", "v.model", "v.variant", "v.color").
		OrderBy("v.current_branch_id", "v.model", "v.variant", "v.color")
	if len(branchIDs) > 0 {
		q = q.Where(squirrel.Eq{"v.current_branch_id": branchIDs})
	}

	var out []reports.StockLine
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("stock counts: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) InStock(ctx context.Context, branchID string) ([]reports.AgingVehicle, error) {
	q := postgres.Builder().
		Select("chassis_no", "model", "variant", "color", "current_branch_id", "date_received").
		From("vehicle_master").
		Where(squirrel.Eq{"status": string(vehicle.StatusInStock)}).
		OrderBy("date_received", "chassis_no")
	if branchID != "" {
		q = q.Where(squirrel.Eq{"current_branch_id": branchID})
	}

	var out []reports.AgingVehicle
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("in stock vehicles: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) Transfers(ctx context.Context, fromBranchID string, start, end time.Time) ([]reports.TransferLine, error) {
	query := `
		SELECT to_branch_id, model, variant, color, SUM(quantity) AS quantity
		FROM inventory_transactions
		WHERE transaction_type = $1
		  AND current_branch_id = $2
		  AND date BETWEEN $3 AND $4
		GROUP BY to_branch_id, model, variant, color
		ORDER BY to_branch_id, model, variant, color
	`
	var out []reports.TransferLine
	if err := r.selectRaw(ctx, &out, query, string(movement.TypeOutwardTransfer), fromBranchID, start, end); err != nil {
		return nil, fmt.Errorf("transfer summary: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) DailyTransfers(ctx context.Context, limit int) ([]reports.DailyTransferLine, error) {
	query := `
		SELECT date, current_branch_id AS from_branch_id, to_branch_id, SUM(quantity) AS quantity
		FROM inventory_transactions
		WHERE transaction_type = $1
		GROUP BY date, current_branch_id, to_branch_id
		ORDER BY date DESC, from_branch_id, to_branch_id
		LIMIT $2
	`
	var out []reports.DailyTransferLine
	if err := r.selectRaw(ctx, &out, query, string(movement.TypeOutwardTransfer), limit); err != nil {
		return nil, fmt.Errorf("daily transfers: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) OEMInward(ctx context.Context, branchID string, start, end time.Time) ([]reports.InwardLine, error) {
	q := postgres.Builder().
		Select("model", "variant", "color", "SUM(quantity) AS quantity").
		From("inventory_transactions").
		Where(squirrel.Eq{"transaction_type": string(movement.TypeInwardOEM)}).
		Where(squirrel.Expr("date BETWEEN ? AND ?", start, end)).
		GroupBy("model", "variant", "color").
		OrderBy("model", "variant", "color")
	if branchID != "" {
		q = q.Where(squirrel.Eq{"current_branch_id": branchID})
	}

	var out []reports.InwardLine
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("oem inward: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) Sales(ctx context.Context, start, end time.Time) ([]reports.SalesLine, error) {
	query := `
		SELECT current_branch_id AS branch_id, model, variant, SUM(quantity) AS quantity
		FROM inventory_transactions
		WHERE transaction_type = $1
		  AND date BETWEEN $2 AND $3
		GROUP BY current_branch_id, model, variant
		ORDER BY current_branch_id, model, variant
	`
	var out []reports.SalesLine
	if err := r.selectRaw(ctx, &out, query, string(movement.TypeSale), start, end); err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) DailyCounts(ctx context.Context, date time.Time, types []movement.Type) ([]reports.DailyCount, error) {
	vals := make([]string, 0, len(types))
	for _, t := range types {
		vals = append(vals, string(t))
	}

	q := postgres.Builder().
		Select("current_branch_id AS branch_id", "transaction_type", "SUM(quantity) AS count").
		From("inventory_transactions").
		Where(squirrel.Eq{"date": date}).
		GroupBy("current_branch_id", "transaction_type").
		OrderBy("current_branch_id", "transaction_type")
	if len(vals) > 0 {
		q = q.Where(squirrel.Eq{"transaction_type": vals})
	}

	var out []reports.DailyCount
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) Recent(ctx context.Context, branchID string, limit int) ([]movement.Transaction, error) {
	q := postgres.Builder().
		Select(postgres.Columns[movement.Transaction]()...).
		From("inventory_transactions").
		OrderBy("timestamp DESC", "id DESC").
		Limit(uint64(limit))
	if branchID != "" {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"current_branch_id": branchID},
			squirrel.Eq{"from_branch_id": branchID},
			squirrel.Eq{"to_branch_id": branchID},
		})
	}

	var out []movement.Transaction
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) selectRaw(ctx context.Context, dst any, query string, args ...any) error {
	return pgxscan.Select(ctx, r.txm.GetQuerier(ctx), dst, query, args...)
}
