// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/documents/sales"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres"
)

const salesTable = "sales_records"

var _ sales.Repository = (*SalesRepo)(nil)

// SalesRepo implements sales.Repository.
type SalesRepo struct {
	txm        *postgres.TxManager
	selectCols []string
	writeCols  []string
}

// NewSalesRepo creates a new sales record repository.
func NewSalesRepo(txm *postgres.TxManager) *SalesRepo {
	return &SalesRepo{
		txm:        txm,
		selectCols: postgres.Columns[sales.SalesRecord](),
		writeCols:  postgres.Columns[sales.SalesRecord]("id"),
	}
}

func (r *SalesRepo) Create(ctx context.Context, rec *sales.SalesRecord) error {
	sql, args, err := postgres.Builder().Insert(salesTable).
		SetMap(postgres.ValueMap(rec, r.writeCols)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&rec.ID); err != nil {
		return postgres.Translate("create sales record", err)
	}
	return nil
}

func (r *SalesRepo) Update(ctx context.Context, rec *sales.SalesRecord) error {
	q := postgres.Builder().Update(salesTable).
		SetMap(postgres.ValueMap(rec, r.writeCols)).
		Where(squirrel.Eq{"id": rec.ID})

	n, err := postgres.Exec(ctx, r.txm.GetQuerier(ctx), q)
	if err != nil {
		return postgres.Translate("update sales record", err)
	}
	if n == 0 {
		return apperror.NewNotFound("sales_record", rec.ID)
	}
	return nil
}

func (r *SalesRepo) Get(ctx context.Context, id int64) (*sales.SalesRecord, error) {
	return r.get(ctx, id, "")
}

func (r *SalesRepo) GetForUpdate(ctx context.Context, id int64) (*sales.SalesRecord, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *SalesRepo) get(ctx context.Context, id int64, lock string) (*sales.SalesRecord, error) {
	q := postgres.Builder().Select(r.selectCols...).From(salesTable).Where(squirrel.Eq{"id": id})
	if lock != "" {
		q = q.Suffix(lock)
	}

	var rec sales.SalesRecord
	err := postgres.GetOne(ctx, r.txm.GetQuerier(ctx), &rec, q, func() error {
		return apperror.NewNotFound("sales_record", id)
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("get sales record %d: %w", id, err)
	}
	return &rec, nil
}

func (r *SalesRepo) ExistsDC(ctx context.Context, branchID, dcNumber string) (bool, error) {
	var exists bool
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sales_records WHERE branch_id = $1 AND dc_number = $2)`,
		branchID, dcNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("dc exists: %w", err)
	}
	return exists, nil
}

func (r *SalesRepo) ByStatuses(ctx context.Context, statuses []sales.FulfillmentStatus, branchID string) ([]sales.SalesRecord, error) {
	return r.list(ctx, r.filtered(statuses, branchID))
}

func (r *SalesRepo) ForMechanic(ctx context.Context, mechanic string, statuses []sales.FulfillmentStatus, branchID string) ([]sales.SalesRecord, error) {
	return r.list(ctx, r.filtered(statuses, branchID).Where(squirrel.Eq{"pdi_assigned_to": mechanic}))
}

func (r *SalesRepo) CompletedSince(ctx context.Context, since time.Time, branchID string) ([]sales.SalesRecord, error) {
	q := r.filtered(nil, branchID).Where(squirrel.GtOrEq{"pdi_completion_date": since})
	return r.list(ctx, q)
}

func (r *SalesRepo) filtered(statuses []sales.FulfillmentStatus, branchID string) squirrel.SelectBuilder {
	q := postgres.Builder().Select(r.selectCols...).From(salesTable).OrderBy("id")
	if len(statuses) > 0 {
		vals := make([]string, 0, len(statuses))
		for _, s := range statuses {
			vals = append(vals, string(s))
		}
		q = q.Where(squirrel.Eq{"fulfillment_status": vals})
	}
	if branchID != "" {
		q = q.Where(squirrel.Eq{"branch_id": branchID})
	}
	return q
}

func (r *SalesRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]sales.SalesRecord, error) {
	var out []sales.SalesRecord
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("list sales records: %w", err)
	}
	return out, nil
}
