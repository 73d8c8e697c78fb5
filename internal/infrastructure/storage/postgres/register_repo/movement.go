package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/id"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres"
)

const movementTable = "inventory_transactions"

var _ movement.Repository = (*MovementRepo)(nil)

// MovementRepo implements movement.Repository. The table rejects UPDATE and
// DELETE with a trigger, so only inserts and reads live here.
type MovementRepo struct {
	txm        *postgres.TxManager
	selectCols []string
	insertCols []string
}

// NewMovementRepo creates a new transaction log repository.
func NewMovementRepo(txm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txm:        txm,
		selectCols: postgres.Columns[movement.Transaction](),
		insertCols: postgres.Columns[movement.Transaction]("id"),
	}
}

// Append batch inserts rows. COPY is used inside a transaction.
func (r *MovementRepo) Append(ctx context.Context, txs ...*movement.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	for _, t := range txs {
		if !t.Type.Valid() {
			return fmt.Errorf("append: unknown transaction type %q", t.Type)
		}
	}

	if r.txm.GetTx(ctx) != nil {
		rows := make([][]any, 0, len(txs))
		for _, t := range txs {
			rows = append(rows, postgres.RowValues(t, r.insertCols))
		}
		if _, err := r.txm.CopyRows(ctx, movementTable, r.insertCols, rows); err != nil {
			return postgres.Translate("copy transactions", err)
		}
		return nil
	}

	q := postgres.Builder().Insert(movementTable).Columns(r.insertCols...)
	for _, t := range txs {
		q = q.Values(postgres.RowValues(t, r.insertCols)...)
	}
	if _, err := postgres.Exec(ctx, r.txm.GetQuerier(ctx), q); err != nil {
		return postgres.Translate("insert transactions", err)
	}
	return nil
}

func (r *MovementRepo) FirstSince(ctx context.Context, mq movement.MovementQuery) (*movement.Transaction, bool, error) {
	types := make([]string, 0, len(mq.Types))
	for _, t := range mq.Types {
		types = append(types, string(t))
	}

	q := postgres.Builder().Select(r.selectCols...).From(movementTable).
		Where(squirrel.Eq{
			"current_branch_id": mq.BranchID,
			"model":             mq.Model,
			"variant":           mq.Variant,
		}).
		Where(squirrel.GtOrEq{"date": mq.Since}).
		OrderBy("date", "id").
		Limit(1)
	if len(types) > 0 {
		q = q.Where(squirrel.Eq{"transaction_type": types})
	}

	var t movement.Transaction
	found := true
	err := postgres.GetOne(ctx, r.txm.GetQuerier(ctx), &t, q, func() error {
		found = false
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("first transaction since %s: %w", mq.Since.Format("2006-01-02"), err)
	}
	if !found {
		return nil, false, nil
	}
	return &t, true, nil
}

func (r *MovementRepo) ByEvent(ctx context.Context, eventID id.ID) ([]movement.Transaction, error) {
	q := postgres.Builder().Select(r.selectCols...).From(movementTable).
		Where(squirrel.Eq{"event_id": eventID}).
		OrderBy("id")

	var out []movement.Transaction
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("transactions of event %s: %w", eventID, err)
	}
	return out, nil
}
